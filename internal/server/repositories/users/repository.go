package users

import (
	"context"

	"github.com/studymate-app/studymate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByGoogleSubject(ctx context.Context, subject string) (*models.User, error)
}
