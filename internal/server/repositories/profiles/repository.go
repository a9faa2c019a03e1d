package profiles

import (
	"context"

	"github.com/studymate-app/studymate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, userID string) (*models.Profile, error)
	// UpdateFields applies a partial update of whitelisted columns.
	UpdateFields(ctx context.Context, userID string, fields map[string]any) error
}
