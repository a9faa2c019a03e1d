package rows

import (
	"context"
	"encoding/json"

	"github.com/studymate-app/studymate/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, table, userID string) ([]models.Row, error)
	Insert(ctx context.Context, table, userID string, fields json.RawMessage) (*models.Row, error)
}
