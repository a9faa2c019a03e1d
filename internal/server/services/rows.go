package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/server/models"
	"github.com/studymate-app/studymate/internal/server/repositories/repomanager"
)

// RowService exposes the whitelisted generic tables (decks, quizzes,
// notifications, achievements) as flat JSON objects. Rows are stored as a
// JSONB payload; reads merge the payload with the row metadata so clients
// see one flat object.
type RowService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRowService(db *sql.DB, m repomanager.RepositoryManager) *RowService {
	return &RowService{db: db, repomanager: m}
}

func flattenRow(row models.Row) (map[string]any, error) {
	out := map[string]any{}
	if len(row.Fields) > 0 {
		if err := json.Unmarshal(row.Fields, &out); err != nil {
			return nil, fmt.Errorf("corrupt row %s: %w", row.ID, err)
		}
	}
	out["id"] = row.ID
	out["user_id"] = row.UserID
	out["created_at"] = row.CreatedAt.UTC().Format(time.RFC3339)
	return out, nil
}

// List returns the caller's rows in a table, newest first, flattened.
// The result is never nil, so an empty table encodes as [].
func (s *RowService) List(ctx context.Context, table, userID string) ([]map[string]any, error) {
	if !models.RowTables[table] {
		return nil, fmt.Errorf("%w: unknown table %q", common.ErrValidation, table)
	}
	rows, err := s.repomanager.Rows(s.db).List(ctx, table, userID)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		flat, err := flattenRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, flat)
	}
	return out, nil
}

// Insert stores a flat object as a new row owned by userID. Row metadata
// keys in the payload are dropped; ownership always comes from the
// authenticated user.
func (s *RowService) Insert(ctx context.Context, table, userID string, fields map[string]any) (map[string]any, error) {
	if !models.RowTables[table] {
		return nil, fmt.Errorf("%w: unknown table %q", common.ErrValidation, table)
	}

	payload := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case "id", "user_id", "created_at":
			continue
		}
		payload[k] = v
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not JSON-encodable", common.ErrValidation)
	}

	row, err := s.repomanager.Rows(s.db).Insert(ctx, table, userID, raw)
	if err != nil {
		return nil, err
	}
	return flattenRow(*row)
}
