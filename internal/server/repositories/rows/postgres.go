// Package rows stores the generic user-owned study rows (decks, quizzes,
// notifications, achievements) as JSONB payloads in a single table keyed by
// logical table name.
package rows

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/studymate-app/studymate/internal/dbx"
	"github.com/studymate-app/studymate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, table, userID string) ([]models.Row, error) {
	query := `
		SELECT id, user_id, fields, created_at
		FROM study_rows
		WHERE table_name = $1 AND user_id = $2
		ORDER BY created_at DESC
	`
	rs, err := r.db.QueryContext(ctx, query, table, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rs.Close()

	var out []models.Row
	for rs.Next() {
		var row models.Row
		if err := rs.Scan(&row.ID, &row.UserID, &row.Fields, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, table, userID string, fields json.RawMessage) (*models.Row, error) {
	query := `
		INSERT INTO study_rows (table_name, user_id, fields)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	row := &models.Row{UserID: userID, Fields: fields}
	err := r.db.QueryRowContext(ctx, query, table, userID, []byte(fields)).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}
