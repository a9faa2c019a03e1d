package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/dbx"
	"github.com/studymate-app/studymate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, google_subject)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.GoogleSubject).Scan(&user.ID, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, google_subject, created_at FROM users
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, google_subject, created_at FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, google_subject, created_at FROM users
		WHERE google_subject = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, subject))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanOne(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.GoogleSubject, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
