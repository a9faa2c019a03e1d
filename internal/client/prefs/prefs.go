// Package prefs is the client's only local persistence: a small sqlite
// key-value store for UI preferences. The session itself is never written
// here; it is always rehydrated from the backend.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/studymate-app/studymate/internal/client/prefs/migrations"
	"github.com/studymate-app/studymate/internal/dbx"

	_ "modernc.org/sqlite"
)

const keyDarkMode = "dark_mode"

// InitDatabase opens the preference database and applies the embedded
// migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("prefs migration error: %w", err)
	}
	return db, nil
}

// Store reads and writes preference keys.
type Store struct {
	db dbx.DBTX
}

func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get preference[%s]: %w", key, err)
	}
	return value, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set preference[%s]: %w", key, err)
	}
	return nil
}

// DarkMode returns the stored dark-mode preference; absent means false.
func (s *Store) DarkMode(ctx context.Context) (bool, error) {
	v, err := s.get(ctx, keyDarkMode)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (s *Store) SetDarkMode(ctx context.Context, on bool) error {
	v := "false"
	if on {
		v = "true"
	}
	return s.set(ctx, keyDarkMode, v)
}
