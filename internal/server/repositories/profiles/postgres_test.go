package profiles

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func profileColumns() []string {
	return []string{
		"user_id", "name", "email", "user_type", "exam_type", "target_year",
		"college", "semester", "course", "age", "avatar_url", "subjects",
		"study_preferences", "daily_study_hours", "reminder_time", "review_mode",
		"study_streak", "total_study_hours", "level", "experience_points",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+profiles`).
		WithArgs("u-1", "Abhi", "abhi@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Profile{UserID: "u-1", Name: "Abhi", Email: "abhi@example.com"}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create error: %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(profileColumns()).
		AddRow("u-1", "Abhi", "abhi@example.com", "exam", "JEE", "2027",
			"", "", "", 17, "", "[]",
			"[]", 3.0, "18:00", "spaced",
			5, 12.5, 2, 340)
	mock.ExpectQuery(`(?s)^\s*SELECT\s+user_id,.*FROM\s+profiles`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != "Abhi" || got.ExamType != "JEE" || got.StudyStreak != 5 {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\s+user_id,.*FROM\s+profiles`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateFields_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// Columns are applied in sorted order: age, name, user_type.
	mock.ExpectExec(`^UPDATE\s+profiles\s+SET\s+age\s*=\s*\$1,\s*name\s*=\s*\$2,\s*user_type\s*=\s*\$3\s+WHERE\s+user_id\s*=\s*\$4$`).
		WithArgs(17, "Abhi", "exam", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFields(context.Background(), "u-1", map[string]any{
		"name":      "Abhi",
		"age":       17,
		"user_type": "exam",
	})
	if err != nil {
		t.Fatalf("UpdateFields error: %v", err)
	}
}

func TestUpdateFields_RejectsUnknownColumn(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	err := repo.UpdateFields(context.Background(), "u-1", map[string]any{
		"password_hash": "sneaky",
	})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want common.ErrValidation, got %v", err)
	}
}

func TestUpdateFields_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE\s+profiles\s+SET\s+name\s*=\s*\$1\s+WHERE\s+user_id\s*=\s*\$2$`).
		WithArgs("Abhi", "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFields(context.Background(), "ghost", map[string]any{"name": "Abhi"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateFields_Empty(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	if err := repo.UpdateFields(context.Background(), "u-1", nil); err != nil {
		t.Fatalf("expected nil for empty update, got %v", err)
	}
}
