package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/server/models"
)

type fakeRowsRepo struct {
	listOut []models.Row
	listErr error

	insertOut *models.Row
	insertErr error

	lastTable  string
	lastFields json.RawMessage
}

func (f *fakeRowsRepo) List(ctx context.Context, table, userID string) ([]models.Row, error) {
	f.lastTable = table
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeRowsRepo) Insert(ctx context.Context, table, userID string, fields json.RawMessage) (*models.Row, error) {
	f.lastTable = table
	f.lastFields = fields
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.insertOut != nil {
		return f.insertOut, nil
	}
	return &models.Row{ID: "r-1", UserID: userID, Fields: fields, CreatedAt: time.Now()}, nil
}

func newRowService(t *testing.T, repo *fakeRowsRepo) *RowService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, p: &fakeProfilesRepo{}, r: &fakeRefreshRepo{}, rw: repo}
	return NewRowService(db, rm)
}

func TestRowList_Flattens(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRowsRepo{listOut: []models.Row{
		{ID: "r-1", UserID: "u-1", Fields: json.RawMessage(`{"title":"Electricity","subject":"Physics"}`), CreatedAt: created},
	}}
	s := newRowService(t, repo)

	got, err := s.List(context.Background(), "decks", "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	row := got[0]
	if row["id"] != "r-1" || row["user_id"] != "u-1" || row["title"] != "Electricity" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row["created_at"] != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected created_at: %v", row["created_at"])
	}
}

func TestRowList_EmptyIsNotNil(t *testing.T) {
	s := newRowService(t, &fakeRowsRepo{})

	got, err := s.List(context.Background(), "decks", "u-1")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRowList_UnknownTable(t *testing.T) {
	s := newRowService(t, &fakeRowsRepo{})

	_, err := s.List(context.Background(), "users", "u-1")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want common.ErrValidation, got %v", err)
	}
}

func TestRowInsert_StripsMetadataAndSetsOwner(t *testing.T) {
	repo := &fakeRowsRepo{}
	s := newRowService(t, repo)

	got, err := s.Insert(context.Background(), "decks", "u-1", map[string]any{
		"title":   "Electricity",
		"subject": "Physics",
		"user_id": "someone-else",
		"id":      "spoofed",
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	var stored map[string]any
	if err := json.Unmarshal(repo.lastFields, &stored); err != nil {
		t.Fatalf("stored fields not JSON: %v", err)
	}
	if _, ok := stored["user_id"]; ok {
		t.Fatalf("user_id leaked into payload: %v", stored)
	}
	if _, ok := stored["id"]; ok {
		t.Fatalf("id leaked into payload: %v", stored)
	}
	if stored["title"] != "Electricity" {
		t.Fatalf("unexpected payload: %v", stored)
	}
	if got["user_id"] != "u-1" {
		t.Fatalf("owner not enforced: %v", got)
	}
}

func TestRowInsert_UnknownTable(t *testing.T) {
	s := newRowService(t, &fakeRowsRepo{})

	_, err := s.Insert(context.Background(), "refresh_tokens", "u-1", map[string]any{"x": 1})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want common.ErrValidation, got %v", err)
	}
}
