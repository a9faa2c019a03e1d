package models

import (
	"encoding/json"
	"time"
)

// Row is a generic user-owned row in one of the whitelisted study tables.
// Fields carries the table-specific payload as JSON.
type Row struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Fields    json.RawMessage `json:"fields"`
	CreatedAt time.Time       `json:"created_at"`
}

// RowTables whitelists the tables the generic row endpoints may touch.
var RowTables = map[string]bool{
	"decks":         true,
	"quizzes":       true,
	"notifications": true,
	"achievements":  true,
}
