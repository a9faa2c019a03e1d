// Package models holds the server-side database row types.
package models

import "time"

// User is an account row. PasswordHash is empty for accounts created through
// an OAuth provider; GoogleSubject is empty for password accounts.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	GoogleSubject string
	CreatedAt     time.Time
}
