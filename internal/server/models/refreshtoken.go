package models

import "time"

// RefreshToken is a server-stored opaque token. Tokens are rotated on every
// refresh: the presented token is deleted and a new one issued.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
