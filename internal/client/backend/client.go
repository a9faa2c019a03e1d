// Package backend defines the client facade over the managed backend
// service: auth, profile rows, generic table rows, function invocation, and
// object-storage presigning. The rest of the client depends only on the
// Client interface; the HTTP implementation lives in httpclient.go.
package backend

import (
	"context"

	"github.com/studymate-app/studymate/internal/client/models"
)

// IdentityEvent describes an auth-state transition reported by the backend.
type IdentityEvent string

const (
	EventSignedIn       IdentityEvent = "SIGNED_IN"
	EventSignedOut      IdentityEvent = "SIGNED_OUT"
	EventTokenRefreshed IdentityEvent = "TOKEN_REFRESHED"
)

// IdentityCallback receives auth transitions. The identity is nil for
// sign-out events.
//
// Callbacks are invoked synchronously from inside the client, at most once
// per transition and in transition order. They MUST NOT call back into the
// client; schedule any follow-up work (profile fetches in particular) on a
// separate goroutine or queue.
type IdentityCallback func(event IdentityEvent, id *models.Identity)

// Client is the narrow contract the session layer consumes.
type Client interface {
	// CurrentIdentity returns the active identity, or nil when no credential
	// is active. Transport errors degrade silently to a nil identity.
	CurrentIdentity(ctx context.Context) (*models.Identity, error)

	// OnIdentityChange registers cb for auth transitions and returns an
	// unsubscribe function.
	OnIdentityChange(cb IdentityCallback) (unsubscribe func())

	FetchProfile(ctx context.Context, userID string) (*models.ProfileRow, error)
	UpdateProfile(ctx context.Context, userID string, fields map[string]any) error

	SignInWithPassword(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, name string) error

	// SignInWithOAuth starts a redirect-based provider flow and returns the
	// URL the user must visit. Nothing else is observable synchronously.
	SignInWithOAuth(ctx context.Context, provider string) (string, error)

	SignOut(ctx context.Context) error

	// InvokeFunction calls a named serverless function with a JSON payload
	// and decodes the JSON response into result (which may be nil).
	InvokeFunction(ctx context.Context, name string, payload, result any) error

	// PresignUpload returns a storage key and a presigned PUT URL for a blob
	// of the given content type.
	PresignUpload(ctx context.Context, contentType string) (key, url string, err error)

	// ListRows reads all rows of a whitelisted table owned by userID into
	// result (a pointer to a slice).
	ListRows(ctx context.Context, table, userID string, result any) error

	// InsertRow creates a row in a whitelisted table.
	InsertRow(ctx context.Context, table string, fields map[string]any) error

	Close() error
}
