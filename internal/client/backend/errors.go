package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors the session layer matches with errors.Is.
var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrAlreadyRegistered  = errors.New("user already registered")
)

// APIError is a structured error body returned by the backend.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap maps well-known API errors onto the package sentinels so callers
// can use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.Code == "invalid_credentials":
		return ErrInvalidCredentials
	case e.Code == "already_registered":
		return ErrAlreadyRegistered
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case e.StatusCode == http.StatusBadGateway, e.StatusCode == http.StatusServiceUnavailable,
		e.StatusCode == http.StatusGatewayTimeout:
		return ErrUnavailable
	}
	return nil
}

func parseAPIError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(statusCode)
	}
	return apiErr
}
