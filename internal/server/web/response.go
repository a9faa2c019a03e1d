// Package web is the HTTP surface of the server: routing, middleware, and
// JSON request/response handling for the /v1 API.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studymate-app/studymate/internal/common"
)

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for token responses.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteErrorCode writes an error body with an explicit machine-readable code.
func WriteErrorCode(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorBody{Code: code, Message: message})
}

// WriteError maps a service error onto a status code and error body.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrAlreadyExists):
		WriteErrorCode(w, http.StatusConflict, "already_registered", "email is already registered")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrRefreshTokenExpired):
		WriteErrorCode(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
	case errors.Is(err, common.ErrTokenExpired):
		WriteErrorCode(w, http.StatusUnauthorized, "token_expired", "access token expired")
	case errors.Is(err, common.ErrInvalidToken):
		WriteErrorCode(w, http.StatusUnauthorized, "invalid_token", "invalid access token")
	case errors.Is(err, common.ErrorNotFound):
		WriteErrorCode(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, common.ErrValidation):
		WriteErrorCode(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		WriteErrorCode(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// decodeJSON reads a JSON request body into dst, rejecting unparsable bodies.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrValidation
	}
	return nil
}
