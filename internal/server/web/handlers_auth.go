package web

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/server/models"
	"github.com/studymate-app/studymate/internal/server/services"
)

const minPasswordLength = 8

type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         userBody `json:"user"`
}

type userBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func writeTokenPair(w http.ResponseWriter, user *models.User, pair *services.TokenPair) {
	WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         userBody{ID: user.ID, Email: user.Email},
	})
}

func (rt *Router) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if !strings.Contains(req.Email, "@") {
		WriteErrorCode(w, http.StatusBadRequest, "validation_failed", "a valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		WriteErrorCode(w, http.StatusBadRequest, "validation_failed", "password must be at least 8 characters")
		return
	}

	user, err := rt.users.Register(r.Context(), req.Email, req.Password, strings.TrimSpace(req.Name))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, userBody{ID: user.ID, Email: user.Email})
}

func (rt *Router) handleToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, pair, err := rt.users.Login(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeTokenPair(w, user, pair)
}

func (rt *Router) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.RefreshToken == "" {
		WriteError(w, common.ErrorUnauthorized)
		return
	}

	user, pair, err := rt.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeTokenPair(w, user, pair)
}

func (rt *Router) handleSignout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if err := rt.users.SignOut(r.Context(), req.RefreshToken); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	user, err := rt.users.GetUser(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, userBody{ID: user.ID, Email: user.Email})
}

// stateStore holds pending OAuth state values. States expire after ten
// minutes; the map is tiny, so expired entries are swept on each use.
type stateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func newStateStore() *stateStore {
	return &stateStore{states: make(map[string]time.Time)}
}

func (s *stateStore) issue() (string, error) {
	state, err := common.MakeRandHexString(16)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for k, exp := range s.states {
		if exp.Before(now) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(10 * time.Minute)
	return state, nil
}

func (s *stateStore) consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return exp.After(time.Now())
}

func (rt *Router) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	if !rt.google.Configured() {
		WriteErrorCode(w, http.StatusServiceUnavailable, "provider_unavailable",
			"Google sign-in is not configured on this server")
		return
	}
	state, err := rt.states.issue()
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"url": rt.google.AuthURL(state)})
}

func (rt *Router) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !rt.google.Configured() {
		WriteErrorCode(w, http.StatusServiceUnavailable, "provider_unavailable",
			"Google sign-in is not configured on this server")
		return
	}
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" || !rt.states.consume(state) {
		WriteErrorCode(w, http.StatusBadRequest, "validation_failed", "invalid oauth state")
		return
	}

	gu, err := rt.google.Exchange(r.Context(), code)
	if err != nil {
		rt.log.Warn(r.Context(), "google exchange failed", "error", err)
		WriteError(w, common.ErrorUnauthorized)
		return
	}

	user, pair, err := rt.users.LoginWithGoogle(r.Context(), gu)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeTokenPair(w, user, pair)
}
