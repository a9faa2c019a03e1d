package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/studymate-app/studymate/internal/server/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUser is the subset of the userinfo response the server needs.
type GoogleUser struct {
	Subject string
	Email   string
	Name    string
}

// GoogleProvider wraps the oauth2 config for the Google sign-in flow.
type GoogleProvider struct {
	config *oauth2.Config
}

func NewGoogleProvider(cfg *config.Config) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  strings.TrimRight(cfg.GoogleRedirectBaseURL, "/") + "/v1/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Configured reports whether client credentials are present.
func (p *GoogleProvider) Configured() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

// AuthURL returns the provider URL the user must visit, bound to state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange redeems the callback code and fetches the user's identity.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth code exchange error: %w", err)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, errors.New("failed to fetch Google user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("failed to fetch Google user info")
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.New("failed to parse Google user info")
	}
	if payload.Email == "" {
		return nil, errors.New("Google account has no email")
	}

	return &GoogleUser{Subject: payload.ID, Email: payload.Email, Name: payload.Name}, nil
}
