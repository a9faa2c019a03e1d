package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/studymate-app/studymate/internal/client/models"
)

const (
	headerContentType = "Content-Type"
	headerUserAgent   = "User-Agent"
	contentTypeJSON   = "application/json"
	clientUserAgent   = "studymate-go/1.0.0"
)

// HTTPClient is the Client implementation speaking JSON over HTTP. It holds
// the current token pair, retries once with a refreshed token on an expired
// access token, and fans identity transitions out to subscribers.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	identity     *models.Identity

	subMu  sync.Mutex
	subs   map[int]IdentityCallback
	nextID int
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 12 * time.Second},
		subs:       make(map[int]IdentityCallback),
	}
}

// OnIdentityChange registers cb and returns an unsubscribe func. Events are
// delivered in emission order; delivery is synchronous, so subscribers must
// not call back into the client (see IdentityCallback).
func (c *HTTPClient) OnIdentityChange(cb IdentityCallback) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = cb
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *HTTPClient) emit(event IdentityEvent, id *models.Identity) {
	c.subMu.Lock()
	cbs := make([]IdentityCallback, 0, len(c.subs))
	for _, cb := range c.subs {
		cbs = append(cbs, cb)
	}
	c.subMu.Unlock()
	for _, cb := range cbs {
		cb(event, id)
	}
}

// doRequest performs an HTTP request against the backend, attaching the
// bearer token when one is held. Responses with status >= 400 become
// *APIError; transport-level failures become ErrUnavailable.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body, result any) error {
	reqURL, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	var bodyBytes []byte
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	do := func(token string) (*http.Response, error) {
		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set(headerUserAgent, clientUserAgent)
		if body != nil {
			req.Header.Set(headerContentType, contentTypeJSON)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return c.httpClient.Do(req)
	}

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()

	resp, err := do(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Expired access token: refresh once and replay the request with the
	// new token, mirroring the usual SDK interceptor behavior.
	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.refresh(ctx); err != nil {
			return err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()

		resp, err = do(token)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return parseAPIError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, result any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, result)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, result any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, result)
}

func (c *HTTPClient) patch(ctx context.Context, path string, body, result any) error {
	return c.doRequest(ctx, http.MethodPatch, path, body, result)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *HTTPClient) storeTokens(t *tokenResponse) *models.Identity {
	id := &models.Identity{ID: t.User.ID, Email: t.User.Email}
	c.mu.Lock()
	c.accessToken = t.AccessToken
	c.refreshToken = t.RefreshToken
	c.identity = id
	c.mu.Unlock()
	return id
}

// refresh exchanges the held refresh token for a new pair and emits a
// TOKEN_REFRESHED transition.
func (c *HTTPClient) refresh(ctx context.Context) error {
	c.mu.Lock()
	rt := c.refreshToken
	c.mu.Unlock()
	if rt == "" {
		return ErrUnauthorized
	}

	var tr tokenResponse
	// Direct call, bypassing doRequest: the refresh endpoint itself must not
	// trigger another refresh attempt.
	reqURL, err := url.JoinPath(c.baseURL, "/v1/auth/refresh")
	if err != nil {
		return err
	}
	body, _ := json.Marshal(map[string]string{"refresh_token": rt})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set(headerContentType, contentTypeJSON)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return parseAPIError(resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return fmt.Errorf("failed to parse refresh response: %w", err)
	}

	id := c.storeTokens(&tr)
	c.emit(EventTokenRefreshed, id)
	return nil
}

// CurrentIdentity returns the identity the held credential belongs to, or
// nil when there is none. Transport errors degrade silently to nil.
func (c *HTTPClient) CurrentIdentity(ctx context.Context) (*models.Identity, error) {
	c.mu.Lock()
	token := c.accessToken
	cached := c.identity
	c.mu.Unlock()
	if token == "" {
		return nil, nil
	}

	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := c.get(ctx, "/v1/auth/me", &me); err != nil {
		// Fail silently to the cached identity; a read failure must not
		// look like a sign-out.
		return cached, nil
	}
	id := &models.Identity{ID: me.ID, Email: me.Email}
	c.mu.Lock()
	c.identity = id
	c.mu.Unlock()
	return id, nil
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) error {
	var tr tokenResponse
	err := c.post(ctx, "/v1/auth/token", map[string]string{
		"email":    email,
		"password": password,
	}, &tr)
	if err != nil {
		return err
	}
	id := c.storeTokens(&tr)
	c.emit(EventSignedIn, id)
	return nil
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password, name string) error {
	return c.post(ctx, "/v1/auth/signup", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, nil)
}

func (c *HTTPClient) SignInWithOAuth(ctx context.Context, provider string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, "/v1/auth/"+provider+"/start", &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	rt := c.refreshToken
	c.mu.Unlock()

	if err := c.post(ctx, "/v1/auth/signout", map[string]string{"refresh_token": rt}, nil); err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.identity = nil
	c.mu.Unlock()
	c.emit(EventSignedOut, nil)
	return nil
}

func (c *HTTPClient) FetchProfile(ctx context.Context, userID string) (*models.ProfileRow, error) {
	var row models.ProfileRow
	if err := c.get(ctx, "/v1/profiles/"+userID, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	return c.patch(ctx, "/v1/profiles/"+userID, fields, nil)
}

func (c *HTTPClient) InvokeFunction(ctx context.Context, name string, payload, result any) error {
	return c.post(ctx, "/v1/functions/"+name, payload, result)
}

func (c *HTTPClient) PresignUpload(ctx context.Context, contentType string) (string, string, error) {
	var out struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	err := c.post(ctx, "/v1/storage/presign", map[string]string{"content_type": contentType}, &out)
	if err != nil {
		return "", "", err
	}
	return out.Key, out.URL, nil
}

func (c *HTTPClient) ListRows(ctx context.Context, table, userID string, result any) error {
	return c.get(ctx, "/v1/tables/"+table+"?user_id="+url.QueryEscape(userID), result)
}

func (c *HTTPClient) InsertRow(ctx context.Context, table string, fields map[string]any) error {
	return c.post(ctx, "/v1/tables/"+table, fields, nil)
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

var _ Client = (*HTTPClient)(nil)
