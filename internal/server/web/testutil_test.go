package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/dbx"
	"github.com/studymate-app/studymate/internal/logging"
	"github.com/studymate-app/studymate/internal/server/auth"
	"github.com/studymate-app/studymate/internal/server/config"
	"github.com/studymate-app/studymate/internal/server/models"
	profilesrepo "github.com/studymate-app/studymate/internal/server/repositories/profiles"
	refreshtokensrepo "github.com/studymate-app/studymate/internal/server/repositories/refreshtokens"
	"github.com/studymate-app/studymate/internal/server/repositories/repomanager"
	rowsrepo "github.com/studymate-app/studymate/internal/server/repositories/rows"
	usersrepo "github.com/studymate-app/studymate/internal/server/repositories/users"
	"github.com/studymate-app/studymate/internal/server/services"
)

const testSecret = "test-secret"

// --- in-memory repositories ---

type memUsersRepo struct {
	byID      map[string]*models.User
	byEmail   map[string]*models.User
	bySubject map[string]*models.User
	nextID    int
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{
		byID:      map[string]*models.User{},
		byEmail:   map[string]*models.User{},
		bySubject: map[string]*models.User{},
	}
}

func (m *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	m.nextID++
	out := *u
	out.ID = fmt.Sprintf("u-%d", m.nextID)
	out.CreatedAt = time.Now()
	m.byID[out.ID] = &out
	m.byEmail[out.Email] = &out
	if out.GoogleSubject != "" {
		m.bySubject[out.GoogleSubject] = &out
	}
	return &out, nil
}

func (m *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memUsersRepo) GetByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	if u, ok := m.bySubject[subject]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type memProfilesRepo struct {
	profiles map[string]*models.Profile
}

func newMemProfilesRepo() *memProfilesRepo {
	return &memProfilesRepo{profiles: map[string]*models.Profile{}}
}

func (m *memProfilesRepo) Create(ctx context.Context, p *models.Profile) error {
	cp := *p
	if cp.Level == 0 {
		cp.Level = 1
	}
	m.profiles[p.UserID] = &cp
	return nil
}

func (m *memProfilesRepo) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := m.profiles[userID]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memProfilesRepo) UpdateFields(ctx context.Context, userID string, fields map[string]any) error {
	p, ok := m.profiles[userID]
	if !ok {
		return common.ErrorNotFound
	}
	for col, v := range fields {
		if !models.UpdatableProfileColumns[col] {
			return common.ErrValidation
		}
		switch col {
		case "name":
			p.Name, _ = v.(string)
		case "user_type":
			p.UserType, _ = v.(string)
		case "exam_type":
			p.ExamType, _ = v.(string)
		case "subjects":
			p.Subjects, _ = v.(string)
		case "age":
			switch n := v.(type) {
			case int:
				p.Age = n
			case float64:
				p.Age = int(n)
			}
		}
	}
	return nil
}

type memRefreshRepo struct {
	tokens map[string]*models.RefreshToken
}

func newMemRefreshRepo() *memRefreshRepo {
	return &memRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (m *memRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	m.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (m *memRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.tokens[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (m *memRefreshRepo) Delete(ctx context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

type memRowsRepo struct {
	rows   []models.Row
	nextID int
}

func (m *memRowsRepo) List(ctx context.Context, table, userID string) ([]models.Row, error) {
	var out []models.Row
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRowsRepo) Insert(ctx context.Context, table, userID string, fields json.RawMessage) (*models.Row, error) {
	m.nextID++
	row := models.Row{
		ID:        fmt.Sprintf("r-%d", m.nextID),
		UserID:    userID,
		Fields:    fields,
		CreatedAt: time.Now(),
	}
	m.rows = append(m.rows, row)
	return &row, nil
}

type memRepoManager struct {
	u  *memUsersRepo
	p  *memProfilesRepo
	r  *memRefreshRepo
	rw *memRowsRepo
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{
		u:  newMemUsersRepo(),
		p:  newMemProfilesRepo(),
		r:  newMemRefreshRepo(),
		rw: &memRowsRepo{},
	}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *memRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository { return m.p }
func (m *memRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
func (m *memRepoManager) Rows(db dbx.DBTX) rowsrepo.Repository { return m.rw }

var _ repomanager.RepositoryManager = (*memRepoManager)(nil)

// --- harness ---

type testEnv struct {
	router *Router
	server *httptest.Server
	rm     *memRepoManager
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	// The in-memory repositories ignore the DBTX, only the transaction
	// plumbing touches the mock.
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 64; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	cfg.AccessTokenValidityDuration = time.Hour
	cfg.RefreshTokenValidityDuration = 24 * time.Hour

	rm := newMemRepoManager()
	log := logging.NewTextLogger(io.Discard, false)

	rt := NewRouter(
		cfg,
		log,
		services.NewUserService(db, rm, cfg),
		services.NewProfileService(db, rm),
		services.NewRowService(db, rm),
		services.NewStorageService(cfg),
		services.NewFunctionService(cfg),
		auth.NewGoogleProvider(cfg),
	)

	srv := httptest.NewServer(rt.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{router: rt, server: srv, rm: rm, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

// signUpAndSignIn registers a user and returns its id with a valid token pair.
func (e *testEnv) signUpAndSignIn(t *testing.T, email, password, name string) (string, tokenResponse) {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"email": email, "password": password, "name": name,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status %d: %s", resp.StatusCode, body)
	}

	resp, body = e.do(t, http.MethodPost, "/v1/auth/token", "", map[string]string{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("token status %d: %s", resp.StatusCode, body)
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		t.Fatalf("parse token response: %v", err)
	}
	return tr.User.ID, tr
}

func errCode(t *testing.T, body []byte) string {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		t.Fatalf("parse error body %q: %v", body, err)
	}
	return eb.Code
}
