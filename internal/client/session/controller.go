package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/studymate-app/studymate/internal/client/backend"
	"github.com/studymate-app/studymate/internal/client/models"
	"github.com/studymate-app/studymate/internal/common"
	"github.com/studymate-app/studymate/internal/logging"
)

// User-facing auth failure messages. Credential errors are collapsed onto
// these fixed strings so responses never reveal whether an email is
// registered.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgAuthFailed         = "Authentication failed. Please try again."
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgAllFieldsRequired  = "All fields are required"
	MsgPasswordTooShort   = "Password must be at least 8 characters"
)

const minPasswordLength = 8

// fetchTask is a deferred profile fetch scheduled by an identity event.
type fetchTask struct {
	identity *models.Identity
	seq      uint64
}

// Controller reconciles backend identity events into the session store and
// exposes the imperative auth operations. It is the store's only writer.
//
// Identity-change callbacks never fetch inline: a non-nil identity enqueues
// a task that a dispatch goroutine picks up on the next turn. Calling back
// into the backend client from inside its own event emission is forbidden
// by the facade contract.
type Controller struct {
	client backend.Client
	store  *Store
	log    logging.Logger

	devMode bool
	strict  bool

	tasks     chan fetchTask
	done      chan struct{}
	unsub     func()
	closeOnce sync.Once
	wg        sync.WaitGroup

	mu       sync.Mutex
	identity *models.Identity
	seq      uint64
	applied  uint64
}

type Option func(*Controller)

// WithDevMode enables logging of raw backend errors. Outside development
// mode only the sanitized messages ever leave the controller.
func WithDevMode(on bool) Option {
	return func(c *Controller) { c.devMode = on }
}

// WithStrictOrdering fences deferred profile fetches by event sequence, so
// a stale fetch resolving late is discarded instead of overwriting a newer
// one. Off by default: the documented behavior is last-resolved-wins.
func WithStrictOrdering() Option {
	return func(c *Controller) { c.strict = true }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

func NewController(client backend.Client, store *Store, opts ...Option) *Controller {
	c := &Controller{
		client: client,
		store:  store,
		log:    logging.NewTextLogger(nopWriter{}, false),
		tasks:  make(chan fetchTask, 32),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Start runs the session startup protocol: query the current identity and
// resolve its profile, then subscribe to identity changes. Loading drops
// after the initial query settles.
func (c *Controller) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.dispatch(ctx)

	id, _ := c.client.CurrentIdentity(ctx)
	if id != nil {
		c.resolveProfile(ctx, id, c.nextSeq())
	} else {
		c.store.set(Session{Profile: nil, Loading: false})
	}

	c.unsub = c.client.OnIdentityChange(c.onIdentityChange)
}

// Close unsubscribes from identity events and stops the dispatch worker.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		if c.unsub != nil {
			c.unsub()
		}
		close(c.done)
	})
	c.wg.Wait()
}

func (c *Controller) nextSeq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// onIdentityChange is invoked synchronously by the backend client. A nil
// identity clears the session in place (no network call needed); a non-nil
// identity only enqueues the profile fetch.
func (c *Controller) onIdentityChange(_ backend.IdentityEvent, id *models.Identity) {
	if id == nil {
		c.mu.Lock()
		c.identity = nil
		c.mu.Unlock()
		c.store.set(Session{Profile: nil, Loading: false})
		return
	}

	task := fetchTask{identity: id, seq: c.nextSeq()}
	select {
	case c.tasks <- task:
	case <-c.done:
	}
}

// dispatch drains deferred fetch tasks. Each fetch runs in its own
// goroutine, so two rapid-fire identity events can have their fetches
// interleave; see resolveProfile for how late resolutions are applied.
func (c *Controller) dispatch(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case task := <-c.tasks:
			c.wg.Add(1)
			go func(t fetchTask) {
				defer c.wg.Done()
				c.resolveProfile(ctx, t.identity, t.seq)
			}(task)
		case <-c.done:
			return
		}
	}
}

// resolveProfile fetches the identity's profile and publishes the result.
// A fetch failure (including a missing row) never signs the user out: a
// minimal profile is synthesized from the identity instead.
//
// Without strict ordering the session takes whichever fetch resolves last
// (last-write-wins); with it, resolutions older than the newest applied
// event are discarded.
func (c *Controller) resolveProfile(ctx context.Context, id *models.Identity, seq uint64) {
	var profile *models.Profile

	row, err := c.client.FetchProfile(ctx, id.ID)
	if err != nil {
		c.log.Warn(ctx, "profile fetch failed, using fallback", "user_id", id.ID)
		if c.devMode {
			c.log.Debug(ctx, "profile fetch error detail", "err", err)
		}
		profile = SynthesizeProfile(id)
	} else {
		profile = models.ProfileFromRow(row)
	}

	c.mu.Lock()
	if c.strict && seq < c.applied {
		c.mu.Unlock()
		return
	}
	if seq > c.applied {
		c.applied = seq
	}
	c.identity = id
	c.mu.Unlock()

	c.store.set(Session{Profile: profile, Loading: false})
}

// SynthesizeProfile builds the minimal fallback profile used when the
// profile read fails: name from the email local part, exam mode, counters
// zeroed.
func SynthesizeProfile(id *models.Identity) *models.Profile {
	return &models.Profile{
		UserID:   id.ID,
		Name:     common.EmailLocalPart(id.Email),
		Email:    id.Email,
		UserType: models.UserTypeExam,
	}
}

// SignIn authenticates with a normalized email. Backend failures surface
// as one of two fixed strings; the raw error is logged only in dev mode.
func (c *Controller) SignIn(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	err := c.client.SignInWithPassword(ctx, email, password)
	if err == nil {
		return nil
	}
	if c.devMode {
		c.log.Debug(ctx, "sign-in error detail", "err", err)
	}
	if errors.Is(err, backend.ErrInvalidCredentials) ||
		strings.Contains(err.Error(), "Invalid login credentials") {
		return errors.New(MsgInvalidCredentials)
	}
	return errors.New(MsgAuthFailed)
}

// SignUp validates locally before any network round-trip: all fields
// required, password at least eight characters.
func (c *Controller) SignUp(ctx context.Context, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if email == "" || password == "" || name == "" {
		return errors.New(MsgAllFieldsRequired)
	}
	if len(password) < minPasswordLength {
		return errors.New(MsgPasswordTooShort)
	}

	err := c.client.SignUp(ctx, email, password, name)
	if err == nil {
		return nil
	}
	if c.devMode {
		c.log.Debug(ctx, "sign-up error detail", "err", err)
	}
	// "Already registered" collapses onto the same fixed string as any
	// other failure, so sign-up responses don't reveal registered emails.
	return errors.New(MsgRegistrationFailed)
}

// SignInWithGoogle starts the redirect-based provider flow and returns the
// URL to visit. The session updates later, via identity events.
func (c *Controller) SignInWithGoogle(ctx context.Context) (string, error) {
	url, err := c.client.SignInWithOAuth(ctx, "google")
	if err != nil {
		if c.devMode {
			c.log.Debug(ctx, "oauth start error detail", "err", err)
		}
		return "", errors.New(MsgAuthFailed)
	}
	return url, nil
}

// SignOut clears the session only after the backend confirms. On failure
// the session is left untouched: a false "logged out" view while the
// server still holds the session is worse than surfacing the error.
func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.client.SignOut(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.identity = nil
	c.mu.Unlock()
	c.store.set(Session{Profile: nil, Loading: false})
	return nil
}

// UpdateUserType writes the accumulated onboarding result as a partial
// profile update, then re-fetches the full profile. The backend round-trip
// is the source of truth, never the local optimistic merge.
func (c *Controller) UpdateUserType(ctx context.Context, details models.AcademicDetails, update models.ProfileUpdate) error {
	c.mu.Lock()
	id := c.identity
	c.mu.Unlock()
	if id == nil {
		return backend.ErrUnauthorized
	}

	fields := models.BuildProfileFields(details, update)
	if err := c.client.UpdateProfile(ctx, id.ID, fields); err != nil {
		return err
	}

	return c.Refetch(ctx)
}

// Refetch reloads the current identity's profile from the backend. When
// the read fails and no profile is held yet, the synthesized fallback is
// installed; when one is held, it is kept and the error returned.
func (c *Controller) Refetch(ctx context.Context) error {
	c.mu.Lock()
	id := c.identity
	c.mu.Unlock()
	if id == nil {
		return backend.ErrUnauthorized
	}

	row, err := c.client.FetchProfile(ctx, id.ID)
	if err != nil {
		if c.store.Snapshot().Profile == nil {
			c.store.set(Session{Profile: SynthesizeProfile(id), Loading: false})
			return nil
		}
		return err
	}
	c.store.set(Session{Profile: models.ProfileFromRow(row), Loading: false})
	return nil
}
