// Package session owns the client's single authenticated session: the store
// holding it, the controller reconciling it from backend identity events,
// and the gate deriving the top-level navigation state from it.
package session

import (
	"sync"

	"github.com/studymate-app/studymate/internal/client/models"
)

// Session is the process-wide authentication state. It is created empty,
// populated once the backend reports an active credential, cleared on
// sign-out, and never persisted locally.
type Session struct {
	// Profile mirrors the backend profile row. Readers must treat it as
	// read-only; only the controller replaces it.
	Profile *models.Profile

	// Loading is true from construction until the first resolution: either
	// the initial identity query settles or the first change event lands.
	Loading bool
}

// Authenticated is derived, never stored.
func (s Session) Authenticated() bool { return s.Profile != nil }

// Store holds exactly one Session and fans out changes to subscribers.
// The controller is the only writer; everything else reads snapshots or
// subscribes.
type Store struct {
	mu      sync.RWMutex
	session Session

	subMu  sync.Mutex
	subs   map[int]func(Session)
	nextID int
}

func NewStore() *Store {
	return &Store{
		session: Session{Loading: true},
		subs:    make(map[int]func(Session)),
	}
}

// Snapshot returns the current session value.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Subscribe registers fn to be called after every session change and
// returns an unsubscribe function. fn is invoked outside the store's lock.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// set replaces the session and notifies subscribers. Unexported: only the
// controller in this package mutates the store.
func (s *Store) set(next Session) {
	s.mu.Lock()
	s.session = next
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
