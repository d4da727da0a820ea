// Package session implements the server-side session and identity layer:
// opaque session identifiers, remember-me restoration against the
// credential store, sliding idle expiry, and per-session CSRF tokens.
package session

import (
	"sync"
	"time"

	"github.com/skylineapts/strata-portal/internal/model"
)

// Session is the server-side record behind one session cookie.  The zero
// UserID means the session is anonymous; anonymous sessions still exist so
// that CSRF tokens can be issued on the login and post-logout pages.
type Session struct {
	ID           string
	UserID       uint64
	Username     string
	Role         model.Role
	CSRFToken    string
	LoginTime    time.Time
	LastActivity time.Time
}

// Authenticated reports whether the session carries an identity.  It does
// not consider idle expiry; that is the manager's job.
func (s *Session) Authenticated() bool { return s.UserID != 0 }

// Store is an in-memory session store keyed by opaque identifier.  Sessions
// are ephemeral by design; a restart logs everyone out and remember-me
// cookies rebuild their sessions on the next request.  Concurrent requests
// from one user race on LastActivity with last-writer-wins, which is
// acceptable for a sliding idle window.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for the given identifier, or nil.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Put registers a session under its identifier.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Delete removes the session for the given identifier.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// PurgeExpired drops sessions idle longer than maxIdle and returns how many
// were removed.  The manager enforces expiry on access as well; this sweep
// only reclaims memory for sessions nobody comes back to.
func (st *Store) PurgeExpired(maxIdle time.Duration, now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if now.Sub(s.LastActivity) > maxIdle {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
