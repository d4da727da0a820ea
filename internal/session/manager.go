package session

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/repository"
	"github.com/skylineapts/strata-portal/internal/utils"
)

const (
	// IdleTimeout is the sliding inactivity window.  A session idle for
	// longer is destroyed on the next authenticated check.
	IdleTimeout = 30 * time.Minute

	// RememberTTL is the lifetime of the remember-me cookie pair.
	RememberTTL = 30 * 24 * time.Hour

	sessionCookie  = "strata_session"
	userIDCookie   = "user_id"
	usernameCookie = "username"

	sessionIDBytes = 32
)

// Context keys for per-request caching.  Caching the resolved session makes
// repeated IsAuthenticated calls within one request idempotent: restoration
// and the idle check run at most once per request.
const (
	ctxSession  = "strata.session"
	ctxRestored = "strata.session.restored"
)

// UserSource is the slice of the credential store the manager needs: the
// strict id+username lookup used to revalidate a remember-me pair.  The
// pair is a hint, never an authority — identity and role always come back
// from this source.
type UserSource interface {
	GetByIDAndUsername(ctx context.Context, id uint64, username string) (model.User, error)
}

// Identity is the view of the logged-in user exposed to handlers.
type Identity struct {
	ID       uint64     `json:"id"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// Manager establishes, restores and tears down sessions.  It is safe for
// concurrent use.  The clock is injectable for tests.
type Manager struct {
	store *Store
	users UserSource
	now   func() time.Time
}

// NewManager builds a session manager over the given store and credential
// source.
func NewManager(store *Store, users UserSource) *Manager {
	return &Manager{store: store, users: users, now: time.Now}
}

// SetClock overrides the manager's clock.  Tests only.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// Current resolves the request's session, creating an anonymous one when
// the cookie is missing or stale.  The result is cached on the Echo context
// so every caller within the request sees the same record.
func (m *Manager) Current(c echo.Context) *Session {
	if v := c.Get(ctxSession); v != nil {
		return v.(*Session)
	}
	var sess *Session
	if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
		sess = m.store.Get(ck.Value)
	}
	if sess == nil {
		sess = m.newSession(c)
	}
	c.Set(ctxSession, sess)
	return sess
}

// IsAuthenticated reports whether the request carries a live identity.  In
// order it: restores from the remember-me pair when the session is
// anonymous, enforces the sliding idle timeout, and touches LastActivity on
// success.  Within one request repeated calls return the same answer with
// no further side effects.
func (m *Manager) IsAuthenticated(c echo.Context) bool {
	sess := m.Current(c)

	if !sess.Authenticated() {
		m.restoreFromCookies(c, sess)
	}

	if sess.Authenticated() && m.now().Sub(sess.LastActivity) > IdleTimeout {
		m.Logout(c)
		return false
	}

	if sess.Authenticated() {
		sess.LastActivity = m.now()
		return true
	}
	return false
}

// CurrentUser returns the authenticated identity or nil.
func (m *Manager) CurrentUser(c echo.Context) *Identity {
	if !m.IsAuthenticated(c) {
		return nil
	}
	sess := m.Current(c)
	return &Identity{ID: sess.UserID, Username: sess.Username, Role: sess.Role}
}

// Login establishes an authenticated session for the user.  The session
// identifier is always rotated — the anonymous session that carried the
// login form is discarded — so a fixated pre-login identifier never
// becomes an authenticated one.  A fresh remember-me pair is issued.
func (m *Manager) Login(c echo.Context, user model.User) {
	old := m.Current(c)
	m.store.Delete(old.ID)

	sess := m.newSession(c)
	now := m.now()
	sess.UserID = user.ID
	sess.Username = user.Username
	sess.Role = user.Role
	sess.LoginTime = now
	sess.LastActivity = now
	c.Set(ctxSession, sess)

	m.setRememberCookies(c, user.ID, user.Username)
}

// Logout clears the session and the remember-me pair unconditionally, then
// starts a fresh anonymous session so CSRF issuance still works on the
// post-logout page.
func (m *Manager) Logout(c echo.Context) {
	if v := c.Get(ctxSession); v != nil {
		m.store.Delete(v.(*Session).ID)
	} else if ck, err := c.Cookie(sessionCookie); err == nil && ck.Value != "" {
		m.store.Delete(ck.Value)
	}
	m.clearRememberCookies(c)
	// The cleared pair is still readable on the request itself; mark
	// restoration as spent so a later check in the same request cannot
	// rebuild the identity a logout just tore down.
	c.Set(ctxRestored, true)
	sess := m.newSession(c)
	c.Set(ctxSession, sess)
}

// restoreFromCookies attempts to rebuild the session from the remember-me
// pair.  Both values must match a stored user; the role is re-derived from
// the credential store, never read from the client.  An invalid pair is
// cleared so the next request does not retry it.  Restoration is attempted
// at most once per request.
func (m *Manager) restoreFromCookies(c echo.Context, sess *Session) {
	if v := c.Get(ctxRestored); v != nil {
		return
	}
	c.Set(ctxRestored, true)

	idCk, err1 := c.Cookie(userIDCookie)
	nameCk, err2 := c.Cookie(usernameCookie)
	if err1 != nil || err2 != nil || idCk.Value == "" || nameCk.Value == "" {
		return
	}
	userID, err := strconv.ParseUint(idCk.Value, 10, 64)
	if err != nil {
		m.clearRememberCookies(c)
		return
	}

	user, err := m.users.GetByIDAndUsername(c.Request().Context(), userID, nameCk.Value)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			m.clearRememberCookies(c)
		} else {
			log.Printf("session: restoration lookup failed: %v", err)
		}
		return
	}

	now := m.now()
	sess.UserID = user.ID
	sess.Username = user.Username
	sess.Role = user.Role
	sess.LoginTime = now
	sess.LastActivity = now
}

// newSession creates, registers and attaches an anonymous session, sending
// its cookie with the response.
func (m *Manager) newSession(c echo.Context) *Session {
	id, err := utils.RandomHex(sessionIDBytes)
	if err != nil {
		// Out of entropy is not recoverable mid-request.
		panic(err)
	}
	sess := &Session{ID: id, LastActivity: m.now()}
	m.store.Put(sess)
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(c),
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (m *Manager) setRememberCookies(c echo.Context, userID uint64, username string) {
	expires := m.now().Add(RememberTTL)
	secure := isSecure(c)
	c.SetCookie(&http.Cookie{
		Name: userIDCookie, Value: strconv.FormatUint(userID, 10),
		Path: "/", Expires: expires, HttpOnly: true, Secure: secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name: usernameCookie, Value: username,
		Path: "/", Expires: expires, HttpOnly: true, Secure: secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) clearRememberCookies(c echo.Context) {
	expired := m.now().Add(-time.Hour)
	secure := isSecure(c)
	for _, name := range []string{userIDCookie, usernameCookie} {
		c.SetCookie(&http.Cookie{
			Name: name, Value: "",
			Path: "/", Expires: expired, MaxAge: -1, HttpOnly: true, Secure: secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// isSecure marks cookies Secure only when the request arrived over TLS,
// directly or via a terminating proxy.
func isSecure(c echo.Context) bool {
	return c.Request().TLS != nil || c.Scheme() == "https"
}
