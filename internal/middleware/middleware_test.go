package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/repository"
	"github.com/skylineapts/strata-portal/internal/session"
)

type noUsers struct{}

func (noUsers) GetByIDAndUsername(context.Context, uint64, string) (model.User, error) {
	return model.User{}, repository.ErrUserNotFound
}

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

// loggedInCtx builds a request context carrying a live session for the user.
func loggedInCtx(e *echo.Echo, m *session.Manager, store *session.Store, role model.Role) echo.Context {
	sess := &session.Session{
		ID:           "test-session",
		UserID:       42,
		Username:     "casey",
		Role:         role,
		LoginTime:    time.Now(),
		LastActivity: time.Now(),
	}
	store.Put(sess)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "strata_session", Value: sess.ID})
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRequireLoginRejectsAnonymous(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireLogin(m)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "login required")
}

func TestRequireLoginPassesAuthenticated(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})
	c := loggedInCtx(e, m, store, model.RoleOwner)

	err := RequireLogin(m)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, c.Response().Status)
}

func TestRequireRoleEnforcesMembership(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})

	// An owner hitting a committee/admin endpoint gets 403, not 401.
	c := loggedInCtx(e, m, store, model.RoleOwner)
	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	err := RequireRole(m, model.RoleCommittee, model.RoleAdmin)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Committee passes.
	c2 := loggedInCtx(e, m, store, model.RoleCommittee)
	err = RequireRole(m, model.RoleCommittee, model.RoleAdmin)(okHandler)(c2)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, c2.Response().Status)
}

func TestRequireRoleNoHierarchy(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})

	// Admin is not implicitly a member of a committee-only set.
	c := loggedInCtx(e, m, store, model.RoleAdmin)
	rec := c.Response().Writer.(*httptest.ResponseRecorder)
	err := RequireRole(m, model.RoleCommittee)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsAnonymous(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireRole(m, model.RoleAdmin)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCSRFAllowsSafeMethods(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		req := httptest.NewRequest(method, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		err := CSRF(m, nil)(okHandler)(c)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code, method)
	}
}

func TestCSRFRejectsMissingOrForgedToken(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})

	// Missing token.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	err := CSRF(m, nil)(okHandler)(e.NewContext(req, rec))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Forged token against a session that issued one.
	c := loggedInCtx(e, m, store, model.RoleOwner)
	m.CSRFToken(c)
	c.Request().Header.Set("X-CSRF-Token", "forged")
	rec2 := c.Response().Writer.(*httptest.ResponseRecorder)
	err = CSRF(m, nil)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestCSRFAcceptsHeaderAndFormToken(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})

	// Header token.
	c := loggedInCtx(e, m, store, model.RoleOwner)
	tok := m.CSRFToken(c)
	c.Request().Header.Set("X-CSRF-Token", tok)
	err := CSRF(m, nil)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, c.Response().Status)

	// Form-field token.
	c2 := loggedInCtx(e, m, store, model.RoleOwner)
	tok2 := m.CSRFToken(c2)
	form := strings.NewReader("csrf_token=" + tok2)
	req := httptest.NewRequest(http.MethodPost, "/", form)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.AddCookie(&http.Cookie{Name: "strata_session", Value: "test-session"})
	c3 := e.NewContext(req, httptest.NewRecorder())
	err = CSRF(m, nil)(okHandler)(c3)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, c3.Response().Status)
}

func TestCSRFSkipper(t *testing.T) {
	e := echo.New()
	store := session.NewStore()
	m := session.NewManager(store, noUsers{})

	skip := func(c echo.Context) bool { return c.Path() == "/v1/admin/users" }

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/admin/users")

	err := CSRF(m, skip)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
