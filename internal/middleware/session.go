package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/session"
)

// RequireLogin returns a middleware that rejects unauthenticated requests
// with 401.  The check itself runs the full identity pipeline: remember-me
// restoration, idle expiry, and the sliding-window activity touch.
func RequireLogin(m *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !m.IsAuthenticated(c) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
			}
			return next(c)
		}
	}
}

// RequireRole returns a middleware that enforces that the authenticated
// user holds one of the enumerated roles.  Membership is exact: there is
// no role hierarchy, so every allowed role must be listed.  Authentication
// failures yield 401; a role outside the set is a terminal 403 with no
// further processing.
func RequireRole(m *session.Manager, roles ...model.Role) echo.MiddlewareFunc {
	// Build a set of allowed roles for constant-time lookups.
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !m.IsAuthenticated(c) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
			}
			if user := m.CurrentUser(c); user == nil || !allowed[user.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
