package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/skylineapts/strata-portal/internal/handler"    // handlers implement the endpoint logic
	"github.com/skylineapts/strata-portal/internal/middleware" // middleware enforces login, role and CSRF checks
	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/session"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth        *handler.AuthHandler
	Admin       *handler.AdminHandler
	Levies      *handler.LevyHandler
	Budget      *handler.BudgetHandler
	Maintenance *handler.MaintenanceHandler
	Documents   *handler.DocumentHandler
	Units       *handler.UnitHandler
	Notices     *handler.NoticeHandler
}

// Register wires every route onto the Echo instance.  The CSRF middleware
// is applied globally so no state-changing endpoint can be added without
// it; the skipper exempts only the admin bootstrap while zero admins
// exist.
func Register(e *echo.Echo, sessions *session.Manager, h Handlers, csrfSkip middleware.Skipper) {
	e.Use(middleware.CSRF(sessions, csrfSkip))

	// Endpoints that work without a session: health, the dashboard feeds
	// and the authentication entry points themselves.
	e.GET("/healthz", handler.Health)
	e.GET("/v1/notices", h.Notices.Important)
	e.GET("/v1/updates", h.Notices.Updates)
	e.GET("/v1/auth/csrf", h.Auth.CSRFToken)
	e.POST("/v1/auth/register", h.Auth.Register)
	e.POST("/v1/auth/login", h.Auth.Login)
	e.POST("/v1/auth/logout", h.Auth.Logout)

	// Admin creation sits outside the login-required group: while the
	// bootstrap window is open it must be reachable with no session at
	// all.  The handler enforces admin-only access once the window closes.
	e.POST("/v1/admin/users", h.Admin.CreateAdmin)

	// Everything below requires a live session.
	auth := e.Group("/v1")
	auth.Use(middleware.RequireLogin(sessions))
	auth.GET("/me", h.Auth.Me)
	auth.GET("/levies", h.Levies.List)
	auth.POST("/levies/:id/payments", h.Levies.Pay)
	auth.GET("/documents", h.Documents.List)
	auth.POST("/maintenance", h.Maintenance.Create)
	auth.GET("/maintenance", h.Maintenance.List)

	// Committee and admin share the management surface: levy generation,
	// budget entry, document upload and the maintenance workflow.
	manage := e.Group("/v1")
	manage.Use(middleware.RequireRole(sessions, model.RoleCommittee, model.RoleAdmin))
	manage.POST("/levies/generate", h.Levies.Generate)
	manage.GET("/levies/rates", h.Levies.Rates)
	manage.GET("/budget", h.Budget.List)
	manage.POST("/budget", h.Budget.Create)
	manage.POST("/documents", h.Documents.Create)
	manage.PATCH("/maintenance/:id/status", h.Maintenance.UpdateStatus)
	manage.GET("/units", h.Units.List)

	// Changing the roll itself changes who gets levied; admin only.
	admin := e.Group("/v1")
	admin.Use(middleware.RequireRole(sessions, model.RoleAdmin))
	admin.POST("/units", h.Units.Create)
	admin.PUT("/units/:id/owner", h.Units.AssignOwner)
}
