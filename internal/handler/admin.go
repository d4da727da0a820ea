package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/middleware"
	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/repository"
	"github.com/skylineapts/strata-portal/internal/session"
	"github.com/skylineapts/strata-portal/internal/utils"
)

// AdminUserStore is what the bootstrap flow needs from the credential
// store: an exact role count to decide whether bootstrap is open, and a
// way to create the account.
type AdminUserStore interface {
	Create(ctx context.Context, username, email, password string, role model.Role) (uint64, error)
	CountByRole(ctx context.Context, role model.Role) (int, error)
}

// AdminHandler serves the admin account management endpoints.
type AdminHandler struct {
	Sessions *session.Manager
	Users    AdminUserStore
}

func NewAdminHandler(sessions *session.Manager, users AdminUserStore) *AdminHandler {
	return &AdminHandler{Sessions: sessions, Users: users}
}

type createAdminReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAdmin creates an administrator account.  While no admin exists
// anywhere in the store the endpoint is open to anyone — the bootstrap
// window for a freshly installed portal.  The moment the first admin
// exists the window closes and only a logged-in admin may mint more.
func (h *AdminHandler) CreateAdmin(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	adminCount, err := h.Users.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		log.Printf("admin: role count failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "admin creation failed, please try again"})
	}
	canBootstrap := adminCount == 0

	if !canBootstrap {
		user := h.Sessions.CurrentUser(c)
		if user == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
		}
		if user.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}

	var req createAdminReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.ValidUsername(req.Username) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username must be at least 3 characters long"})
	}
	if !utils.ValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
	}
	if !utils.ValidPassword(req.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters with an uppercase letter, a lowercase letter and a number"})
	}

	uid, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, model.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email is already registered"})
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username is already taken"})
		}
		log.Printf("admin: create admin failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "admin creation failed, please try again"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user": session.Identity{ID: uid, Username: req.Username, Role: model.RoleAdmin},
	})
}

// BootstrapSkipper exempts the admin creation endpoint from CSRF checks
// while the bootstrap window is open.  Before the first admin exists
// there is no session to have fetched a token with, so the check would
// make bootstrap impossible; once an admin exists the exemption ends.
func BootstrapSkipper(users AdminUserStore) middleware.Skipper {
	return func(c echo.Context) bool {
		if c.Request().Method != http.MethodPost || c.Path() != "/v1/admin/users" {
			return false
		}
		ctx, cancel := reqCtx(c)
		defer cancel()
		n, err := users.CountByRole(ctx, model.RoleAdmin)
		if err != nil {
			log.Printf("admin: bootstrap check failed: %v", err)
			return false
		}
		return n == 0
	}
}
