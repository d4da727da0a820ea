package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/ratelimit"
	"github.com/skylineapts/strata-portal/internal/repository"
	"github.com/skylineapts/strata-portal/internal/session"
	"github.com/skylineapts/strata-portal/internal/utils"
)

// UserStore is the slice of the credential store the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, username, email, password string, role model.Role) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

// AuthHandler bundles dependencies for login, logout and registration.
type AuthHandler struct {
	Sessions *session.Manager
	Users    UserStore
	Limiter  *ratelimit.Limiter
}

func NewAuthHandler(sessions *session.Manager, users UserStore, limiter *ratelimit.Limiter) *AuthHandler {
	return &AuthHandler{Sessions: sessions, Users: users, Limiter: limiter}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an owner account and logs it straight in.  Committee
// and admin accounts are never self-service: committee promotion is an
// admin action and admins come from the bootstrap flow.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
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

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, req.Password, model.RoleOwner)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "email is already registered"})
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "username is already taken"})
		}
		log.Printf("auth: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed, please try again"})
	}

	user := model.User{ID: uid, Username: req.Username, Email: req.Email, Role: model.RoleOwner}
	h.Sessions.Login(c, user)
	return c.JSON(http.StatusCreated, echo.Map{
		"user": session.Identity{ID: uid, Username: req.Username, Role: model.RoleOwner},
	})
}

// Login verifies credentials and establishes a session.  Failures are
// reported with one generic message regardless of which of email or
// password was wrong, and each failure counts against the client's
// rate-limit window.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	if !utils.ValidEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	clientID := c.RealIP()
	if clientID == "" {
		clientID = "unknown"
	}
	if !h.Limiter.Allow(ctx, clientID) {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many login attempts, please try again later"})
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.Limiter.RecordFailure(ctx, clientID)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
		}
		log.Printf("auth: login lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed, please try again"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		h.Limiter.RecordFailure(ctx, clientID)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	h.Sessions.Login(c, u)
	h.Limiter.Reset(ctx, clientID)
	return c.JSON(http.StatusOK, echo.Map{
		"user": session.Identity{ID: u.ID, Username: u.Username, Role: u.Role},
	})
}

// Logout tears the session down unconditionally and leaves a fresh
// anonymous session behind so the login page can issue a CSRF token.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.Logout(c)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated identity.
func (h *AuthHandler) Me(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// CSRFToken issues (or repeats) the session's anti-forgery token so forms
// can include it on their next state-changing request.
func (h *AuthHandler) CSRFToken(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"csrf_token": h.Sessions.CSRFToken(c)})
}
