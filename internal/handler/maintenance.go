package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/repository"
	"github.com/skylineapts/strata-portal/internal/session"
)

// MaintenanceHandler serves the maintenance request workflow.
type MaintenanceHandler struct {
	Sessions *session.Manager
	Requests *repository.MaintenanceRepo
}

func NewMaintenanceHandler(sessions *session.Manager, requests *repository.MaintenanceRepo) *MaintenanceHandler {
	return &MaintenanceHandler{Sessions: sessions, Requests: requests}
}

type createRequestReq struct {
	UnitID      *uint64 `json:"unit_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
}

// Create lodges a maintenance request.  unit_id is optional: requests
// against common property carry no unit.
func (h *MaintenanceHandler) Create(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Requests.Insert(ctx, &model.MaintenanceRequest{
		UnitID:      req.UnitID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   user.ID,
	})
	if err != nil {
		log.Printf("maintenance: insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not lodge request"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id, "status": model.RequestPending})
}

// List returns maintenance requests: every request for committee and
// admin, own requests only for owners.
func (h *MaintenanceHandler) List(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		requests []repository.RequestDetail
		err      error
	)
	if user.Role == model.RoleCommittee || user.Role == model.RoleAdmin {
		requests, err = h.Requests.ListAll(ctx)
	} else {
		requests, err = h.Requests.ListForUser(ctx, user.ID)
	}
	if err != nil {
		log.Printf("maintenance: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load requests"})
	}
	if requests == nil {
		requests = []repository.RequestDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus moves a request through pending, in_progress, completed.
func (h *MaintenanceHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request id"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status, ok := model.ParseRequestStatus(req.Status)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending, in_progress or completed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Requests.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		log.Printf("maintenance: status update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update request"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
