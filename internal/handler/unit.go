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
)

// UnitHandler serves the strata roll.
type UnitHandler struct {
	Units *repository.UnitRepo
	Users *repository.UserRepo
}

func NewUnitHandler(units *repository.UnitRepo, users *repository.UserRepo) *UnitHandler {
	return &UnitHandler{Units: units, Users: users}
}

// List returns the full roll with owner details.
func (h *UnitHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	units, err := h.Units.List(ctx)
	if err != nil {
		log.Printf("unit: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load units"})
	}
	if units == nil {
		units = []repository.UnitListing{}
	}
	return c.JSON(http.StatusOK, echo.Map{"units": units})
}

type createUnitReq struct {
	UnitNumber   string  `json:"unit_number"`
	FloorNumber  int     `json:"floor_number"`
	Entitlements int     `json:"entitlements"`
	OwnerID      *uint64 `json:"owner_id"`
}

// Create adds a lot to the roll.  A fresh deployment builds its roll this
// way before the first levy run; owner_id may be set now or assigned
// later.
func (h *UnitHandler) Create(c echo.Context) error {
	var req createUnitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.UnitNumber = strings.TrimSpace(req.UnitNumber)
	if req.UnitNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unit_number is required"})
	}
	if req.Entitlements <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "entitlements must be positive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.OwnerID != nil {
		if _, err := h.Users.GetByID(ctx, *req.OwnerID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "owner does not exist"})
			}
			log.Printf("unit: owner lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create unit"})
		}
	}

	id, err := h.Units.Insert(ctx, &model.Unit{
		UnitNumber:   req.UnitNumber,
		FloorNumber:  req.FloorNumber,
		Entitlements: req.Entitlements,
		OwnerID:      req.OwnerID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUnitNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "unit number is already on the roll"})
		}
		log.Printf("unit: insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create unit"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id, "unit_number": req.UnitNumber})
}

type assignOwnerReq struct {
	OwnerID *uint64 `json:"owner_id"`
}

// AssignOwner points a unit at a new owner, or clears ownership when
// owner_id is null.  The owner must already exist on the roll.
func (h *UnitHandler) AssignOwner(c echo.Context) error {
	unitID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid unit id"})
	}
	var req assignOwnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.OwnerID != nil {
		if _, err := h.Users.GetByID(ctx, *req.OwnerID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "owner does not exist"})
			}
			log.Printf("unit: owner lookup failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not assign owner"})
		}
	}

	if err := h.Units.AssignOwner(ctx, unitID, req.OwnerID); err != nil {
		if errors.Is(err, repository.ErrUnitNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unit not found"})
		}
		log.Printf("unit: assign owner failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not assign owner"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": unitID, "owner_id": req.OwnerID})
}
