package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/levy"
	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/queue"
	"github.com/skylineapts/strata-portal/internal/repository"
	queue_publisher "github.com/skylineapts/strata-portal/internal/service"
	"github.com/skylineapts/strata-portal/internal/session"
)

// LevyHandler exposes the levy engine over HTTP: listing, quarterly
// generation, rate guidance and payment recording.
type LevyHandler struct {
	Sessions *session.Manager
	Engine   *levy.Engine
}

func NewLevyHandler(sessions *session.Manager, engine *levy.Engine) *LevyHandler {
	return &LevyHandler{Sessions: sessions, Engine: engine}
}

// List returns levies visible to the caller: every levy for committee and
// admin, own-unit levies for owners.
func (h *LevyHandler) List(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	levies, err := h.Engine.List(ctx, user.ID, user.Role)
	if err != nil {
		log.Printf("levy: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load levies"})
	}
	if levies == nil {
		levies = []repository.LevyDetail{}
	}
	return c.JSON(http.StatusOK, echo.Map{"levies": levies})
}

type generateLeviesReq struct {
	AdminRateCents   int64  `json:"admin_rate_cents"`
	CapitalRateCents int64  `json:"capital_rate_cents"`
	DueDate          string `json:"due_date"`
	Quarter          string `json:"quarter"`
}

// Generate runs one quarterly levy batch.  On success a levies.generated
// event is published for downstream consumers; publication is best effort
// and never unwinds the committed batch.
func (h *LevyHandler) Generate(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	var req generateLeviesReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Quarter == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quarter is required"})
	}
	due, ok := parseDate(req.DueDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "due_date must be YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Engine.Generate(ctx, levy.GenerateInput{
		AdminRateCents:   req.AdminRateCents,
		CapitalRateCents: req.CapitalRateCents,
		DueDate:          due,
		Quarter:          req.Quarter,
		CreatedBy:        user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, levy.ErrNonPositiveRate):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrNoEligibleUnits):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no units with owners to levy"})
		}
		log.Printf("levy: generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "levy generation failed"})
	}

	event := queue.LeviesGeneratedEvent{
		Quarter:         req.Quarter,
		DueDate:         req.DueDate,
		GeneratedCount:  res.GeneratedCount,
		TotalCents:      res.TotalCents,
		GeneratedBy:     user.ID,
		GeneratedByName: user.Username,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishLeviesGenerated(ctx, event); err != nil {
		log.Printf("levy: event publish failed (batch already committed): %v", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"generated_count": res.GeneratedCount,
		"total_cents":     res.TotalCents,
		"quarter":         req.Quarter,
	})
}

// Rates returns suggested per-entitlement quarterly rates for the current
// financial year.
func (h *LevyHandler) Rates(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	suggestion, err := h.Engine.SuggestedRates(ctx)
	if err != nil {
		if errors.Is(err, levy.ErrNoEntitlements) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no owned entitlements to divide the budget across"})
		}
		log.Printf("levy: rate suggestion failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not compute suggested rates"})
	}
	return c.JSON(http.StatusOK, suggestion)
}

type payLevyReq struct {
	AmountCents   int64  `json:"amount_cents"`
	PaymentMethod string `json:"payment_method"`
}

// Pay records a simulated payment against a levy and marks it paid.
func (h *LevyHandler) Pay(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	levyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid levy id"})
	}
	var req payLevyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ref, err := h.Engine.Pay(ctx, levy.PayInput{
		LevyID:        levyID,
		AmountCents:   req.AmountCents,
		PaymentMethod: req.PaymentMethod,
		RequestedBy:   user.ID,
		RequesterRole: user.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, levy.ErrInvalidPayment):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount and payment method are required"})
		case errors.Is(err, repository.ErrLevyNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "levy not found"})
		case errors.Is(err, levy.ErrNotUnitOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrLevyAlreadyPaid):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "levy has already been paid"})
		}
		log.Printf("levy: payment failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":           model.LevyPaid,
		"reference_number": ref,
	})
}
