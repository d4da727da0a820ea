package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/levy"
	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/repository"
	"github.com/skylineapts/strata-portal/internal/session"
)

// BudgetHandler serves the annual budget: listing by financial year and
// adding lines.
type BudgetHandler struct {
	Sessions *session.Manager
	Budget   *repository.BudgetRepo
}

func NewBudgetHandler(sessions *session.Manager, budget *repository.BudgetRepo) *BudgetHandler {
	return &BudgetHandler{Sessions: sessions, Budget: budget}
}

// List returns the budget lines and per-fund totals for one financial
// year, defaulting to the current July–June year.
func (h *BudgetHandler) List(c echo.Context) error {
	year := strings.TrimSpace(c.QueryParam("year"))
	if year == "" {
		year = levy.FinancialYear(time.Now())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	lines, err := h.Budget.ListByYear(ctx, year)
	if err != nil {
		log.Printf("budget: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load budget"})
	}
	totals, err := h.Budget.TotalsByYear(ctx, year)
	if err != nil {
		log.Printf("budget: totals failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load budget"})
	}
	if lines == nil {
		lines = []repository.BudgetLine{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"financial_year": year,
		"items":          lines,
		"totals":         totals,
	})
}

type createBudgetItemReq struct {
	Category      string `json:"category"`
	Description   string `json:"description"`
	BudgetedCents int64  `json:"budgeted_cents"`
	ActualCents   int64  `json:"actual_cents"`
	FundType      string `json:"fund_type"`
	FinancialYear string `json:"financial_year"`
}

// Create adds one budget line.  The financial year defaults to the
// current one when omitted.
func (h *BudgetHandler) Create(c echo.Context) error {
	user := h.Sessions.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
	}

	var req createBudgetItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category is required"})
	}
	if req.BudgetedCents < 0 || req.ActualCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amounts must not be negative"})
	}
	fund, ok := model.ParseFundType(req.FundType)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fund_type must be administration or capital_works"})
	}
	if strings.TrimSpace(req.FinancialYear) == "" {
		req.FinancialYear = levy.FinancialYear(time.Now())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	createdBy := user.ID
	id, err := h.Budget.Insert(ctx, &model.BudgetItem{
		Category:      req.Category,
		Description:   req.Description,
		BudgetedCents: req.BudgetedCents,
		ActualCents:   req.ActualCents,
		FundType:      fund,
		FinancialYear: req.FinancialYear,
		CreatedBy:     &createdBy,
	})
	if err != nil {
		log.Printf("budget: insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save budget item"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"id": id, "financial_year": req.FinancialYear})
}
