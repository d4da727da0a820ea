package levy

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skylineapts/strata-portal/internal/model"
	"github.com/skylineapts/strata-portal/internal/repository"
)

// Business-rule errors.  These are precondition or authorization failures
// rejected before (or instead of) committing; anything else out of the
// engine is a persistence failure.
var (
	ErrNonPositiveRate = errors.New("per-entitlement rates must be positive")
	ErrNoEntitlements  = errors.New("total entitlements of owned units is zero")
	ErrNotUnitOwner    = errors.New("levy does not belong to a unit owned by the requester")
	ErrInvalidPayment  = errors.New("payment amount and method are required")
)

// Engine is the budget/levy component.  Generation and payment are the only
// multi-statement sequences in the portal and both run as single
// transactions: every eligible unit gets a levy row or none do, and a
// payment either records and flips the levy or leaves it untouched.
type Engine struct {
	db     *sql.DB
	units  *repository.UnitRepo
	levies *repository.LevyRepo
	budget *repository.BudgetRepo
	now    func() time.Time
}

// NewEngine wires the engine to its repositories.
func NewEngine(db *sql.DB, units *repository.UnitRepo, levies *repository.LevyRepo, budget *repository.BudgetRepo) *Engine {
	return &Engine{db: db, units: units, levies: levies, budget: budget, now: time.Now}
}

// SetClock overrides the engine's clock.  Tests only.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// GenerateInput are the caller-supplied parameters for one quarterly run.
type GenerateInput struct {
	AdminRateCents   int64
	CapitalRateCents int64
	DueDate          time.Time
	Quarter          string
	CreatedBy        uint64
}

// GenerateResult reports what a run produced, for the response and the
// generated-levies event.
type GenerateResult struct {
	GeneratedCount int
	TotalCents     int64
}

// Generate creates one pending levy per owned unit inside a single
// transaction.  Non-positive rates are rejected before the transaction
// begins; an empty eligible-unit set aborts and rolls back with
// repository.ErrNoEligibleUnits.  Two concurrent runs for the same quarter
// will both succeed and duplicate the batch — a known gap carried from the
// portal's history, not guarded here.
func (e *Engine) Generate(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	if in.AdminRateCents <= 0 || in.CapitalRateCents <= 0 {
		return GenerateResult{}, ErrNonPositiveRate
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return GenerateResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	units, err := e.units.ListOwnedTx(ctx, tx)
	if err != nil {
		return GenerateResult{}, err
	}
	if len(units) == 0 {
		return GenerateResult{}, repository.ErrNoEligibleUnits
	}

	createdBy := in.CreatedBy
	batch := make([]model.Levy, 0, len(units))
	var total int64
	for _, u := range units {
		share := SplitShare(in.AdminRateCents, in.CapitalRateCents, u.Entitlements)
		total += share.TotalCents
		batch = append(batch, model.Levy{
			UnitID:       u.ID,
			AmountCents:  share.TotalCents,
			AdminCents:   share.AdminCents,
			CapitalCents: share.CapitalCents,
			DueDate:      in.DueDate,
			Status:       model.LevyPending,
			Quarter:      in.Quarter,
			CreatedBy:    &createdBy,
		})
	}
	if err := e.levies.InsertBatchTx(ctx, tx, batch); err != nil {
		return GenerateResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return GenerateResult{}, err
	}
	committed = true
	return GenerateResult{GeneratedCount: len(batch), TotalCents: total}, nil
}

// PayInput identifies the levy, the simulated payment and the requester.
type PayInput struct {
	LevyID        uint64
	AmountCents   int64
	PaymentMethod string
	RequestedBy   uint64
	RequesterRole model.Role
}

// Pay records a payment against a levy and flips it to paid, all in one
// transaction.  Owners may only pay levies on their own units; committee
// and admin may pay any.  An already-paid levy is rejected with
// repository.ErrLevyAlreadyPaid rather than treated as a no-op, so a
// double-submitted form surfaces instead of silently recording twice.
func (e *Engine) Pay(ctx context.Context, in PayInput) (string, error) {
	if in.AmountCents <= 0 || in.PaymentMethod == "" {
		return "", ErrInvalidPayment
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	target, err := e.levies.GetForPaymentTx(ctx, tx, in.LevyID)
	if err != nil {
		return "", err
	}
	if in.RequesterRole == model.RoleOwner {
		if target.OwnerID == nil || *target.OwnerID != in.RequestedBy {
			return "", ErrNotUnitOwner
		}
	}
	if target.Status == model.LevyPaid {
		return "", repository.ErrLevyAlreadyPaid
	}

	now := e.now()
	payment := model.LevyPayment{
		LevyID:          in.LevyID,
		AmountCents:     in.AmountCents,
		PaymentDate:     now,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: PaymentReference(in.PaymentMethod, now),
	}
	if err := e.levies.InsertPaymentTx(ctx, tx, &payment); err != nil {
		return "", err
	}
	if err := e.levies.MarkPaidTx(ctx, tx, in.LevyID); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return payment.ReferenceNumber, nil
}

// RateSuggestion is the guidance block shown on the generation page:
// per-entitlement quarterly rates derived from the current financial year's
// budgeted totals.
type RateSuggestion struct {
	FinancialYear      string `json:"financial_year"`
	TotalEntitlements  int    `json:"total_entitlements"`
	AdminBudgetCents   int64  `json:"admin_budget_cents"`
	CapitalBudgetCents int64  `json:"capital_budget_cents"`
	AdminRateCents     int64  `json:"admin_rate_cents"`
	CapitalRateCents   int64  `json:"capital_rate_cents"`
}

// SuggestedRates derives default per-entitlement rates for the current
// financial year.  Fails with ErrNoEntitlements when no owned entitlements
// exist, since the rate denominator would be zero.
func (e *Engine) SuggestedRates(ctx context.Context) (RateSuggestion, error) {
	fy := FinancialYear(e.now())
	totals, err := e.budget.TotalsByYear(ctx, fy)
	if err != nil {
		return RateSuggestion{}, err
	}
	entitlements, err := e.units.TotalOwnedEntitlements(ctx)
	if err != nil {
		return RateSuggestion{}, err
	}
	if entitlements <= 0 {
		return RateSuggestion{}, ErrNoEntitlements
	}
	return RateSuggestion{
		FinancialYear:      fy,
		TotalEntitlements:  entitlements,
		AdminBudgetCents:   totals.AdminBudgetedCents,
		CapitalBudgetCents: totals.CapitalBudgetedCents,
		AdminRateCents:     SuggestedRate(totals.AdminBudgetedCents, entitlements),
		CapitalRateCents:   SuggestedRate(totals.CapitalBudgetedCents, entitlements),
	}, nil
}

// List returns levies visible to the requester: all of them for committee
// and admin, own-unit levies only for owners.
func (e *Engine) List(ctx context.Context, requester uint64, role model.Role) ([]repository.LevyDetail, error) {
	if role == model.RoleCommittee || role == model.RoleAdmin {
		return e.levies.ListAll(ctx)
	}
	return e.levies.ListForOwner(ctx, requester)
}

// BudgetTotals reports per-fund budgeted and actual sums for a financial
// year.
func (e *Engine) BudgetTotals(ctx context.Context, financialYear string) (model.BudgetTotals, error) {
	return e.budget.TotalsByYear(ctx, financialYear)
}
