package model

import "time"

// FundType splits the budget into the two statutory pools: the
// administration (operating) fund and the capital works fund.
type FundType string

const (
	FundAdministration FundType = "administration"
	FundCapitalWorks   FundType = "capital_works"
)

// ParseFundType validates a submitted fund type string.
func ParseFundType(s string) (FundType, bool) {
	switch FundType(s) {
	case FundAdministration, FundCapitalWorks:
		return FundType(s), true
	}
	return "", false
}

// BudgetItem is one line of the annual budget for a fund.  Amounts are held
// in integer cents.  FinancialYear follows the July–June cycle and is stored
// as a label like "2025-2026".
type BudgetItem struct {
	ID             uint64    // budget_items.id
	Category       string    // budget_items.category
	Description    string    // budget_items.description
	BudgetedCents  int64     // budget_items.budgeted_cents
	ActualCents    int64     // budget_items.actual_cents
	FundType       FundType  // budget_items.fund_type
	FinancialYear  string    // budget_items.financial_year
	CreatedBy      *uint64   // budget_items.created_by (nullable)
	CreatedAt      time.Time // budget_items.created_at
}

// BudgetTotals reports the budgeted and actual sums per fund for one
// financial year.
type BudgetTotals struct {
	AdminBudgetedCents   int64 `json:"admin_budgeted_cents"`
	AdminActualCents     int64 `json:"admin_actual_cents"`
	CapitalBudgetedCents int64 `json:"capital_budgeted_cents"`
	CapitalActualCents   int64 `json:"capital_actual_cents"`
}
