package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skylineapts/strata-portal/internal/model"
)

// BudgetRepo provides data access to the `budget_items` table.
type BudgetRepo struct{ db *sql.DB }

func NewBudgetRepo(db *sql.DB) *BudgetRepo { return &BudgetRepo{db: db} }

// Insert adds a budget line and returns its ID.
func (r *BudgetRepo) Insert(ctx context.Context, item *model.BudgetItem) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_items
		 (category, description, budgeted_cents, actual_cents, fund_type, financial_year, created_by)
		 VALUES (?,?,?,?,?,?,?)`,
		item.Category, item.Description, item.BudgetedCents, item.ActualCents,
		string(item.FundType), item.FinancialYear, item.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// BudgetLine is the list-page row: a budget item joined with the
// creator's username.
type BudgetLine struct {
	ID            uint64    `json:"id"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	BudgetedCents int64     `json:"budgeted_cents"`
	ActualCents   int64     `json:"actual_cents"`
	FundType      string    `json:"fund_type"`
	FinancialYear string    `json:"financial_year"`
	CreatedByName *string   `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListByYear returns the budget lines for one financial year ordered by
// fund then category, as the budget page has always displayed them.
func (r *BudgetRepo) ListByYear(ctx context.Context, financialYear string) ([]BudgetLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT bi.id, bi.category, bi.description, bi.budgeted_cents, bi.actual_cents,
		        bi.fund_type, bi.financial_year, bi.created_by, bi.created_at, u.username
		 FROM budget_items bi
		 LEFT JOIN users u ON bi.created_by = u.id
		 WHERE bi.financial_year = ?
		 ORDER BY bi.fund_type, bi.category`, financialYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BudgetLine
	for rows.Next() {
		var l BudgetLine
		var createdBy sql.NullInt64
		var createdByName sql.NullString
		if err := rows.Scan(&l.ID, &l.Category, &l.Description, &l.BudgetedCents, &l.ActualCents,
			&l.FundType, &l.FinancialYear, &createdBy, &l.CreatedAt, &createdByName); err != nil {
			return nil, err
		}
		if createdByName.Valid {
			l.CreatedByName = &createdByName.String
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// TotalsByYear sums budgeted and actual amounts per fund for one financial
// year.  Funds with no lines contribute zero.
func (r *BudgetRepo) TotalsByYear(ctx context.Context, financialYear string) (model.BudgetTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT fund_type, COALESCE(SUM(budgeted_cents),0), COALESCE(SUM(actual_cents),0)
		 FROM budget_items WHERE financial_year = ? GROUP BY fund_type`, financialYear)
	if err != nil {
		return model.BudgetTotals{}, err
	}
	defer rows.Close()
	var t model.BudgetTotals
	for rows.Next() {
		var fund string
		var budgeted, actual int64
		if err := rows.Scan(&fund, &budgeted, &actual); err != nil {
			return model.BudgetTotals{}, err
		}
		switch model.FundType(fund) {
		case model.FundAdministration:
			t.AdminBudgetedCents, t.AdminActualCents = budgeted, actual
		case model.FundCapitalWorks:
			t.CapitalBudgetedCents, t.CapitalActualCents = budgeted, actual
		}
	}
	return t, rows.Err()
}
