// Package levy converts annual fund budgets into quarterly per-unit
// obligations and records payments against them.  All money amounts are
// integer cents.
package levy

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Share is one unit's quarterly obligation, split by fund.
type Share struct {
	AdminCents   int64
	CapitalCents int64
	TotalCents   int64
}

// SplitShare computes a unit's levy from the per-entitlement rates.  The
// total is always the sum of the two fund components.
func SplitShare(adminRateCents, capitalRateCents int64, entitlements int) Share {
	e := int64(entitlements)
	admin := adminRateCents * e
	capital := capitalRateCents * e
	return Share{AdminCents: admin, CapitalCents: capital, TotalCents: admin + capital}
}

// SuggestedRate derives the default quarterly per-entitlement rate from an
// annual fund budget: a quarter of the budget spread over all entitlements,
// rounded down to the cent.  Guidance only; the committee may override.
func SuggestedRate(annualBudgetCents int64, totalEntitlements int) int64 {
	if totalEntitlements <= 0 {
		return 0
	}
	return annualBudgetCents / 4 / int64(totalEntitlements)
}

// FinancialYear labels the July–June financial year containing t, e.g.
// "2025-2026" for any date from July 2025 through June 2026.
func FinancialYear(t time.Time) string {
	y := t.Year()
	if int(t.Month()) >= 7 {
		return fmt.Sprintf("%d-%d", y, y+1)
	}
	return fmt.Sprintf("%d-%d", y-1, y)
}

// PaymentReference generates a receipt reference from the payment method
// and timestamp, with a random suffix to keep same-second payments
// distinct.  Example: PAY-BANK_TRANSFER-20260214T093011-3f9a82c1.
func PaymentReference(method string, at time.Time) string {
	m := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(method), " ", "_"))
	if m == "" {
		m = "UNKNOWN"
	}
	return fmt.Sprintf("PAY-%s-%s-%s", m, at.UTC().Format("20060102T150405"), uuid.NewString()[:8])
}
