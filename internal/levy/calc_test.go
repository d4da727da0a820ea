package levy

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitShareScalesWithEntitlements(t *testing.T) {
	for _, tc := range []struct {
		entitlements int
		admin        int64
		capital      int64
	}{
		{1, 5000, 5000},
		{2, 5000, 5000},
		{3, 5000, 5000},
	} {
		s := SplitShare(tc.admin, tc.capital, tc.entitlements)
		assert.Equal(t, tc.admin*int64(tc.entitlements), s.AdminCents)
		assert.Equal(t, tc.capital*int64(tc.entitlements), s.CapitalCents)
		assert.Equal(t, s.AdminCents+s.CapitalCents, s.TotalCents)
	}
}

func TestSuggestedRate(t *testing.T) {
	// $120,000 annual budget over 100 entitlements -> $300 per
	// entitlement per quarter.
	assert.Equal(t, int64(30000), SuggestedRate(12000000, 100))

	// Rounded down to the cent.
	assert.Equal(t, int64(2500), SuggestedRate(100001, 10))

	// No entitlements means no rate, not a division panic.
	assert.Equal(t, int64(0), SuggestedRate(12000000, 0))
	assert.Equal(t, int64(0), SuggestedRate(12000000, -3))
}

func TestFinancialYearJulyToJune(t *testing.T) {
	for _, tc := range []struct {
		date string
		want string
	}{
		{"2025-07-01", "2025-2026"},
		{"2025-12-31", "2025-2026"},
		{"2026-01-01", "2025-2026"},
		{"2026-06-30", "2025-2026"},
		{"2026-07-01", "2026-2027"},
	} {
		d, err := time.Parse("2006-01-02", tc.date)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, FinancialYear(d), "date %s", tc.date)
	}
}

func TestPaymentReference(t *testing.T) {
	at := time.Date(2026, 2, 14, 9, 30, 11, 0, time.UTC)

	ref := PaymentReference("bank transfer", at)
	assert.True(t, strings.HasPrefix(ref, "PAY-BANK_TRANSFER-20260214T093011-"), ref)

	// Same method and second still yields distinct references.
	assert.NotEqual(t, ref, PaymentReference("bank transfer", at))

	// A blank method is still a usable reference.
	assert.True(t, strings.HasPrefix(PaymentReference("  ", at), "PAY-UNKNOWN-"))
}
