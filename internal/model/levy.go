package model

import "time"

// LevyStatus tracks a levy notice through its life.  A levy becomes paid
// only through a recorded LevyPayment; overdue is set for unpaid notices
// past their due date.
type LevyStatus string

const (
	LevyPending LevyStatus = "pending"
	LevyPaid    LevyStatus = "paid"
	LevyOverdue LevyStatus = "overdue"
)

// Levy is one quarterly obligation for one unit.  AmountCents is always the
// sum of AdminCents and CapitalCents; the split is kept so owners can see
// which fund each dollar services.
type Levy struct {
	ID           uint64     // levies.id
	UnitID       uint64     // levies.unit_id
	AmountCents  int64      // levies.amount_cents
	AdminCents   int64      // levies.admin_cents
	CapitalCents int64      // levies.capital_cents
	DueDate      time.Time  // levies.due_date
	Status       LevyStatus // levies.status
	Quarter      string     // levies.quarter (e.g. "Q1 2026")
	CreatedBy    *uint64    // levies.created_by (nullable)
	CreatedAt    time.Time  // levies.created_at
}

// LevyPayment is an append-only record of a payment against a levy.  The
// reference number is generated server-side; payment processing itself is
// simulated, no gateway is involved.
type LevyPayment struct {
	ID              uint64    // levy_payments.id
	LevyID          uint64    // levy_payments.levy_id
	AmountCents     int64     // levy_payments.amount_cents
	PaymentDate     time.Time // levy_payments.payment_date
	PaymentMethod   string    // levy_payments.payment_method
	ReferenceNumber string    // levy_payments.reference_number
}
