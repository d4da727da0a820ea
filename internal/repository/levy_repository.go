package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skylineapts/strata-portal/internal/model"
)

// LevyRepo provides data access to the `levies` and `levy_payments` tables.
// Levy rows are created in bulk by the levy engine and only ever move to
// `paid` through a recorded payment.  The multi-statement sequences
// (generation, payment) run inside transactions owned by the engine; this
// repository exposes the Tx building blocks.
type LevyRepo struct {
	db *sql.DB
}

// NewLevyRepo returns a new LevyRepo bound to the given database.
func NewLevyRepo(db *sql.DB) *LevyRepo { return &LevyRepo{db: db} }

// DB exposes the underlying handle for the levy engine's transactions.
func (r *LevyRepo) DB() *sql.DB { return r.db }

// InsertBatchTx inserts all levy rows in a single statement within the
// provided transaction.  The caller must commit or roll back.  Passing an
// empty slice has no effect and returns nil.
func (r *LevyRepo) InsertBatchTx(ctx context.Context, tx *sql.Tx, levies []model.Levy) error {
	if len(levies) == 0 {
		return nil
	}
	query := `INSERT INTO levies (unit_id, amount_cents, admin_cents, capital_cents, due_date, status, quarter, created_by) VALUES `
	args := make([]interface{}, 0, len(levies)*8)
	for i, l := range levies {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, l.UnitID, l.AmountCents, l.AdminCents, l.CapitalCents,
			l.DueDate.Format("2006-01-02"), string(l.Status), l.Quarter, l.CreatedBy)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// LevyForPayment is the row snapshot the payment flow locks: the levy
// itself plus the owner of its unit for the ownership check.
type LevyForPayment struct {
	ID          uint64
	UnitID      uint64
	AmountCents int64
	Status      model.LevyStatus
	OwnerID     *uint64
}

// GetForPaymentTx loads a levy and its unit's owner with a row lock so a
// concurrent payment against the same levy blocks until this transaction
// resolves.  Returns ErrLevyNotFound when no such levy exists.
func (r *LevyRepo) GetForPaymentTx(ctx context.Context, tx *sql.Tx, levyID uint64) (LevyForPayment, error) {
	var p LevyForPayment
	var status string
	var owner sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT l.id, l.unit_id, l.amount_cents, l.status, un.owner_id
		 FROM levies l
		 JOIN units un ON un.id = l.unit_id
		 WHERE l.id = ?
		 FOR UPDATE`, levyID).Scan(&p.ID, &p.UnitID, &p.AmountCents, &status, &owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, ErrLevyNotFound
		}
		return p, err
	}
	p.Status = model.LevyStatus(status)
	if owner.Valid {
		oid := uint64(owner.Int64)
		p.OwnerID = &oid
	}
	return p, nil
}

// MarkPaidTx flips a levy to paid within the transaction.  The guard on the
// current status means an already-paid levy is never silently re-flipped.
func (r *LevyRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, levyID uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE levies SET status='paid' WHERE id=? AND status IN ('pending','overdue')", levyID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLevyAlreadyPaid
	}
	return nil
}

// InsertPaymentTx appends one payment record within the transaction.
func (r *LevyRepo) InsertPaymentTx(ctx context.Context, tx *sql.Tx, p *model.LevyPayment) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO levy_payments (levy_id, amount_cents, payment_date, payment_method, reference_number)
		 VALUES (?,?,?,?,?)`,
		p.LevyID, p.AmountCents, p.PaymentDate, p.PaymentMethod, p.ReferenceNumber)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// LevyDetail is a levy joined with its unit number and owner name for
// display on the levies page.
type LevyDetail struct {
	ID           uint64    `json:"id"`
	UnitID       uint64    `json:"unit_id"`
	UnitNumber   string    `json:"unit_number"`
	OwnerName    *string   `json:"owner_name,omitempty"`
	AmountCents  int64     `json:"amount_cents"`
	AdminCents   int64     `json:"admin_cents"`
	CapitalCents int64     `json:"capital_cents"`
	DueDate      string    `json:"due_date"`
	Status       string    `json:"status"`
	Quarter      string    `json:"quarter"`
	CreatedAt    time.Time `json:"created_at"`
}

const levyDetailQuery = `
	SELECT l.id, l.unit_id, un.unit_number, u.username,
	       l.amount_cents, l.admin_cents, l.capital_cents,
	       l.due_date, l.status, l.quarter, l.created_at
	FROM levies l
	LEFT JOIN units un ON l.unit_id = un.id
	LEFT JOIN users u ON un.owner_id = u.id`

func scanLevyDetails(rows *sql.Rows) ([]LevyDetail, error) {
	defer rows.Close()
	var out []LevyDetail
	for rows.Next() {
		var d LevyDetail
		var owner sql.NullString
		var due time.Time
		if err := rows.Scan(&d.ID, &d.UnitID, &d.UnitNumber, &owner,
			&d.AmountCents, &d.AdminCents, &d.CapitalCents,
			&due, &d.Status, &d.Quarter, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.DueDate = due.Format("2006-01-02")
		if owner.Valid {
			d.OwnerName = &owner.String
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListAll returns every levy, newest due date first.  Committee and admin
// views use this.
func (r *LevyRepo) ListAll(ctx context.Context) ([]LevyDetail, error) {
	rows, err := r.db.QueryContext(ctx, levyDetailQuery+" ORDER BY l.due_date DESC")
	if err != nil {
		return nil, err
	}
	return scanLevyDetails(rows)
}

// ListForOwner returns only levies against units the given user owns.
func (r *LevyRepo) ListForOwner(ctx context.Context, ownerID uint64) ([]LevyDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		levyDetailQuery+" WHERE un.owner_id = ? ORDER BY l.due_date DESC", ownerID)
	if err != nil {
		return nil, err
	}
	return scanLevyDetails(rows)
}
