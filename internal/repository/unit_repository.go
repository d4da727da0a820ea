package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/skylineapts/strata-portal/internal/model"
)

// UnitRepo provides data access to the strata roll (the `units` table).
type UnitRepo struct{ db *sql.DB }

func NewUnitRepo(db *sql.DB) *UnitRepo { return &UnitRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span units and levies.
func (r *UnitRepo) DB() *sql.DB { return r.db }

// Insert adds a lot to the strata roll and returns its ID.  A duplicate
// unit number maps to ErrUnitNumberExists.
func (r *UnitRepo) Insert(ctx context.Context, u *model.Unit) (uint64, error) {
	var owner interface{}
	if u.OwnerID != nil {
		owner = *u.OwnerID
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO units (unit_number, floor_number, unit_entitlements, owner_id) VALUES (?,?,?,?)",
		u.UnitNumber, u.FloorNumber, u.Entitlements, owner)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUnitNumberExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single unit.
func (r *UnitRepo) GetByID(ctx context.Context, id uint64) (model.Unit, error) {
	var u model.Unit
	var owner sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, unit_number, floor_number, unit_entitlements, owner_id FROM units WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.UnitNumber, &u.FloorNumber, &u.Entitlements, &owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, ErrUnitNotFound
		}
		return u, err
	}
	if owner.Valid {
		oid := uint64(owner.Int64)
		u.OwnerID = &oid
	}
	return u, nil
}

// ListOwnedTx returns every unit with a non-null owner, ordered by unit
// number, inside an existing transaction.  Levy generation reads the
// eligible set through this method so the insert batch sees a consistent
// snapshot.
func (r *UnitRepo) ListOwnedTx(ctx context.Context, tx *sql.Tx) ([]model.Unit, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, unit_number, floor_number, unit_entitlements, owner_id
		 FROM units WHERE owner_id IS NOT NULL ORDER BY unit_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var units []model.Unit
	for rows.Next() {
		var u model.Unit
		var owner sql.NullInt64
		if err := rows.Scan(&u.ID, &u.UnitNumber, &u.FloorNumber, &u.Entitlements, &owner); err != nil {
			return nil, err
		}
		if owner.Valid {
			oid := uint64(owner.Int64)
			u.OwnerID = &oid
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// TotalOwnedEntitlements sums unit_entitlements over owned units.  This sum
// is the denominator of every per-entitlement rate; callers must refuse to
// divide when it is zero.
func (r *UnitRepo) TotalOwnedEntitlements(ctx context.Context) (int, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(unit_entitlements) FROM units WHERE owner_id IS NOT NULL").Scan(&total)
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

// UnitListing is a directory row: the unit plus its owner's public details.
type UnitListing struct {
	ID           uint64  `json:"id"`
	UnitNumber   string  `json:"unit_number"`
	FloorNumber  int     `json:"floor_number"`
	Entitlements int     `json:"entitlements"`
	OwnerID      *uint64 `json:"owner_id,omitempty"`
	OwnerName    *string `json:"owner_name,omitempty"`
	OwnerEmail   *string `json:"owner_email,omitempty"`
}

// List returns the full strata roll with owner details for the directory.
func (r *UnitRepo) List(ctx context.Context) ([]UnitListing, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.unit_number, u.floor_number, u.unit_entitlements,
		        usr.id, usr.username, usr.email
		 FROM units u
		 LEFT JOIN users usr ON u.owner_id = usr.id
		 ORDER BY u.unit_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UnitListing
	for rows.Next() {
		var l UnitListing
		var oid sql.NullInt64
		var oname, oemail sql.NullString
		if err := rows.Scan(&l.ID, &l.UnitNumber, &l.FloorNumber, &l.Entitlements, &oid, &oname, &oemail); err != nil {
			return nil, err
		}
		if oid.Valid {
			id := uint64(oid.Int64)
			l.OwnerID = &id
		}
		if oname.Valid {
			l.OwnerName = &oname.String
		}
		if oemail.Valid {
			l.OwnerEmail = &oemail.String
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// AssignOwner points a unit at a new owner, or clears the owner when
// ownerID is nil.  The unit is verified first: RowsAffected cannot tell a
// missing row from an unchanged value.
func (r *UnitRepo) AssignOwner(ctx context.Context, unitID uint64, ownerID *uint64) error {
	if _, err := r.GetByID(ctx, unitID); err != nil {
		return err
	}
	var owner interface{}
	if ownerID != nil {
		owner = *ownerID
	}
	_, err := r.db.ExecContext(ctx, "UPDATE units SET owner_id=? WHERE id=?", owner, unitID)
	return err
}
