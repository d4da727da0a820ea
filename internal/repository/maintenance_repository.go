package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skylineapts/strata-portal/internal/model"
)

// MaintenanceRepo provides data access to the `maintenance_requests` table.
type MaintenanceRepo struct{ db *sql.DB }

func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

// Insert lodges a new request with status pending and returns its ID.
func (r *MaintenanceRepo) Insert(ctx context.Context, req *model.MaintenanceRequest) (uint64, error) {
	var unitID interface{}
	if req.UnitID != nil {
		unitID = *req.UnitID
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO maintenance_requests (unit_id, title, description, created_by) VALUES (?,?,?,?)",
		unitID, req.Title, req.Description, req.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// RequestDetail joins a request with its unit number and creator name.
type RequestDetail struct {
	ID            uint64    `json:"id"`
	UnitNumber    *string   `json:"unit_number,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	CreatedByName string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

const requestDetailQuery = `
	SELECT mr.id, un.unit_number, mr.title, mr.description, mr.status, u.username, mr.created_at
	FROM maintenance_requests mr
	LEFT JOIN users u ON mr.created_by = u.id
	LEFT JOIN units un ON mr.unit_id = un.id`

func scanRequestDetails(rows *sql.Rows) ([]RequestDetail, error) {
	defer rows.Close()
	var out []RequestDetail
	for rows.Next() {
		var d RequestDetail
		var unit sql.NullString
		var creator sql.NullString
		if err := rows.Scan(&d.ID, &unit, &d.Title, &d.Description, &d.Status, &creator, &d.CreatedAt); err != nil {
			return nil, err
		}
		if unit.Valid {
			d.UnitNumber = &unit.String
		}
		if creator.Valid {
			d.CreatedByName = creator.String
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListAll returns every request, newest first.
func (r *MaintenanceRepo) ListAll(ctx context.Context) ([]RequestDetail, error) {
	rows, err := r.db.QueryContext(ctx, requestDetailQuery+" ORDER BY mr.created_at DESC")
	if err != nil {
		return nil, err
	}
	return scanRequestDetails(rows)
}

// ListForUser returns only requests lodged by the given user.
func (r *MaintenanceRepo) ListForUser(ctx context.Context, userID uint64) ([]RequestDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		requestDetailQuery+" WHERE mr.created_by = ? ORDER BY mr.created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return scanRequestDetails(rows)
}

// UpdateStatus moves a request through the workflow.  Returns
// ErrRequestNotFound when the id does not exist.  Existence is checked
// first: RowsAffected cannot tell a missing row from an unchanged status.
func (r *MaintenanceRepo) UpdateStatus(ctx context.Context, id uint64, status model.RequestStatus) error {
	var exists int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM maintenance_requests WHERE id=?", id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return ErrRequestNotFound
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE maintenance_requests SET status=? WHERE id=?", string(status), id)
	return err
}
