package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skylineapts/strata-portal/internal/model"
)

// DocumentRepo provides data access to the documents register.  Only
// metadata lives here; the files themselves are stored elsewhere.
type DocumentRepo struct{ db *sql.DB }

func NewDocumentRepo(db *sql.DB) *DocumentRepo { return &DocumentRepo{db: db} }

// Insert records a document's metadata and returns its ID.
func (r *DocumentRepo) Insert(ctx context.Context, d *model.Document) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (title, file_path, document_type, uploaded_by) VALUES (?,?,?,?)",
		d.Title, d.FilePath, string(d.Type), d.UploadedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// DocumentDetail is a register row joined with the uploader's username.
type DocumentDetail struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	FilePath       string    `json:"file_path"`
	Type           string    `json:"document_type"`
	UploadedByName *string   `json:"uploaded_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// List returns the register, newest first.
func (r *DocumentRepo) List(ctx context.Context) ([]DocumentDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.title, d.file_path, d.document_type, u.username, d.created_at
		 FROM documents d
		 LEFT JOIN users u ON d.uploaded_by = u.id
		 ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DocumentDetail
	for rows.Next() {
		var d DocumentDetail
		var uploader sql.NullString
		if err := rows.Scan(&d.ID, &d.Title, &d.FilePath, &d.Type, &uploader, &d.CreatedAt); err != nil {
			return nil, err
		}
		if uploader.Valid {
			d.UploadedByName = &uploader.String
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
