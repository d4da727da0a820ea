package repository

import (
	"context"
	"database/sql"

	"github.com/skylineapts/strata-portal/internal/model"
)

// NoticeRepo serves the dashboard feeds: important notices and recent
// updates.
type NoticeRepo struct{ db *sql.DB }

func NewNoticeRepo(db *sql.DB) *NoticeRepo { return &NoticeRepo{db: db} }

// ImportantNotices returns the newest important notices, capped at limit.
func (r *NoticeRepo) ImportantNotices(ctx context.Context, limit int) ([]model.Notice, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, content, is_important, created_at FROM notices WHERE is_important = 1 ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Notice
	for rows.Next() {
		var n model.Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.IsImportant, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// RecentUpdates returns the newest updates, capped at limit.
func (r *NoticeRepo) RecentUpdates(ctx context.Context, limit int) ([]model.Update, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, content, created_at FROM updates ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Update
	for rows.Next() {
		var u model.Update
		if err := rows.Scan(&u.ID, &u.Title, &u.Content, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
