package model

import "time"

// Notice is a building notice shown on the dashboard.  Important notices
// are pinned to the top of the feed.
type Notice struct {
	ID          uint64    // notices.id
	Title       string    // notices.title
	Content     string    // notices.content
	IsImportant bool      // notices.is_important
	CreatedAt   time.Time // notices.created_at
}

// Update is a short news item in the recent-updates feed.
type Update struct {
	ID        uint64    // updates.id
	Title     string    // updates.title
	Content   string    // updates.content
	CreatedAt time.Time // updates.created_at
}
