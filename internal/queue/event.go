package queue

// LeviesGeneratedEvent is published after a quarterly levy batch commits.
// It carries enough for downstream consumers (audit log, notice mailer) to
// act without querying the primary database.
type LeviesGeneratedEvent struct {
	Quarter         string `json:"quarter"`
	DueDate         string `json:"due_date"`
	GeneratedCount  int    `json:"generated_count"`
	TotalCents      int64  `json:"total_cents"`
	GeneratedBy     uint64 `json:"generated_by"`
	GeneratedByName string `json:"generated_by_name"`
	GeneratedAt     string `json:"generated_at"`
}
