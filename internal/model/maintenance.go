package model

import "time"

// RequestStatus is the workflow state of a maintenance request.
type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
)

// ParseRequestStatus validates a submitted status string.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case RequestPending, RequestInProgress, RequestCompleted:
		return RequestStatus(s), true
	}
	return "", false
}

// MaintenanceRequest is a repair or upkeep request lodged by a resident or
// committee member.  UnitID is nil for common-property issues (lifts,
// garage lighting, pool plant).
type MaintenanceRequest struct {
	ID          uint64        // maintenance_requests.id
	UnitID      *uint64       // maintenance_requests.unit_id (nullable)
	Title       string        // maintenance_requests.title
	Description string        // maintenance_requests.description
	Status      RequestStatus // maintenance_requests.status
	CreatedBy   uint64        // maintenance_requests.created_by
	CreatedAt   time.Time     // maintenance_requests.created_at
}
