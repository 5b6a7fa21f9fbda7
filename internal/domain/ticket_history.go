package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus    TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee  TicketChangeType = "ASSIGNEE_CHANGE"
	ChangeTypeSLAStatus TicketChangeType = "SLA_STATUS_CHANGE"
	ChangeTypeRating    TicketChangeType = "RATING"
)

// TicketHistory is an immutable audit trail entry. SLA status entries have
// no ChangedByID when produced by the reconciliation job.
type TicketHistory struct {
	ID          string
	TicketID    string
	ChangedByID *string
	ChangeType  TicketChangeType
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
