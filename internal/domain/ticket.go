package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen          TicketStatus = "OPEN"
	TicketStatusInProgress    TicketStatus = "IN_PROGRESS"
	TicketStatusPendingClient TicketStatus = "PENDING_CLIENT"
	TicketStatusClosed        TicketStatus = "CLOSED"
	TicketStatusCanceled      TicketStatus = "CANCELED"
)

// IsTerminal reports whether the status ends active SLA tracking.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusClosed || s == TicketStatusCanceled
}

// TicketPriority enumerates urgency as set by the requester.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// SLAStatus is the cached classification of a ticket against its deadlines.
type SLAStatus string

const (
	SLAWithinDeadline  SLAStatus = "WITHIN_DEADLINE"
	SLANearingDeadline SLAStatus = "NEARING_DEADLINE"
	SLABreached        SLAStatus = "BREACHED"
)

// Ticket is the aggregate for support requests. The SLA deadlines are
// stamped exactly once at creation from the ticket type's configured
// durations and never change afterwards. FirstResponseAt is set at most
// once, on the first staff reply.
type Ticket struct {
	ID                  string
	Code                string
	CompanyID           string
	AuthorID            string
	AssigneeID          *string
	TicketTypeID        string
	Title               string
	Priority            TicketPriority
	Status              TicketStatus
	FirstResponseAt     *time.Time
	ClosedAt            *time.Time
	SLAResponseDeadline *time.Time
	SLASolutionDeadline *time.Time
	SLAStatus           SLAStatus
	Rating              *int
	RatingComment       *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
