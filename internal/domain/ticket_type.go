package domain

import "time"

// TicketType categorizes tickets and carries the SLA durations for the
// category. Either duration may be absent, meaning that dimension is not
// tracked.
type TicketType struct {
	ID               string
	CompanyID        string
	Name             string
	SLAResponseHours *int
	SLASolutionHours *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
