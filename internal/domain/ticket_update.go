package domain

import "time"

// TicketUpdate captures one message in a ticket thread, from either the
// requester or a staff member.
type TicketUpdate struct {
	ID        string
	TicketID  string
	SenderID  string
	Content   string
	Files     []TicketUpdateFile
	CreatedAt time.Time
}

// TicketUpdateFile stores metadata for a file attached to an update. The
// file itself lives in external storage; only its location is kept here.
type TicketUpdateFile struct {
	ID             string
	TicketUpdateID string
	FileURL        string
	FileName       string
	CreatedAt      time.Time
}
