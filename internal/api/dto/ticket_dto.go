package dto

import (
	"time"

	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/sla"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	TicketTypeID string                `json:"ticket_type_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority"`
}

// AddUpdateRequest payload for thread messages.
type AddUpdateRequest struct {
	Content string              `json:"content"`
	Files   []UpdateFileRequest `json:"files"`
}

// UpdateFileRequest describes an attachment already placed in storage.
type UpdateFileRequest struct {
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// ChangeAssigneeRequest payload. A nil assignee unassigns the ticket.
type ChangeAssigneeRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

// RateTicketRequest payload.
type RateTicketRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// TicketSummary response.
type TicketSummary struct {
	ID                  string                `json:"id"`
	Code                string                `json:"code"`
	CompanyID           string                `json:"company_id"`
	AuthorID            string                `json:"author_id"`
	AssigneeID          *string               `json:"assignee_id"`
	TicketTypeID        string                `json:"ticket_type_id"`
	Title               string                `json:"title"`
	Priority            domain.TicketPriority `json:"priority"`
	Status              domain.TicketStatus   `json:"status"`
	SLAStatus           domain.SLAStatus      `json:"sla_status"`
	SLAResponseDeadline *time.Time            `json:"sla_response_deadline"`
	SLASolutionDeadline *time.Time            `json:"sla_solution_deadline"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info including its thread and
// the deadline badge.
type TicketDetailResponse struct {
	TicketSummary
	FirstResponseAt *time.Time             `json:"first_response_at"`
	ClosedAt        *time.Time             `json:"closed_at"`
	Rating          *int                   `json:"rating"`
	RatingComment   *string                `json:"rating_comment"`
	DeadlineBadge   *sla.DisplayState      `json:"deadline_badge"`
	Updates         []TicketUpdateResponse `json:"updates"`
}

// TicketUpdateResponse represents a thread message.
type TicketUpdateResponse struct {
	ID        string               `json:"id"`
	SenderID  string               `json:"sender_id"`
	Content   string               `json:"content"`
	Files     []UpdateFileResponse `json:"files"`
	CreatedAt time.Time            `json:"created_at"`
}

// UpdateFileResponse metadata.
type UpdateFileResponse struct {
	ID       string `json:"id"`
	FileURL  string `json:"file_url"`
	FileName string `json:"file_name"`
}

// TicketListResponse is a paginated listing.
type TicketListResponse struct {
	Tickets  []TicketSummary `json:"tickets"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID          string                  `json:"id"`
	ChangedByID *string                 `json:"changed_by_id"`
	ChangeType  domain.TicketChangeType `json:"change_type"`
	OldValue    map[string]any          `json:"old_value"`
	NewValue    map[string]any          `json:"new_value"`
	CreatedAt   time.Time               `json:"created_at"`
}

// TicketSummaryFromDomain maps a ticket to its summary shape.
func TicketSummaryFromDomain(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:                  ticket.ID,
		Code:                ticket.Code,
		CompanyID:           ticket.CompanyID,
		AuthorID:            ticket.AuthorID,
		AssigneeID:          ticket.AssigneeID,
		TicketTypeID:        ticket.TicketTypeID,
		Title:               ticket.Title,
		Priority:            ticket.Priority,
		Status:              ticket.Status,
		SLAStatus:           ticket.SLAStatus,
		SLAResponseDeadline: ticket.SLAResponseDeadline,
		SLASolutionDeadline: ticket.SLASolutionDeadline,
		CreatedAt:           ticket.CreatedAt,
		UpdatedAt:           ticket.UpdatedAt,
	}
}

// TicketDetailFromDomain maps a ticket plus its thread to the detail shape.
func TicketDetailFromDomain(ticket *domain.Ticket, updates []domain.TicketUpdate, badge *sla.DisplayState) TicketDetailResponse {
	detail := TicketDetailResponse{
		TicketSummary:   TicketSummaryFromDomain(ticket),
		FirstResponseAt: ticket.FirstResponseAt,
		ClosedAt:        ticket.ClosedAt,
		Rating:          ticket.Rating,
		RatingComment:   ticket.RatingComment,
		DeadlineBadge:   badge,
		Updates:         make([]TicketUpdateResponse, 0, len(updates)),
	}
	for i := range updates {
		detail.Updates = append(detail.Updates, TicketUpdateFromDomain(&updates[i]))
	}
	return detail
}

// TicketUpdateFromDomain maps a thread message.
func TicketUpdateFromDomain(update *domain.TicketUpdate) TicketUpdateResponse {
	resp := TicketUpdateResponse{
		ID:        update.ID,
		SenderID:  update.SenderID,
		Content:   update.Content,
		Files:     make([]UpdateFileResponse, 0, len(update.Files)),
		CreatedAt: update.CreatedAt,
	}
	for _, f := range update.Files {
		resp.Files = append(resp.Files, UpdateFileResponse{ID: f.ID, FileURL: f.FileURL, FileName: f.FileName})
	}
	return resp
}

// TicketHistoryFromDomain maps an audit entry.
func TicketHistoryFromDomain(entry *domain.TicketHistory) TicketHistoryResponse {
	return TicketHistoryResponse{
		ID:          entry.ID,
		ChangedByID: entry.ChangedByID,
		ChangeType:  entry.ChangeType,
		OldValue:    entry.OldValue,
		NewValue:    entry.NewValue,
		CreatedAt:   entry.CreatedAt,
	}
}
