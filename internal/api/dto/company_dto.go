package dto

import (
	"time"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// CompanyRequest payload for create and update.
type CompanyRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Active   *bool  `json:"active,omitempty"`
}

// CompanyResponse shape.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyFromDomain maps a company to its response shape.
func CompanyFromDomain(company *domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID,
		Name:      company.Name,
		Document:  company.Document,
		Active:    company.Active,
		CreatedAt: company.CreatedAt,
	}
}

// TicketTypeRequest payload for create and update.
type TicketTypeRequest struct {
	Name             string `json:"name"`
	SLAResponseHours *int   `json:"sla_response_hours"`
	SLASolutionHours *int   `json:"sla_solution_hours"`
}

// TicketTypeResponse shape.
type TicketTypeResponse struct {
	ID               string    `json:"id"`
	CompanyID        string    `json:"company_id"`
	Name             string    `json:"name"`
	SLAResponseHours *int      `json:"sla_response_hours"`
	SLASolutionHours *int      `json:"sla_solution_hours"`
	CreatedAt        time.Time `json:"created_at"`
}

// TicketTypeFromDomain maps a ticket type to its response shape.
func TicketTypeFromDomain(ticketType *domain.TicketType) TicketTypeResponse {
	return TicketTypeResponse{
		ID:               ticketType.ID,
		CompanyID:        ticketType.CompanyID,
		Name:             ticketType.Name,
		SLAResponseHours: ticketType.SLAResponseHours,
		SLASolutionHours: ticketType.SLASolutionHours,
		CreatedAt:        ticketType.CreatedAt,
	}
}
