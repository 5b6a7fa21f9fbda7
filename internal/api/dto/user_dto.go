package dto

import "github.com/chamado-hub/helpdesk/internal/domain"

// CreateAccountRequest payload.
type CreateAccountRequest struct {
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
	CompanyID *string     `json:"company_id,omitempty"`
}

// UpdateAccountRequest payload. Absent fields stay unchanged.
type UpdateAccountRequest struct {
	Name   *string      `json:"name"`
	Email  *string      `json:"email"`
	Role   *domain.Role `json:"role"`
	Active *bool        `json:"active"`
}
