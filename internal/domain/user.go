package domain

import "time"

// Role enumerates account roles. Administrators and agents are the helpdesk
// staff; clients belong to a company and open tickets.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRADOR"
	RoleAgent         Role = "ATENDENTE"
	RoleClient        Role = "CLIENTE"
)

// IsStaff reports whether the role grants helpdesk-side access.
func (r Role) IsStaff() bool {
	return r == RoleAdministrator || r == RoleAgent
}

// User is the domain model for every account in the system.
type User struct {
	ID           string
	CompanyID    *string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
