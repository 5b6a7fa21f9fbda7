package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/chamado-hub/helpdesk/internal/auth"
	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/repository"
	apperrors "github.com/chamado-hub/helpdesk/pkg/util/errorutil"
)

// AccountService manages user accounts: clients, agents and administrators.
type AccountService struct {
	users      repository.UserRepository
	companies  repository.CompanyRepository
	bcryptCost int
}

// NewAccountService constructs the service.
func NewAccountService(users repository.UserRepository, companies repository.CompanyRepository, bcryptCost int) *AccountService {
	return &AccountService{users: users, companies: companies, bcryptCost: bcryptCost}
}

// AccountCreateInput describes a new account. CompanyID is required for
// clients and rejected for staff roles.
type AccountCreateInput struct {
	Name      string
	Email     string
	Password  string
	Role      domain.Role
	CompanyID *string
}

// AccountUpdateInput carries mutable account fields. Nil means unchanged.
type AccountUpdateInput struct {
	Name   *string
	Email  *string
	Role   *domain.Role
	Active *bool
}

// CreateAccount registers a new user. Only administrators reach this path;
// the handler enforces the role.
func (s *AccountService) CreateAccount(ctx context.Context, input AccountCreateInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	switch input.Role {
	case domain.RoleClient:
		if input.CompanyID == nil {
			return nil, apperrors.NewValidationError("client accounts require a company", nil)
		}
		company, err := s.companies.GetByID(ctx, *input.CompanyID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !company.Active {
			return nil, apperrors.NewConflict("company is deactivated", nil)
		}
	case domain.RoleAgent, domain.RoleAdministrator:
		if input.CompanyID != nil {
			return nil, apperrors.NewValidationError("staff accounts have no company", nil)
		}
	default:
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		CompanyID:    input.CompanyID,
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAccount applies partial changes to an account.
func (s *AccountService) UpdateAccount(ctx context.Context, id string, input AccountUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetAccount fetches one account.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListAgents returns all staff accounts that can take assignments.
func (s *AccountService) ListAgents(ctx context.Context) ([]domain.User, error) {
	agents, err := s.users.ListByRole(ctx, domain.RoleAgent)
	if err != nil {
		return nil, err
	}
	admins, err := s.users.ListByRole(ctx, domain.RoleAdministrator)
	if err != nil {
		return nil, err
	}
	return append(agents, admins...), nil
}

// ListCompanyUsers returns a page of accounts in a company.
func (s *AccountService) ListCompanyUsers(ctx context.Context, companyID string, limit, offset int) ([]domain.User, error) {
	return s.users.ListByCompany(ctx, companyID, limit, offset)
}
