package service

import (
	"context"
	"strings"

	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/repository"
	apperrors "github.com/chamado-hub/helpdesk/pkg/util/errorutil"
)

// CompanyService manages tenant companies and their ticket type catalogs.
type CompanyService struct {
	companies repository.CompanyRepository
	types     repository.TicketTypeRepository
}

// NewCompanyService constructs the service.
func NewCompanyService(companies repository.CompanyRepository, types repository.TicketTypeRepository) *CompanyService {
	return &CompanyService{companies: companies, types: types}
}

// CompanyInput carries company fields for create and update.
type CompanyInput struct {
	Name     string
	Document string
	Active   *bool
}

// TicketTypeInput carries ticket type fields. SLA hours are optional; a nil
// value leaves that dimension untracked for new tickets of the type.
type TicketTypeInput struct {
	Name             string
	SLAResponseHours *int
	SLASolutionHours *int
}

// CreateCompany registers a tenant.
func (s *CompanyService) CreateCompany(ctx context.Context, input CompanyInput) (*domain.Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	company := &domain.Company{
		Name:     name,
		Document: strings.TrimSpace(input.Document),
		Active:   true,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// UpdateCompany applies changes to a tenant.
func (s *CompanyService) UpdateCompany(ctx context.Context, id string, input CompanyInput) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		company.Name = name
	}
	if doc := strings.TrimSpace(input.Document); doc != "" {
		company.Document = doc
	}
	if input.Active != nil {
		company.Active = *input.Active
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompany fetches one tenant.
func (s *CompanyService) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return company, nil
}

// ListCompanies returns a page of tenants.
func (s *CompanyService) ListCompanies(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	return s.companies.List(ctx, limit, offset)
}

// CreateTicketType adds a category to a company's catalog.
func (s *CompanyService) CreateTicketType(ctx context.Context, companyID string, input TicketTypeInput) (*domain.TicketType, error) {
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := validateSLAHours(input); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	ticketType := &domain.TicketType{
		CompanyID:        companyID,
		Name:             name,
		SLAResponseHours: input.SLAResponseHours,
		SLASolutionHours: input.SLASolutionHours,
	}
	if err := s.types.Create(ctx, ticketType); err != nil {
		return nil, err
	}
	return ticketType, nil
}

// UpdateTicketType changes a category. New SLA durations only affect tickets
// created afterwards.
func (s *CompanyService) UpdateTicketType(ctx context.Context, id string, input TicketTypeInput) (*domain.TicketType, error) {
	ticketType, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := validateSLAHours(input); err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		ticketType.Name = name
	}
	ticketType.SLAResponseHours = input.SLAResponseHours
	ticketType.SLASolutionHours = input.SLASolutionHours
	if err := s.types.Update(ctx, ticketType); err != nil {
		return nil, err
	}
	return ticketType, nil
}

// DeleteTicketType removes a category from the catalog. Existing tickets
// keep their stamped deadlines.
func (s *CompanyService) DeleteTicketType(ctx context.Context, id string) error {
	if err := s.types.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListTicketTypes returns a company's catalog.
func (s *CompanyService) ListTicketTypes(ctx context.Context, companyID string) ([]domain.TicketType, error) {
	return s.types.ListByCompany(ctx, companyID)
}

func validateSLAHours(input TicketTypeInput) error {
	if input.SLAResponseHours != nil && *input.SLAResponseHours <= 0 {
		return apperrors.NewValidationError("sla response hours must be positive", nil)
	}
	if input.SLASolutionHours != nil && *input.SLASolutionHours <= 0 {
		return apperrors.NewValidationError("sla solution hours must be positive", nil)
	}
	return nil
}
