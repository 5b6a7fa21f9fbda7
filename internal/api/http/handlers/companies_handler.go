package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/chamado-hub/helpdesk/internal/api/dto"
	"github.com/chamado-hub/helpdesk/internal/service"
	apperrors "github.com/chamado-hub/helpdesk/pkg/util/errorutil"
)

// CompaniesHandler manages tenant and ticket type administration.
type CompaniesHandler struct {
	companies *service.CompanyService
	accounts  *service.AccountService
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(companies *service.CompanyService, accounts *service.AccountService) *CompaniesHandler {
	return &CompaniesHandler{companies: companies, accounts: accounts}
}

// Create POST /companies.
func (h *CompaniesHandler) Create(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	company, err := h.companies.CreateCompany(c.Context(), service.CompanyInput{
		Name:     req.Name,
		Document: req.Document,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CompanyFromDomain(company)})
}

// Update PATCH /companies/:id.
func (h *CompaniesHandler) Update(c *fiber.Ctx) error {
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	company, err := h.companies.UpdateCompany(c.Context(), c.Params("id"), service.CompanyInput{
		Name:     req.Name,
		Document: req.Document,
		Active:   req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CompanyFromDomain(company)})
}

// Get GET /companies/:id.
func (h *CompaniesHandler) Get(c *fiber.Ctx) error {
	company, err := h.companies.GetCompany(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CompanyFromDomain(company)})
}

// List GET /companies.
func (h *CompaniesHandler) List(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	companies, err := h.companies.ListCompanies(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		items = append(items, dto.CompanyFromDomain(&companies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListUsers GET /companies/:id/users.
func (h *CompaniesHandler) ListUsers(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	users, err := h.accounts.ListCompanyUsers(c.Context(), c.Params("id"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.UserFromDomain(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateTicketType POST /companies/:id/ticket-types.
func (h *CompaniesHandler) CreateTicketType(c *fiber.Ctx) error {
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticketType, err := h.companies.CreateTicketType(c.Context(), c.Params("id"), service.TicketTypeInput{
		Name:             req.Name,
		SLAResponseHours: req.SLAResponseHours,
		SLASolutionHours: req.SLASolutionHours,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketTypeFromDomain(ticketType)})
}

// UpdateTicketType PATCH /ticket-types/:id.
func (h *CompaniesHandler) UpdateTicketType(c *fiber.Ctx) error {
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticketType, err := h.companies.UpdateTicketType(c.Context(), c.Params("id"), service.TicketTypeInput{
		Name:             req.Name,
		SLAResponseHours: req.SLAResponseHours,
		SLASolutionHours: req.SLASolutionHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketTypeFromDomain(ticketType)})
}

// DeleteTicketType DELETE /ticket-types/:id.
func (h *CompaniesHandler) DeleteTicketType(c *fiber.Ctx) error {
	if err := h.companies.DeleteTicketType(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListTicketTypes GET /companies/:id/ticket-types.
func (h *CompaniesHandler) ListTicketTypes(c *fiber.Ctx) error {
	types, err := h.companies.ListTicketTypes(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketTypeResponse, 0, len(types))
	for i := range types {
		items = append(items, dto.TicketTypeFromDomain(&types[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
