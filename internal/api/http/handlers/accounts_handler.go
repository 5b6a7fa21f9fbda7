package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/chamado-hub/helpdesk/internal/api/dto"
	"github.com/chamado-hub/helpdesk/internal/service"
	apperrors "github.com/chamado-hub/helpdesk/pkg/util/errorutil"
)

// AccountsHandler manages account administration endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Create POST /users.
func (h *AccountsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("name, email, password, role required", nil)
	}

	user, err := h.accounts.CreateAccount(c.Context(), service.AccountCreateInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.UserFromDomain(user)})
}

// Update PATCH /users/:id.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.accounts.UpdateAccount(c.Context(), c.Params("id"), service.AccountUpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Active: req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserFromDomain(user)})
}

// Get GET /users/:id.
func (h *AccountsHandler) Get(c *fiber.Ctx) error {
	user, err := h.accounts.GetAccount(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserFromDomain(user)})
}

// ListAgents GET /users/agents.
func (h *AccountsHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.accounts.ListAgents(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(agents))
	for i := range agents {
		items = append(items, dto.UserFromDomain(&agents[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
