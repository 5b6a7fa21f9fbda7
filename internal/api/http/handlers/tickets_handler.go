package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chamado-hub/helpdesk/internal/api/dto"
	"github.com/chamado-hub/helpdesk/internal/auth"
	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/service"
	"github.com/chamado-hub/helpdesk/internal/sla"
	apperrors "github.com/chamado-hub/helpdesk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints for clients and staff.
type TicketsHandler struct {
	service *service.TicketService
	policy  sla.Policy
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, policy sla.Policy) *TicketsHandler {
	return &TicketsHandler{service: ticketService, policy: policy}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketTypeID == "" || req.Title == "" {
		return apperrors.NewValidationError("ticket_type_id and title required", nil)
	}

	ticket, err := h.service.CreateTicket(c.Context(), principal.User, service.TicketCreateInput{
		TicketTypeID: req.TicketTypeID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketSummaryFromDomain(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, page, pageSize := parseTicketListQuery(c)
	result, err := h.service.ListTickets(c.Context(), principal.User, input)
	if err != nil {
		return err
	}

	items := make([]dto.TicketSummary, 0, len(result.Tickets))
	for i := range result.Tickets {
		items = append(items, dto.TicketSummaryFromDomain(&result.Tickets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.TicketListResponse{
		Tickets:  items,
		Total:    result.Total,
		Page:     page,
		PageSize: pageSize,
	}})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, updates, err := h.service.GetTicket(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	badge := sla.Display(time.Now(), ticket, h.policy)
	return c.JSON(fiber.Map{"data": dto.TicketDetailFromDomain(ticket, updates, badge)})
}

// GetByCode GET /tickets/code/:code.
func (h *TicketsHandler) GetByCode(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, updates, err := h.service.GetTicketByCode(c.Context(), principal.User, c.Params("code"))
	if err != nil {
		return err
	}
	badge := sla.Display(time.Now(), ticket, h.policy)
	return c.JSON(fiber.Map{"data": dto.TicketDetailFromDomain(ticket, updates, badge)})
}

// AddUpdate POST /tickets/:id/updates.
func (h *TicketsHandler) AddUpdate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("content required", nil)
	}

	files := make([]service.TicketUpdateFileInput, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, service.TicketUpdateFileInput{FileURL: f.FileURL, FileName: f.FileName})
	}
	update, err := h.service.AddUpdate(c.Context(), principal.User, c.Params("id"), req.Content, files)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketUpdateFromDomain(update)})
}

// ChangeStatus PATCH /tickets/:id/status. Staff only.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeStatus(c.Context(), principal.User, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketSummaryFromDomain(ticket)})
}

// ChangeAssignee PATCH /tickets/:id/assignee. Staff only.
func (h *TicketsHandler) ChangeAssignee(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangeAssigneeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.ChangeAssignee(c.Context(), principal.User, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketSummaryFromDomain(ticket)})
}

// Rate POST /tickets/:id/rating.
func (h *TicketsHandler) Rate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.RateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.RateTicket(c.Context(), principal.User, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketSummaryFromDomain(ticket)})
}

// History GET /tickets/:id/history. Staff only.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.ListHistory(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketHistoryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.TicketHistoryFromDomain(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTicketListQuery(c *fiber.Ctx) (service.TicketListInput, int, int) {
	input := service.TicketListInput{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			input.Statuses = append(input.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			input.Priorities = append(input.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if companyID := c.Query("company_id"); companyID != "" {
		input.CompanyID = &companyID
	}
	if assigneeID := c.Query("assignee_id"); assigneeID != "" {
		input.AssigneeID = &assigneeID
	}
	if authorID := c.Query("author_id"); authorID != "" {
		input.AuthorID = &authorID
	}
	if code := c.Query("code"); code != "" {
		input.CodeSearch = &code
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		input.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		input.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize
	return input, page, pageSize
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, fallback int) int {
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
