package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chamado-hub/helpdesk/internal/service"
)

// DashboardHandler exposes operational metrics for staff.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Metrics GET /dashboard/metrics.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	periodDays := parseInt(c.Query("period_days"), 30)
	metrics, err := h.dashboard.Metrics(c.Context(), periodDays)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}
