package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chamado-hub/helpdesk/internal/api/dto"
	"github.com/chamado-hub/helpdesk/internal/service"
	"github.com/chamado-hub/helpdesk/internal/sla"
	apperrors "github.com/chamado-hub/helpdesk/pkg/util/errorutil"
)

// SLAHandler exposes the deadline reconciliation and alert endpoints.
type SLAHandler struct {
	reconciler *sla.Reconciler
	selector   *sla.Selector
	dashboard  *service.DashboardService
	cronToken  string
}

// NewSLAHandler constructs handler. cronToken may be empty, which leaves the
// cron endpoint open.
func NewSLAHandler(reconciler *sla.Reconciler, selector *sla.Selector, dashboard *service.DashboardService, cronToken string) *SLAHandler {
	return &SLAHandler{
		reconciler: reconciler,
		selector:   selector,
		dashboard:  dashboard,
		cronToken:  cronToken,
	}
}

// CheckAll POST /sla/check-all. Admin only; reclassifies every active ticket.
func (h *SLAHandler) CheckAll(c *fiber.Ctx) error {
	result, err := h.reconciler.ReconcileAll(c.Context(), time.Now())
	if err != nil {
		return err
	}
	h.invalidateDashboard(c)
	return c.JSON(fiber.Map{"data": result})
}

// Cron POST /sla/cron. Meant for external schedulers; authenticated with a
// static bearer token instead of a user session.
func (h *SLAHandler) Cron(c *fiber.Ctx) error {
	if h.cronToken != "" {
		header := c.Get("Authorization")
		if !strings.EqualFold(strings.TrimSpace(header), "Bearer "+h.cronToken) {
			return apperrors.NewUnauthorized("invalid cron token")
		}
	}
	result, err := h.reconciler.ReconcileAll(c.Context(), time.Now())
	if err != nil {
		return err
	}
	h.invalidateDashboard(c)
	return c.JSON(fiber.Map{"data": result})
}

// CronInfo GET /sla/cron. Describes the endpoint without running anything.
func (h *SLAHandler) CronInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"description": "POST to this endpoint to reconcile SLA statuses for all active tickets",
		"protected":   h.cronToken != "",
	}})
}

// Alerts GET /sla/alerts. Staff view of tickets at risk or in breach.
func (h *SLAHandler) Alerts(c *fiber.Ctx) error {
	report, err := h.selector.SelectCritical(c.Context(), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SLAAlertsFromReport(report)})
}

func (h *SLAHandler) invalidateDashboard(c *fiber.Ctx) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Context())
	}
}
