package dto

import (
	"time"

	"github.com/chamado-hub/helpdesk/internal/sla"
)

// SLAAlertResponse is one critical ticket in the alert report.
type SLAAlertResponse struct {
	Ticket         TicketSummary `json:"ticket"`
	DeadlineType   string        `json:"deadline_type"`
	Deadline       *time.Time    `json:"deadline"`
	HoursRemaining int           `json:"hours_remaining"`
	IsOverdue      bool          `json:"is_overdue"`
	Urgency        sla.Urgency   `json:"urgency"`
}

// SLAAlertsResponse wraps the report for the alerts endpoint.
type SLAAlertsResponse struct {
	Alerts  []SLAAlertResponse `json:"alerts"`
	Summary sla.Summary        `json:"summary"`
}

// SLAAlertsFromReport maps the alert report to its response shape.
func SLAAlertsFromReport(report sla.Report) SLAAlertsResponse {
	resp := SLAAlertsResponse{
		Alerts:  make([]SLAAlertResponse, 0, len(report.Alerts)),
		Summary: report.Summary,
	}
	for i := range report.Alerts {
		alert := &report.Alerts[i]
		resp.Alerts = append(resp.Alerts, SLAAlertResponse{
			Ticket:         TicketSummaryFromDomain(&alert.Ticket),
			DeadlineType:   alert.DeadlineType,
			Deadline:       alert.Deadline,
			HoursRemaining: alert.HoursRemaining,
			IsOverdue:      alert.IsOverdue,
			Urgency:        alert.Urgency,
		})
	}
	return resp
}
