package sla

import (
	"context"
	"math"
	"time"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// Urgency tiers for critical alerts.
type Urgency string

const (
	UrgencyCritical Urgency = "CRÍTICO"
	UrgencyHigh     Urgency = "ALTO"
	UrgencyMedium   Urgency = "MÉDIO"
)

// Alert annotates one at-risk ticket for the alerts widget.
type Alert struct {
	Ticket         domain.Ticket
	DeadlineType   string
	Deadline       *time.Time
	HoursRemaining int
	IsOverdue      bool
	Urgency        Urgency
}

// Summary buckets the alert list. NearDeadline uses the coarser
// SummaryNearWindow, not the HighUrgencyWindow the tiers use.
type Summary struct {
	Total        int `json:"total"`
	Overdue      int `json:"overdue"`
	NearDeadline int `json:"near_deadline"`
}

// Report is the full critical-alert view.
type Report struct {
	Alerts  []Alert
	Summary Summary
}

// BuildReport annotates the given tickets at the given instant. Pure.
// HoursRemaining is the floor of the remaining time in whole hours, so it
// goes negative once a deadline passes. A ticket with no active deadline
// left counts as overdue with zero hours, mirroring how these records have
// always been bucketed.
func BuildReport(now time.Time, tickets []domain.Ticket, p Policy) Report {
	highHours := int(p.HighUrgencyWindow / time.Hour)
	nearHours := int(p.SummaryNearWindow / time.Hour)

	report := Report{Alerts: make([]Alert, 0, len(tickets))}
	for _, ticket := range tickets {
		deadline, phase := ActiveDeadline(&ticket)

		var remaining time.Duration
		if deadline != nil {
			remaining = deadline.Sub(now)
		}
		hoursRemaining := int(math.Floor(remaining.Hours()))
		isOverdue := remaining <= 0

		urgency := UrgencyMedium
		switch {
		case isOverdue:
			urgency = UrgencyCritical
		case hoursRemaining <= highHours:
			urgency = UrgencyHigh
		}

		label := ""
		switch phase {
		case PhaseResponse:
			label = DeadlineTypeResponse
		case PhaseSolution:
			label = DeadlineTypeSolution
		}

		report.Alerts = append(report.Alerts, Alert{
			Ticket:         ticket,
			DeadlineType:   label,
			Deadline:       deadline,
			HoursRemaining: hoursRemaining,
			IsOverdue:      isOverdue,
			Urgency:        urgency,
		})

		report.Summary.Total++
		if isOverdue {
			report.Summary.Overdue++
		} else if hoursRemaining <= nearHours {
			report.Summary.NearDeadline++
		}
	}
	return report
}

// Selector produces critical-alert reports from persisted tickets.
type Selector struct {
	store  TicketStore
	policy Policy
}

// NewSelector creates a selector.
func NewSelector(store TicketStore, policy Policy) *Selector {
	return &Selector{store: store, policy: policy}
}

// SelectCritical loads tickets whose cached status is at-risk or breached
// and annotates them. On a store failure the zero report is returned with
// the error; callers render that as an empty alert list.
func (s *Selector) SelectCritical(ctx context.Context, now time.Time) (Report, error) {
	tickets, err := s.store.ListCritical(ctx)
	if err != nil {
		return Report{Alerts: []Alert{}}, err
	}
	return BuildReport(now, tickets, s.policy), nil
}
