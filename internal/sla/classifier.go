package sla

import (
	"time"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// Phase identifies which deadline currently governs a ticket.
type Phase string

const (
	PhaseResponse Phase = "RESPONSE"
	PhaseSolution Phase = "SOLUTION"
	PhaseNone     Phase = "NONE"
)

// ActiveDeadline determines the deadline governing the ticket right now.
// While no staff member has replied, the response deadline applies. Once the
// first response exists, the solution deadline applies until the ticket is
// CLOSED. Returns PhaseNone when nothing remains to track.
func ActiveDeadline(t *domain.Ticket) (*time.Time, Phase) {
	if t.FirstResponseAt == nil && t.SLAResponseDeadline != nil {
		return t.SLAResponseDeadline, PhaseResponse
	}
	if t.Status != domain.TicketStatusClosed && t.SLASolutionDeadline != nil {
		return t.SLASolutionDeadline, PhaseSolution
	}
	return nil, PhaseNone
}

// Classify computes the SLA status of a ticket at the given instant. Pure:
// the same (now, ticket) always yields the same result. Tickets with no
// active deadline are always WITHIN_DEADLINE.
func Classify(now time.Time, t *domain.Ticket, p Policy) domain.SLAStatus {
	deadline, phase := ActiveDeadline(t)
	if deadline == nil {
		return domain.SLAWithinDeadline
	}

	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return domain.SLABreached
	}

	switch phase {
	case PhaseResponse:
		if remaining <= p.ResponseWarningWindow {
			return domain.SLANearingDeadline
		}
	case PhaseSolution:
		if remaining <= p.SolutionWarningWindow {
			return domain.SLANearingDeadline
		}
	}
	return domain.SLAWithinDeadline
}
