package sla

import (
	"fmt"
	"time"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// Deadline type labels shown to users.
const (
	DeadlineTypeResponse = "Primeira Resposta"
	DeadlineTypeSolution = "Solução"
)

// DisplayState is the badge shown next to a ticket's deadline. Its status
// follows the display rule (DisplayWarningWindow), which is narrower than
// the persisted-status rule and deliberately kept separate: the persisted
// 2h/4h classification is canonical, this one only drives the badge.
type DisplayState struct {
	Status       domain.SLAStatus `json:"status"`
	DeadlineType string           `json:"deadline_type"`
	Deadline     time.Time        `json:"deadline"`
	TimeText     string           `json:"time_text"`
}

// Display computes the deadline badge for a ticket, or nil when no deadline
// is active.
func Display(now time.Time, t *domain.Ticket, p Policy) *DisplayState {
	deadline, phase := ActiveDeadline(t)
	if deadline == nil {
		return nil
	}

	remaining := deadline.Sub(now)

	status := domain.SLAWithinDeadline
	if remaining <= 0 {
		status = domain.SLABreached
	} else if remaining <= p.DisplayWarningWindow {
		status = domain.SLANearingDeadline
	}

	label := DeadlineTypeSolution
	if phase == PhaseResponse {
		label = DeadlineTypeResponse
	}

	return &DisplayState{
		Status:       status,
		DeadlineType: label,
		Deadline:     *deadline,
		TimeText:     remainingText(remaining),
	}
}

func remainingText(remaining time.Duration) string {
	overdue := remaining <= 0
	if overdue {
		remaining = -remaining
	}
	hours := int(remaining / time.Hour)
	minutes := int(remaining % time.Hour / time.Minute)

	switch {
	case overdue && hours > 0:
		return fmt.Sprintf("Vencido há %dh %dmin", hours, minutes)
	case overdue:
		return fmt.Sprintf("Vencido há %dmin", minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dmin restantes", hours, minutes)
	default:
		return fmt.Sprintf("%dmin restantes", minutes)
	}
}
