package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func ticketWithSLA(responseHours, solutionHours int) *domain.Ticket {
	ticket := &domain.Ticket{
		Status:    domain.TicketStatusOpen,
		SLAStatus: domain.SLAWithinDeadline,
		CreatedAt: t0,
	}
	if responseHours > 0 {
		d := t0.Add(time.Duration(responseHours) * time.Hour)
		ticket.SLAResponseDeadline = &d
	}
	if solutionHours > 0 {
		d := t0.Add(time.Duration(solutionHours) * time.Hour)
		ticket.SLASolutionDeadline = &d
	}
	return ticket
}

func TestClassifyResponsePhase(t *testing.T) {
	policy := DefaultPolicy()
	ticket := ticketWithSLA(2, 24)

	tests := []struct {
		name string
		now  time.Time
		want domain.SLAStatus
	}{
		{"just created", t0, domain.SLANearingDeadline},
		{"one minute left", t0.Add(119 * time.Minute), domain.SLANearingDeadline},
		{"one minute past", t0.Add(121 * time.Minute), domain.SLABreached},
		{"exactly at deadline", t0.Add(2 * time.Hour), domain.SLABreached},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.now, ticket, policy))
		})
	}
}

func TestClassifyResponsePhaseOutsideWarningWindow(t *testing.T) {
	// A longer response SLA leaves room for WITHIN_DEADLINE.
	ticket := ticketWithSLA(8, 24)
	assert.Equal(t, domain.SLAWithinDeadline, Classify(t0.Add(1*time.Hour), ticket, DefaultPolicy()))
	assert.Equal(t, domain.SLANearingDeadline, Classify(t0.Add(6*time.Hour+1*time.Minute), ticket, DefaultPolicy()))
}

func TestClassifySolutionPhase(t *testing.T) {
	policy := DefaultPolicy()
	ticket := ticketWithSLA(2, 24)
	responded := t0.Add(30 * time.Minute)
	ticket.FirstResponseAt = &responded
	ticket.Status = domain.TicketStatusInProgress

	assert.Equal(t, domain.SLAWithinDeadline, Classify(t0.Add(10*time.Hour), ticket, policy))
	assert.Equal(t, domain.SLANearingDeadline, Classify(t0.Add(23*time.Hour), ticket, policy))
	assert.Equal(t, domain.SLABreached, Classify(t0.Add(25*time.Hour), ticket, policy))
}

func TestClassifyPhaseExclusivity(t *testing.T) {
	// Once the first response exists, the response deadline never matters
	// again, even if it is already in the past.
	ticket := ticketWithSLA(2, 24)
	responded := t0.Add(3 * time.Hour)
	ticket.FirstResponseAt = &responded
	ticket.Status = domain.TicketStatusInProgress

	deadline, phase := ActiveDeadline(ticket)
	assert.Equal(t, PhaseSolution, phase)
	assert.Equal(t, ticket.SLASolutionDeadline, deadline)
	assert.Equal(t, domain.SLAWithinDeadline, Classify(t0.Add(4*time.Hour), ticket, DefaultPolicy()))
}

func TestClassifyClosedTicket(t *testing.T) {
	ticket := ticketWithSLA(2, 24)
	responded := t0.Add(30 * time.Minute)
	closed := t0.Add(10 * time.Hour)
	ticket.FirstResponseAt = &responded
	ticket.ClosedAt = &closed
	ticket.Status = domain.TicketStatusClosed

	// No active deadline remains, regardless of how far time advances.
	assert.Equal(t, domain.SLAWithinDeadline, Classify(t0.Add(100*time.Hour), ticket, DefaultPolicy()))

	_, phase := ActiveDeadline(ticket)
	assert.Equal(t, PhaseNone, phase)
}

func TestClassifyNoSLATicketNeverBreaches(t *testing.T) {
	ticket := &domain.Ticket{Status: domain.TicketStatusOpen, CreatedAt: t0}
	for _, now := range []time.Time{t0, t0.Add(24 * time.Hour), t0.Add(365 * 24 * time.Hour)} {
		assert.Equal(t, domain.SLAWithinDeadline, Classify(now, ticket, DefaultPolicy()))
	}
}

func TestClassifyMonotonicDecay(t *testing.T) {
	ticket := ticketWithSLA(8, 0)
	policy := DefaultPolicy()

	rank := map[domain.SLAStatus]int{
		domain.SLAWithinDeadline:  0,
		domain.SLANearingDeadline: 1,
		domain.SLABreached:        2,
	}

	prev := -1
	for now := t0; now.Before(t0.Add(10 * time.Hour)); now = now.Add(5 * time.Minute) {
		current := rank[Classify(now, ticket, policy)]
		assert.GreaterOrEqual(t, current, prev, "classification regressed at %s", now)
		prev = current
	}
	assert.Equal(t, rank[domain.SLABreached], prev)
}

func TestClassifyDeterminism(t *testing.T) {
	ticket := ticketWithSLA(2, 24)
	now := t0.Add(90 * time.Minute)
	first := Classify(now, ticket, DefaultPolicy())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(now, ticket, DefaultPolicy()))
	}
}
