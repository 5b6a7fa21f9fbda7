package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

func TestDisplayUsesTenMinuteWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	policy := DefaultPolicy()

	t.Run("ninety minutes out stays green", func(t *testing.T) {
		// The persisted rule would already say NEARING_DEADLINE here;
		// the badge deliberately does not.
		ticket := criticalTicket("t", now.Add(90*time.Minute))
		state := Display(now, &ticket, policy)
		require.NotNil(t, state)
		assert.Equal(t, domain.SLAWithinDeadline, state.Status)
		assert.Equal(t, domain.SLANearingDeadline, Classify(now, &ticket, policy))
		assert.Equal(t, "1h 30min restantes", state.TimeText)
	})

	t.Run("inside ten minutes", func(t *testing.T) {
		ticket := criticalTicket("t", now.Add(5*time.Minute))
		state := Display(now, &ticket, policy)
		require.NotNil(t, state)
		assert.Equal(t, domain.SLANearingDeadline, state.Status)
		assert.Equal(t, "5min restantes", state.TimeText)
	})

	t.Run("overdue", func(t *testing.T) {
		ticket := criticalTicket("t", now.Add(-(time.Hour + 3*time.Minute)))
		state := Display(now, &ticket, policy)
		require.NotNil(t, state)
		assert.Equal(t, domain.SLABreached, state.Status)
		assert.Equal(t, "Vencido há 1h 3min", state.TimeText)
	})

	t.Run("overdue under an hour", func(t *testing.T) {
		ticket := criticalTicket("t", now.Add(-10*time.Minute))
		state := Display(now, &ticket, policy)
		require.NotNil(t, state)
		assert.Equal(t, "Vencido há 10min", state.TimeText)
	})

	t.Run("no active deadline", func(t *testing.T) {
		ticket := domain.Ticket{Status: domain.TicketStatusOpen}
		assert.Nil(t, Display(now, &ticket, policy))
	})
}

func TestDisplayDeadlineType(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)
	responded := now.Add(-time.Hour)

	responsePhase := criticalTicket("t", deadline)
	state := Display(now, &responsePhase, DefaultPolicy())
	require.NotNil(t, state)
	assert.Equal(t, DeadlineTypeResponse, state.DeadlineType)

	solutionPhase := domain.Ticket{
		Status:              domain.TicketStatusInProgress,
		FirstResponseAt:     &responded,
		SLASolutionDeadline: &deadline,
	}
	state = Display(now, &solutionPhase, DefaultPolicy())
	require.NotNil(t, state)
	assert.Equal(t, DeadlineTypeSolution, state.DeadlineType)
}
