package sla

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// Deadlines is the pair stamped on a ticket at creation. A nil entry means
// that dimension is not tracked.
type Deadlines struct {
	Response *time.Time
	Solution *time.Time
}

// ComputeDeadlines derives the deadline pair from a ticket type's configured
// SLA durations and the ticket's creation instant. Pure; a nil ticket type
// yields untracked deadlines.
func ComputeDeadlines(ticketType *domain.TicketType, createdAt time.Time) Deadlines {
	var d Deadlines
	if ticketType == nil {
		return d
	}
	if ticketType.SLAResponseHours != nil {
		t := createdAt.Add(time.Duration(*ticketType.SLAResponseHours) * time.Hour)
		d.Response = &t
	}
	if ticketType.SLASolutionHours != nil {
		t := createdAt.Add(time.Duration(*ticketType.SLASolutionHours) * time.Hour)
		d.Solution = &t
	}
	return d
}

// TypeStore resolves ticket types for deadline calculation.
type TypeStore interface {
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
}

// Calculator stamps SLA deadlines for new tickets.
type Calculator struct {
	types TypeStore
}

// NewCalculator creates a deadline calculator.
func NewCalculator(types TypeStore) *Calculator {
	return &Calculator{types: types}
}

// DeadlinesForType resolves the ticket type and computes the deadline pair.
// A missing ticket type means no SLA is tracked, not a failure.
func (c *Calculator) DeadlinesForType(ctx context.Context, ticketTypeID string, createdAt time.Time) (Deadlines, error) {
	ticketType, err := c.types.GetByID(ctx, ticketTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deadlines{}, nil
		}
		return Deadlines{}, err
	}
	return ComputeDeadlines(ticketType, createdAt), nil
}
