package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chamado-hub/helpdesk/internal/domain"
	"github.com/chamado-hub/helpdesk/internal/repository"
)

const dashboardCacheKey = "dashboard:metrics"

// DashboardMetrics aggregates the numbers the admin dashboard renders.
// Deltas compare the current period against the previous one of equal length.
type DashboardMetrics struct {
	PeriodStart          time.Time `json:"period_start"`
	PeriodEnd            time.Time `json:"period_end"`
	CreatedTickets       int       `json:"created_tickets"`
	CreatedDelta         int       `json:"created_delta"`
	ClosedTickets        int       `json:"closed_tickets"`
	ClosedDelta          int       `json:"closed_delta"`
	ActiveTickets        int       `json:"active_tickets"`
	AvgResponseHours     float64   `json:"avg_response_hours"`
	AvgResolutionHours   float64   `json:"avg_resolution_hours"`
	SLAWithinDeadline    int       `json:"sla_within_deadline"`
	SLANearingDeadline   int       `json:"sla_nearing_deadline"`
	SLABreached          int       `json:"sla_breached"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// DashboardService computes operational metrics, caching results in Redis so
// dashboard refreshes do not hammer the aggregate queries.
type DashboardService struct {
	tickets  repository.TicketRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs the service. A nil cache disables caching.
func NewDashboardService(tickets repository.TicketRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	return &DashboardService{tickets: tickets, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Metrics returns dashboard numbers for the period ending now and starting
// periodDays earlier.
func (s *DashboardService) Metrics(ctx context.Context, periodDays int) (*DashboardMetrics, error) {
	if periodDays <= 0 {
		periodDays = 30
	}

	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	now := time.Now()
	periodStart := now.AddDate(0, 0, -periodDays)
	previousStart := periodStart.AddDate(0, 0, -periodDays)

	created, err := s.tickets.CountCreatedBetween(ctx, periodStart, now)
	if err != nil {
		return nil, err
	}
	createdPrev, err := s.tickets.CountCreatedBetween(ctx, previousStart, periodStart)
	if err != nil {
		return nil, err
	}
	closed, err := s.tickets.CountClosedBetween(ctx, periodStart, now)
	if err != nil {
		return nil, err
	}
	closedPrev, err := s.tickets.CountClosedBetween(ctx, previousStart, periodStart)
	if err != nil {
		return nil, err
	}
	active, err := s.tickets.CountByStatuses(ctx,
		domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusPendingClient)
	if err != nil {
		return nil, err
	}
	avgResponse, err := s.tickets.AverageResponseHours(ctx, periodStart, now)
	if err != nil {
		return nil, err
	}
	avgResolution, err := s.tickets.AverageResolutionHours(ctx, periodStart, now)
	if err != nil {
		return nil, err
	}
	bySLA, err := s.tickets.CountBySLAStatus(ctx)
	if err != nil {
		return nil, err
	}

	metrics := &DashboardMetrics{
		PeriodStart:        periodStart,
		PeriodEnd:          now,
		CreatedTickets:     created,
		CreatedDelta:       created - createdPrev,
		ClosedTickets:      closed,
		ClosedDelta:        closed - closedPrev,
		ActiveTickets:      active,
		AvgResponseHours:   avgResponse,
		AvgResolutionHours: avgResolution,
		SLAWithinDeadline:  bySLA[domain.SLAWithinDeadline],
		SLANearingDeadline: bySLA[domain.SLANearingDeadline],
		SLABreached:        bySLA[domain.SLABreached],
		GeneratedAt:        now,
	}
	s.toCache(ctx, metrics)
	return metrics, nil
}

// Invalidate drops the cached metrics. Called after bulk SLA reconciliation.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.logger.Debug("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) fromCache(ctx context.Context) *DashboardMetrics {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var metrics DashboardMetrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return nil
	}
	return &metrics
}

func (s *DashboardService) toCache(ctx context.Context, metrics *DashboardMetrics) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(metrics)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
}
