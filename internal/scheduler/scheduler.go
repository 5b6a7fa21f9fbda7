package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/chamado-hub/helpdesk/internal/sla"
)

// Scheduler runs the SLA reconciliation job on a cron expression, replacing
// the need for an external cron caller hitting the HTTP endpoint.
type Scheduler struct {
	reconciler *sla.Reconciler
	spec       string
	cron       *cron.Cron
	logger     *zap.Logger
	mu         sync.Mutex
	running    bool
}

// New creates a scheduler with the given cron spec (standard 5-field form).
func New(reconciler *sla.Reconciler, spec string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reconciler: reconciler,
		spec:       spec,
		cron:       cron.New(),
		logger:     logger,
	}
}

// Start registers the job and begins the schedule.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already running")
	}
	if _, err := s.cron.AddFunc(s.spec, s.runReconciliation); err != nil {
		return err
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("sla scheduler started", zap.String("spec", s.spec))
	return nil
}

// Stop halts the schedule and returns a context that closes once any running
// job finishes.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	s.running = false
	s.logger.Info("stopping sla scheduler")
	return s.cron.Stop()
}

func (s *Scheduler) runReconciliation() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := s.reconciler.ReconcileAll(ctx, time.Now())
	if err != nil {
		s.logger.Error("scheduled sla reconciliation failed",
			zap.Error(err),
			zap.Int("processed", result.Processed))
		return
	}
	s.logger.Info("scheduled sla reconciliation finished",
		zap.Int("processed", result.Processed),
		zap.Int("updated", result.Updated))
}
