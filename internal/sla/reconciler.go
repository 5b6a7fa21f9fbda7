package sla

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chamado-hub/helpdesk/internal/domain"
)

// TicketStore defines the persistence operations the SLA jobs need.
type TicketStore interface {
	// ListActiveWithDeadlines returns non-terminal tickets carrying at
	// least one SLA deadline.
	ListActiveWithDeadlines(ctx context.Context) ([]domain.Ticket, error)
	// ListCritical returns non-terminal tickets whose cached SLA status
	// is NEARING_DEADLINE or BREACHED.
	ListCritical(ctx context.Context) ([]domain.Ticket, error)
	// UpdateSLAStatus persists a recomputed status for one ticket.
	UpdateSLAStatus(ctx context.Context, ticketID string, status domain.SLAStatus) error
}

// Result summarizes one reconciliation run.
type Result struct {
	Processed int       `json:"processed_tickets"`
	Updated   int       `json:"updated_tickets"`
	Timestamp time.Time `json:"timestamp"`
}

// Reconciler recomputes cached SLA statuses in bulk. Updates inside one
// batch run concurrently; batches run sequentially to cap load on the
// database. Per-ticket updates commit independently, so a failed run leaves
// earlier updates in place and the next run picks up where it left off.
type Reconciler struct {
	store  TicketStore
	policy Policy
	logger *zap.Logger
}

// NewReconciler creates a reconciler.
func NewReconciler(store TicketStore, policy Policy, logger *zap.Logger) *Reconciler {
	if policy.BatchSize <= 0 {
		policy.BatchSize = DefaultBatchSize
	}
	return &Reconciler{store: store, policy: policy, logger: logger}
}

// ReconcileAll classifies every active tracked ticket at the given instant
// and persists statuses that changed. Any persistence error aborts the
// remaining batches and is returned along with the partial counts.
func (r *Reconciler) ReconcileAll(ctx context.Context, now time.Time) (Result, error) {
	tickets, err := r.store.ListActiveWithDeadlines(ctx)
	if err != nil {
		return Result{Timestamp: now}, err
	}

	r.logger.Info("sla reconciliation started", zap.Int("active_tickets", len(tickets)))

	updated := 0
	processed := 0
	for start := 0; start < len(tickets); start += r.policy.BatchSize {
		end := start + r.policy.BatchSize
		if end > len(tickets) {
			end = len(tickets)
		}

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			batchErr error
		)
		for i := start; i < end; i++ {
			ticket := tickets[i]
			wg.Add(1)
			go func() {
				defer wg.Done()
				next := Classify(now, &ticket, r.policy)
				if next == ticket.SLAStatus {
					return
				}
				if err := r.store.UpdateSLAStatus(ctx, ticket.ID, next); err != nil {
					mu.Lock()
					if batchErr == nil {
						batchErr = err
					}
					mu.Unlock()
					return
				}
				mu.Lock()
				updated++
				mu.Unlock()
			}()
		}
		wg.Wait()
		processed = end

		if batchErr != nil {
			r.logger.Error("sla reconciliation aborted",
				zap.Int("processed", processed),
				zap.Int("updated", updated),
				zap.Error(batchErr))
			return Result{Processed: processed, Updated: updated, Timestamp: now}, batchErr
		}
	}

	r.logger.Info("sla reconciliation finished",
		zap.Int("processed", processed),
		zap.Int("updated", updated))
	return Result{Processed: processed, Updated: updated, Timestamp: now}, nil
}
