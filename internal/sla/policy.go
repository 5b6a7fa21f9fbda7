package sla

import "time"

// Default thresholds, matching the product rules the helpdesk launched with.
const (
	DefaultResponseWarningWindow = 2 * time.Hour
	DefaultSolutionWarningWindow = 4 * time.Hour
	DefaultDisplayWarningWindow  = 10 * time.Minute
	DefaultHighUrgencyWindow     = 2 * time.Hour
	DefaultSummaryNearWindow     = 4 * time.Hour
	DefaultBatchSize             = 50
)

// Policy names every SLA threshold in one place. The persisted-status rule
// (warning windows) and the UI display rule (display window) are independent
// and intentionally disagree; keeping both here stops them drifting further.
type Policy struct {
	// ResponseWarningWindow is how long before the response deadline a
	// ticket becomes NEARING_DEADLINE. Response SLAs are short, so the
	// warning window is tighter than the solution one.
	ResponseWarningWindow time.Duration
	// SolutionWarningWindow is the NEARING_DEADLINE window for the
	// solution deadline.
	SolutionWarningWindow time.Duration
	// DisplayWarningWindow is the window used only by the display
	// classifier for the deadline badge shown on a ticket.
	DisplayWarningWindow time.Duration
	// HighUrgencyWindow bounds the ALTO alert tier.
	HighUrgencyWindow time.Duration
	// SummaryNearWindow bounds the near-deadline bucket in alert
	// summaries. Coarser than HighUrgencyWindow.
	SummaryNearWindow time.Duration
	// BatchSize caps how many tickets a reconciliation run updates
	// concurrently.
	BatchSize int
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		ResponseWarningWindow: DefaultResponseWarningWindow,
		SolutionWarningWindow: DefaultSolutionWarningWindow,
		DisplayWarningWindow:  DefaultDisplayWarningWindow,
		HighUrgencyWindow:     DefaultHighUrgencyWindow,
		SummaryNearWindow:     DefaultSummaryNearWindow,
		BatchSize:             DefaultBatchSize,
	}
}
