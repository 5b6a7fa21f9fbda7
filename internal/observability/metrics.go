package observability

import (
	"strconv"
	"sync"
	"time"
)

// RouteStats accumulates per-route request counts and latency.
type RouteStats struct {
	Count         int64
	TotalDuration time.Duration
}

// Metrics provides in-memory request and error counters, keyed by route and
// outcome. Good enough for the /health surface; nothing here is exported to
// an external metrics backend.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]*RouteStats
	errors   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]*RouteStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest accounts one finished request for its route and status.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := routeKey(method, path, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &RouteStats{}
		m.requests[key] = stats
	}
	stats.Count++
	stats.TotalDuration += duration
}

// RecordError accounts one failed request under its error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := routeKey(method, path, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

// RequestStats returns a copy of the accumulated stats for one route/status.
func (m *Metrics) RequestStats(method, path string, status int) RouteStats {
	if m == nil {
		return RouteStats{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if stats, ok := m.requests[routeKey(method, path, strconv.Itoa(status))]; ok {
		return *stats
	}
	return RouteStats{}
}

// ErrorCount returns how often the given error code was recorded on a route.
func (m *Metrics) ErrorCount(method, path, code string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[routeKey(method, path, code)]
}

func routeKey(method, path, outcome string) string {
	return method + " " + path + " " + outcome
}
