package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsAccumulatesPerRoute(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/tickets", "POST", 201, 20*time.Millisecond)
	m.RecordRequest("/tickets", "POST", 201, 30*time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, 5*time.Millisecond)

	stats := m.RequestStats("POST", "/tickets", 201)
	assert.Equal(t, int64(2), stats.Count)
	assert.Equal(t, 50*time.Millisecond, stats.TotalDuration)
	assert.Equal(t, int64(1), m.RequestStats("GET", "/tickets", 200).Count)
	assert.Zero(t, m.RequestStats("GET", "/tickets", 500).Count)
}

func TestMetricsCountsErrorsByCode(t *testing.T) {
	m := NewMetrics()

	m.RecordError("/sla/cron", "POST", "UNAUTHORIZED")
	m.RecordError("/sla/cron", "POST", "UNAUTHORIZED")

	assert.Equal(t, int64(2), m.ErrorCount("POST", "/sla/cron", "UNAUTHORIZED"))
	assert.Zero(t, m.ErrorCount("POST", "/sla/cron", "NOT_FOUND"))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordError("/tickets", "GET", "INTERNAL_ERROR")
	assert.Zero(t, m.RequestStats("GET", "/tickets", 200).Count)
}
