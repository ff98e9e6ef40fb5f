package planmonitor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_CountsByStage(t *testing.T) {
	m := New(10)

	m.Record(Event{Stage: "research", Status: "ok"})
	m.Record(Event{Stage: "structure", Status: "ok"})
	m.Record(Event{Stage: "plan", Status: "ok"})
	m.Record(Event{Stage: "image", Status: "ok"})
	m.Record(Event{Stage: "image", Status: "fallback", Error: "render failed"})
	m.Record(Event{Stage: "delivery", Status: "ok"})
	m.Record(Event{Stage: "delivery", Status: "error", Error: "chat not found"})

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats.TotalAICalls)
	assert.Equal(t, int64(1), stats.TotalImages)
	assert.Equal(t, int64(1), stats.TotalFallbacks)
	assert.Equal(t, int64(1), stats.TotalDeliveries)
	assert.Equal(t, int64(1), stats.TotalErrors)
	assert.Len(t, stats.RecentEvents, 7)
}

func TestMonitor_RingKeepsMostRecent(t *testing.T) {
	m := New(3)

	for i := 0; i < 5; i++ {
		m.Record(Event{Stage: "plan", Status: "ok", TraceID: fmt.Sprintf("t%d", i)})
	}

	stats := m.GetStats()
	require.Len(t, stats.RecentEvents, 3)
	assert.Equal(t, "t2", stats.RecentEvents[0].TraceID)
	assert.Equal(t, "t4", stats.RecentEvents[2].TraceID)
}

func TestMonitor_TimestampsAssigned(t *testing.T) {
	m := New(3)
	m.Record(Event{Stage: "edit", Status: "ok"})

	stats := m.GetStats()
	require.Len(t, stats.RecentEvents, 1)
	assert.False(t, stats.RecentEvents[0].Timestamp.IsZero())
}
