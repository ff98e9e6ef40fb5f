package planmonitor

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event is one pipeline step observation. Stages follow the generation and
// delivery flow: research | structure | plan | image | edit | delivery.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	TraceID    string    `json:"trace_id"`
	PlanID     string    `json:"plan_id"`
	PostID     string    `json:"post_id,omitempty"`
	Provider   string    `json:"provider"`
	Stage      string    `json:"stage"`
	Status     string    `json:"status"` // ok | error | fallback | skipped
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
}

type Stats struct {
	TotalAICalls    int64   `json:"total_ai_calls"`
	TotalImages     int64   `json:"total_images"`
	TotalFallbacks  int64   `json:"total_fallbacks"`
	TotalDeliveries int64   `json:"total_deliveries"`
	TotalErrors     int64   `json:"total_errors"`
	RecentEvents    []Event `json:"recent_events"`
}

type Monitor struct {
	eventsMu sync.Mutex
	events   []Event
	idx      int
	count    int

	totalAICalls    int64
	totalImages     int64
	totalFallbacks  int64
	totalDeliveries int64
	totalErrors     int64
}

func New(size int) *Monitor {
	if size <= 0 {
		size = 200
	}
	return &Monitor{events: make([]Event, size)}
}

func (m *Monitor) Record(e Event) {
	e.Timestamp = time.Now().UTC()

	switch e.Stage {
	case "research", "structure", "plan", "edit":
		atomic.AddInt64(&m.totalAICalls, 1)
	case "image":
		if e.Status == "ok" {
			atomic.AddInt64(&m.totalImages, 1)
		}
	case "delivery":
		if e.Status == "ok" {
			atomic.AddInt64(&m.totalDeliveries, 1)
		}
	}
	if e.Status == "fallback" {
		atomic.AddInt64(&m.totalFallbacks, 1)
	}
	if e.Status == "error" {
		atomic.AddInt64(&m.totalErrors, 1)
	}

	m.eventsMu.Lock()
	m.events[m.idx] = e
	m.idx = (m.idx + 1) % len(m.events)
	if m.count < len(m.events) {
		m.count++
	}
	m.eventsMu.Unlock()
}

func (m *Monitor) GetStats() Stats {
	m.eventsMu.Lock()
	defer m.eventsMu.Unlock()

	res := make([]Event, 0, m.count)
	start := (m.idx - m.count) % len(m.events)
	if start < 0 {
		start += len(m.events)
	}
	for i := 0; i < m.count; i++ {
		res = append(res, m.events[(start+i)%len(m.events)])
	}

	return Stats{
		TotalAICalls:    atomic.LoadInt64(&m.totalAICalls),
		TotalImages:     atomic.LoadInt64(&m.totalImages),
		TotalFallbacks:  atomic.LoadInt64(&m.totalFallbacks),
		TotalDeliveries: atomic.LoadInt64(&m.totalDeliveries),
		TotalErrors:     atomic.LoadInt64(&m.totalErrors),
		RecentEvents:    res,
	}
}

var defaultMonitor = New(200)

// Record logs an event on the process-wide monitor.
func Record(e Event) {
	defaultMonitor.Record(e)
}

// GetStats snapshots the process-wide monitor.
func GetStats() Stats {
	return defaultMonitor.GetStats()
}
