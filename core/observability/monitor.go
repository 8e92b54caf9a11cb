package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Monitor keeps per-outcome request metrics
type Monitor struct {
	outcomes sync.Map // label -> *OutcomeMetrics

	totalRequests atomic.Uint64
	totalErrors   atomic.Uint64
}

// OutcomeMetrics stores metrics for one outcome label, e.g. "GET 200"
type OutcomeMetrics struct {
	Label         string
	Count         atomic.Uint64
	Errors        atomic.Uint64
	TotalDuration atomic.Uint64
	MinDuration   atomic.Uint64
	MaxDuration   atomic.Uint64
}

// NewMonitor creates a monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// RecordRequest records one finished connection
func (m *Monitor) RecordRequest(label string, duration time.Duration, isError bool) {
	val, _ := m.outcomes.LoadOrStore(label, &OutcomeMetrics{Label: label})
	om := val.(*OutcomeMetrics)

	om.Count.Add(1)
	m.totalRequests.Add(1)
	if isError {
		om.Errors.Add(1)
		m.totalErrors.Add(1)
	}

	d := uint64(duration.Nanoseconds())
	om.TotalDuration.Add(d)
	updateMinMax(om, d)
}

func updateMinMax(om *OutcomeMetrics, d uint64) {
	for {
		min := om.MinDuration.Load()
		if min != 0 && d >= min {
			break
		}
		if om.MinDuration.CompareAndSwap(min, d) {
			break
		}
	}
	for {
		max := om.MaxDuration.Load()
		if d <= max {
			break
		}
		if om.MaxDuration.CompareAndSwap(max, d) {
			break
		}
	}
}

// OutcomeSnapshot is a point-in-time copy of OutcomeMetrics
type OutcomeSnapshot struct {
	Label  string        `json:"label"`
	Count  uint64        `json:"count"`
	Errors uint64        `json:"errors"`
	Avg    time.Duration `json:"avg_ns"`
	Min    time.Duration `json:"min_ns"`
	Max    time.Duration `json:"max_ns"`
}

// Snapshot returns all outcomes sorted by label
func (m *Monitor) Snapshot() []OutcomeSnapshot {
	out := make([]OutcomeSnapshot, 0)

	m.outcomes.Range(func(_, value any) bool {
		om := value.(*OutcomeMetrics)
		count := om.Count.Load()

		s := OutcomeSnapshot{
			Label:  om.Label,
			Count:  count,
			Errors: om.Errors.Load(),
			Min:    time.Duration(om.MinDuration.Load()),
			Max:    time.Duration(om.MaxDuration.Load()),
		}
		if count > 0 {
			s.Avg = time.Duration(om.TotalDuration.Load() / count)
		}
		out = append(out, s)
		return true
	})

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Totals returns the number of recorded requests and how many were errors
func (m *Monitor) Totals() (requests, errors uint64) {
	return m.totalRequests.Load(), m.totalErrors.Load()
}
