package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/searchktools/file-server/core/http"
	"github.com/searchktools/file-server/core/observability"
	"github.com/searchktools/file-server/core/pools"
)

// Stats is a point-in-time view of the server
type Stats struct {
	Running           bool                            `json:"running"`
	RequestsProcessed uint64                          `json:"requests_processed"`
	Pool              *pools.WorkerPoolStats          `json:"pool,omitempty"`
	CopyBuffers       pools.BytePoolStats             `json:"copy_buffers"`
	Outcomes          []observability.OutcomeSnapshot `json:"outcomes"`
}

// Stats returns the current statistics. Pool statistics are included when
// the pool is a *pools.WorkerPool.
func (s *Server) Stats() Stats {
	stats := Stats{
		Running:           s.running.Load(),
		RequestsProcessed: s.requests.Load(),
		Outcomes:          s.monitor.Snapshot(),
		CopyBuffers:       http.CopyBufferStats(),
	}

	if wp, ok := s.pool.(*pools.WorkerPool); ok {
		ps := wp.Stats()
		stats.Pool = &ps
	}

	return stats
}

// StatsJSON returns the statistics as indented JSON
func (s *Server) StatsJSON() string {
	data, _ := json.MarshalIndent(s.Stats(), "", "  ")
	return string(data)
}

// StatsText returns the statistics as human-readable text
func (s *Server) StatsText() string {
	stats := s.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "Requests processed: %d\n", stats.RequestsProcessed)
	if stats.Pool != nil {
		fmt.Fprintf(&b, "Worker pool: %d workers, %d completed, %d running, %d rejected\n",
			stats.Pool.NumWorkers, stats.Pool.TasksCompleted, stats.Pool.TasksRunning, stats.Pool.TasksRejected)
	}
	fmt.Fprintf(&b, "Copy buffers: %d gets, %d puts, %d misses\n",
		stats.CopyBuffers.Gets, stats.CopyBuffers.Puts, stats.CopyBuffers.Misses)
	for _, o := range stats.Outcomes {
		fmt.Fprintf(&b, "  %-12s count=%d errors=%d avg=%v max=%v\n", o.Label, o.Count, o.Errors, o.Avg, o.Max)
	}

	return b.String()
}
