// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpTurn      = "turn"
	OpEmbedding = "embedding"
	OpGenerate  = "llm_generate"
	OpRetrieval = "retrieval"
	OpCRM       = "crm_call"
)

// OperationMetrics holds aggregated timings for a single operation type.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Op          string
	Count       int64
	Failures    int64
	TotalTimeMs int64
	AvgTimeMs   float64
	MinTimeMs   int64
	MaxTimeMs   int64
}

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// Record records one completed operation. failed marks operations that
// ended in error; their timing still counts.
func (c *Collector) Record(op string, duration time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}

	m.Count++
	if failed {
		m.Failures++
	}
	m.TotalTime += duration
	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// Time runs fn and records its duration under op.
func (c *Collector) Time(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.Record(op, time.Since(start), err != nil)
	return err
}

// Snapshot returns a point-in-time view of all recorded operations.
func (c *Collector) Snapshot() []OperationSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snaps := make([]OperationSnapshot, 0, len(c.ops))
	for _, op := range []string{OpTurn, OpRetrieval, OpEmbedding, OpGenerate, OpCRM} {
		m, ok := c.ops[op]
		if !ok || m.Count == 0 {
			continue
		}
		snaps = append(snaps, OperationSnapshot{
			Op:          op,
			Count:       m.Count,
			Failures:    m.Failures,
			TotalTimeMs: m.TotalTime.Milliseconds(),
			AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
			MinTimeMs:   m.MinTime.Milliseconds(),
			MaxTimeMs:   m.MaxTime.Milliseconds(),
		})
	}
	return snaps
}

// Uptime returns time since the collector was created.
func (c *Collector) Uptime() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.startTime)
}

// LogSummary writes one line per operation to the logger. Called at
// shutdown so a serving run leaves a usage trace in the log.
func (c *Collector) LogSummary(logger *slog.Logger) {
	for _, snap := range c.Snapshot() {
		logger.Info("operation stats",
			"op", snap.Op,
			"count", snap.Count,
			"failures", snap.Failures,
			"avg_ms", snap.AvgTimeMs,
			"min_ms", snap.MinTimeMs,
			"max_ms", snap.MaxTimeMs,
		)
	}
}
