package fsbench

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting fixture metrics.
// Measured operations are timed by the harness; the collector only sees the
// untimed work around them.
//
// Package prommetrics provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordProbe is called after each capability probe.
	RecordProbe(capability string, outcome ProbeOutcome)

	// RecordRepair is called after baseline preparation and every repair.
	// stage is "baseline", "iteration" or the operation name for
	// per-invocation repairs.
	RecordRepair(stage string, duration time.Duration, err error)

	// RecordCleanup is called after teardown.
	RecordCleanup(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordProbe(string, ProbeOutcome)          {}
func (NoopMetricsCollector) RecordRepair(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordCleanup(time.Duration, error)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ProbeCount       atomic.Int64
	ProbeFailures    atomic.Int64
	BaselineNanos    atomic.Int64
	RepairCount      atomic.Int64
	RepairErrors     atomic.Int64
	RepairTotalNanos atomic.Int64
	CleanupCount     atomic.Int64
	CleanupErrors    atomic.Int64
}

// RecordProbe implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProbe(_ string, outcome ProbeOutcome) {
	b.ProbeCount.Add(1)
	if outcome == ProbeFailed {
		b.ProbeFailures.Add(1)
	}
}

// RecordRepair implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRepair(stage string, duration time.Duration, err error) {
	if stage == stageBaseline {
		b.BaselineNanos.Store(duration.Nanoseconds())
	} else {
		b.RepairCount.Add(1)
		b.RepairTotalNanos.Add(duration.Nanoseconds())
	}
	if err != nil {
		b.RepairErrors.Add(1)
	}
}

// RecordCleanup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCleanup(_ time.Duration, err error) {
	b.CleanupCount.Add(1)
	if err != nil {
		b.CleanupErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ProbeCount:     b.ProbeCount.Load(),
		ProbeFailures:  b.ProbeFailures.Load(),
		BaselineNanos:  b.BaselineNanos.Load(),
		RepairCount:    b.RepairCount.Load(),
		RepairErrors:   b.RepairErrors.Load(),
		RepairAvgNanos: b.getAvgRepairNanos(),
		CleanupCount:   b.CleanupCount.Load(),
		CleanupErrors:  b.CleanupErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgRepairNanos() int64 {
	count := b.RepairCount.Load()
	if count == 0 {
		return 0
	}
	return b.RepairTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ProbeCount     int64
	ProbeFailures  int64
	BaselineNanos  int64
	RepairCount    int64
	RepairErrors   int64
	RepairAvgNanos int64
	CleanupCount   int64
	CleanupErrors  int64
}
