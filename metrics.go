package tetgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    buildHistogram prometheus.Histogram
//	    locateCounter  prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordLocate(steps int, found bool, duration time.Duration) {
//	    p.locateCounter.Inc()
//	}
type MetricsCollector interface {
	// RecordBuild is called after each build.
	// inserted and skipped count the vertices added and the duplicates or
	// hidden points left out; err is nil if successful.
	RecordBuild(points, inserted, skipped int, duration time.Duration, err error)

	// RecordLocate is called after each point location.
	RecordLocate(steps int, found bool, duration time.Duration)

	// RecordCompact is called after compaction with the number of dropped cells.
	RecordCompact(removed int, duration time.Duration)

	// RecordValidate is called after each self-check.
	RecordValidate(violations int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordLocate(int, bool, time.Duration)           {}
func (NoopMetricsCollector) RecordCompact(int, time.Duration)                {}
func (NoopMetricsCollector) RecordValidate(int, time.Duration)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount       atomic.Int64
	BuildErrors      atomic.Int64
	BuildTotalNanos  atomic.Int64
	InsertedVertices atomic.Int64
	SkippedVertices  atomic.Int64
	LocateCount      atomic.Int64
	LocateNotFound   atomic.Int64
	LocateSteps      atomic.Int64
	LocateTotalNanos atomic.Int64
	CompactCount     atomic.Int64
	CompactRemoved   atomic.Int64
	ValidateCount    atomic.Int64
	Violations       atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(points, inserted, skipped int, duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	b.InsertedVertices.Add(int64(inserted))
	b.SkippedVertices.Add(int64(skipped))
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordLocate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLocate(steps int, found bool, duration time.Duration) {
	b.LocateCount.Add(1)
	b.LocateSteps.Add(int64(steps))
	b.LocateTotalNanos.Add(duration.Nanoseconds())
	if !found {
		b.LocateNotFound.Add(1)
	}
}

// RecordCompact implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompact(removed int, duration time.Duration) {
	b.CompactCount.Add(1)
	b.CompactRemoved.Add(int64(removed))
}

// RecordValidate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordValidate(violations int, duration time.Duration) {
	b.ValidateCount.Add(1)
	b.Violations.Add(int64(violations))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:       b.BuildCount.Load(),
		BuildErrors:      b.BuildErrors.Load(),
		BuildAvgNanos:    avg(b.BuildTotalNanos.Load(), b.BuildCount.Load()),
		InsertedVertices: b.InsertedVertices.Load(),
		SkippedVertices:  b.SkippedVertices.Load(),
		LocateCount:      b.LocateCount.Load(),
		LocateNotFound:   b.LocateNotFound.Load(),
		LocateAvgSteps:   avg(b.LocateSteps.Load(), b.LocateCount.Load()),
		LocateAvgNanos:   avg(b.LocateTotalNanos.Load(), b.LocateCount.Load()),
		CompactCount:     b.CompactCount.Load(),
		CompactRemoved:   b.CompactRemoved.Load(),
		ValidateCount:    b.ValidateCount.Load(),
		Violations:       b.Violations.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount       int64
	BuildErrors      int64
	BuildAvgNanos    int64
	InsertedVertices int64
	SkippedVertices  int64
	LocateCount      int64
	LocateNotFound   int64
	LocateAvgSteps   int64
	LocateAvgNanos   int64
	CompactCount     int64
	CompactRemoved   int64
	ValidateCount    int64
	Violations       int64
}
