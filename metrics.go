package vimgo

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
//	    loadBytes    prometheus.Counter
//	    loadDuration prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
//	    p.loadBytes.Add(float64(bytes))
//	    p.loadDuration.Observe(duration.Seconds())
//	}
type MetricsCollector interface {
	// RecordLoad is called after each Open. bytes is the stored blob size.
	RecordLoad(bytes int64, duration time.Duration, err error)

	// RecordSave is called after each Save. bytes is the written size.
	RecordSave(bytes int64, duration time.Duration, err error)

	// RecordExpand is called after each scene expansion with the number of
	// emitted nodes.
	RecordExpand(nodes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordExpand(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	LoadCount       atomic.Int64
	LoadErrors      atomic.Int64
	LoadBytes       atomic.Int64
	LoadTotalNanos  atomic.Int64
	SaveCount       atomic.Int64
	SaveErrors      atomic.Int64
	SaveBytes       atomic.Int64
	ExpandCount     atomic.Int64
	ExpandErrors    atomic.Int64
	ExpandNodes     atomic.Int64
	ExpandTotalNano atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(bytes int64, _ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(bytes)
}

// RecordExpand implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExpand(nodes int, duration time.Duration, err error) {
	b.ExpandCount.Add(1)
	b.ExpandTotalNano.Add(duration.Nanoseconds())
	if err != nil {
		b.ExpandErrors.Add(1)
		return
	}
	b.ExpandNodes.Add(int64(nodes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		LoadBytes:      b.LoadBytes.Load(),
		LoadAvgNanos:   avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		SaveCount:      b.SaveCount.Load(),
		SaveErrors:     b.SaveErrors.Load(),
		SaveBytes:      b.SaveBytes.Load(),
		ExpandCount:    b.ExpandCount.Load(),
		ExpandErrors:   b.ExpandErrors.Load(),
		ExpandNodes:    b.ExpandNodes.Load(),
		ExpandAvgNanos: avg(b.ExpandTotalNano.Load(), b.ExpandCount.Load()),
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
	LoadCount      int64
	LoadErrors     int64
	LoadBytes      int64
	LoadAvgNanos   int64
	SaveCount      int64
	SaveErrors     int64
	SaveBytes      int64
	ExpandCount    int64
	ExpandErrors   int64
	ExpandNodes    int64
	ExpandAvgNanos int64
}
