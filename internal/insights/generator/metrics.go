package generator

import (
	"sync/atomic"
	"time"
)

// Metrics tracks upstream call metrics
type Metrics struct {
	UpstreamCalls   int64
	UpstreamErrors  int64
	UpstreamLatency int64 // Total latency in nanoseconds
}

var globalMetrics Metrics

// GetMetrics returns the current metrics snapshot
func GetMetrics() Metrics {
	return Metrics{
		UpstreamCalls:   atomic.LoadInt64(&globalMetrics.UpstreamCalls),
		UpstreamErrors:  atomic.LoadInt64(&globalMetrics.UpstreamErrors),
		UpstreamLatency: atomic.LoadInt64(&globalMetrics.UpstreamLatency),
	}
}

// ResetMetrics resets all metrics
func ResetMetrics() {
	atomic.StoreInt64(&globalMetrics.UpstreamCalls, 0)
	atomic.StoreInt64(&globalMetrics.UpstreamErrors, 0)
	atomic.StoreInt64(&globalMetrics.UpstreamLatency, 0)
}

func recordUpstreamCall(duration time.Duration, err error) {
	atomic.AddInt64(&globalMetrics.UpstreamCalls, 1)
	atomic.AddInt64(&globalMetrics.UpstreamLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&globalMetrics.UpstreamErrors, 1)
	}
}

// AverageUpstreamLatency returns the average latency in milliseconds
func (m Metrics) AverageUpstreamLatency() float64 {
	if m.UpstreamCalls == 0 {
		return 0
	}
	return float64(m.UpstreamLatency) / float64(m.UpstreamCalls) / 1e6
}

// UpstreamErrorRate returns the error rate as a percentage
func (m Metrics) UpstreamErrorRate() float64 {
	if m.UpstreamCalls == 0 {
		return 0
	}
	return float64(m.UpstreamErrors) / float64(m.UpstreamCalls) * 100
}
