// Package stats computes latency summaries for provider probes.
package stats

import (
	"math"
	"slices"
	"time"
)

// TailLatency holds p50, p95, p99 and max latency values.
type TailLatency struct {
	P50, P95, P99, Max time.Duration
}

// CalculateTailLatency computes nearest-rank percentiles. With few samples the
// high percentiles equal Max. Empty input yields the zero value.
func CalculateTailLatency(latencies []time.Duration) TailLatency {
	if len(latencies) == 0 {
		return TailLatency{}
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	return TailLatency{
		P50: Percentile(sorted, 0.50),
		P95: Percentile(sorted, 0.95),
		P99: Percentile(sorted, 0.99),
		Max: sorted[len(sorted)-1],
	}
}

// Percentile returns the value at p (0..1) of an ascending slice using
// index = ceil(n*p) - 1, clamped to the slice.
func Percentile(sorted []time.Duration, p float64) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	index := int(math.Ceil(float64(n)*p)) - 1
	index = min(max(index, 0), n-1)
	return sorted[index]
}
