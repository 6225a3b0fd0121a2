package provider

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmagro/blockscan/internal/config"
	"github.com/dmagro/blockscan/internal/rpc"
	"github.com/dmagro/blockscan/internal/stats"
)

const (
	StatusUp       = "UP"
	StatusSlow     = "SLOW"
	StatusDegraded = "DEGRADED"
	StatusDown     = "DOWN"

	slowP95      = 500 * time.Millisecond
	maxBlockLag  = 5
	minSuccessOK = 80.0
)

// Health is the probe result for one provider.
type Health struct {
	Name          string
	Status        string
	SuccessRate   float64
	Latency       stats.TailLatency
	BlockHeight   uint64
	BlockDelta    uint64
	Score         float64
	Excluded      bool
	ExcludeReason string
	Samples       int
	LastErr       error
}

// Ranked is sorted best first.
type Ranked []Health

type CheckOptions struct {
	Samples  int           // eth_blockNumber calls per provider, default 5
	Interval time.Duration // pause between samples, default 50ms
}

type probe struct {
	latencies []time.Duration
	heights   []uint64
	total     int
	lastErr   error
}

// Check samples eth_blockNumber on every provider in parallel and ranks them by
// success rate, p95 latency and freshness relative to the highest head seen.
//
// A provider that never answers is kept in the result and marked excluded.
// Providers whose sampling is cut short by ctx are scored on what they
// returned.
//
// Parameters:
//   - ctx: cancels outstanding samples
//   - pool: clients are created or reused from here
//   - cfg: provider list plus timeout and retry defaults
//   - opts: samples per provider and the pause between them
//
// Returns:
//   - Ranked: one Health per configured provider, best first
//   - error: non-nil only when no providers are configured
func Check(ctx context.Context, pool *rpc.ClientPool, cfg *config.Config, opts CheckOptions) (Ranked, error) {
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("no providers available")
	}
	if opts.Samples <= 0 {
		opts.Samples = 5
	}
	if opts.Interval <= 0 {
		opts.Interval = 50 * time.Millisecond
	}

	results := ExecuteAll(ctx, cfg.Providers, func(ctx context.Context, p config.Provider) (probe, error) {
		client := Client(pool, cfg, p)
		var pr probe
		for i := 0; i < opts.Samples; i++ {
			height, latency, err := client.BlockNumber(ctx)
			pr.total++
			if err != nil {
				pr.lastErr = err
			} else {
				pr.latencies = append(pr.latencies, latency)
				pr.heights = append(pr.heights, height)
			}

			if i < opts.Samples-1 {
				select {
				case <-ctx.Done():
					return pr, ctx.Err()
				case <-time.After(opts.Interval):
				}
			}
		}
		return pr, nil
	})

	var maxHeight uint64
	for _, r := range results {
		for _, h := range r.Value.heights {
			maxHeight = max(maxHeight, h)
		}
	}

	ranked := make(Ranked, 0, len(results))
	for _, r := range results {
		pr := r.Value
		h := Health{Name: r.ProviderName, Samples: pr.total, LastErr: pr.lastErr}
		if r.Err != nil && h.LastErr == nil {
			h.LastErr = r.Err
		}

		if pr.total == 0 || len(pr.latencies) == 0 {
			h.Status = StatusDown
			h.Excluded = true
			h.ExcludeReason = "no successful samples"
			ranked = append(ranked, h)
			continue
		}

		h.SuccessRate = float64(len(pr.latencies)) / float64(pr.total) * 100
		h.Latency = stats.CalculateTailLatency(pr.latencies)
		h.BlockHeight = pr.heights[len(pr.heights)-1]
		h.BlockDelta = maxHeight - h.BlockHeight

		switch {
		case h.SuccessRate < 50:
			h.Status = StatusDown
		case h.SuccessRate < 90:
			h.Status = StatusDegraded
		case h.Latency.P95 > slowP95:
			h.Status = StatusSlow
		default:
			h.Status = StatusUp
		}

		h.Score = score(h)

		if h.SuccessRate < minSuccessOK {
			h.Excluded = true
			h.ExcludeReason = fmt.Sprintf("success rate %.1f%% below threshold", h.SuccessRate)
		} else if h.BlockDelta > maxBlockLag {
			h.Excluded = true
			h.ExcludeReason = fmt.Sprintf("%d blocks behind", h.BlockDelta)
		}

		ranked = append(ranked, h)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})

	return ranked, nil
}

// Best returns the best non-excluded provider. When every provider is excluded
// the least bad one is returned together with an error.
func (r Ranked) Best() (Health, error) {
	for _, h := range r {
		if !h.Excluded {
			return h, nil
		}
	}
	if len(r) > 0 {
		return r[0], fmt.Errorf("all providers degraded, using least-bad: %s", r[0].Name)
	}
	return Health{}, fmt.Errorf("no providers available")
}

func score(h Health) float64 {
	successScore := h.SuccessRate / 100.0

	latencyScore := 1.0 - float64(h.Latency.P95.Milliseconds())/1000.0
	latencyScore = max(latencyScore, 0)

	freshnessScore := 1.0 - float64(h.BlockDelta)/10.0
	freshnessScore = max(freshnessScore, 0)

	return successScore*0.5 + latencyScore*0.3 + freshnessScore*0.2
}
