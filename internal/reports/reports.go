// Package reports writes timestamped JSON report files.
//
// The providers command uses it when --report is set. Files land in a reports
// directory named {prefix}-{YYYYMMDD-HHMMSS}.json.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmagro/blockscan/internal/provider"
)

const DefaultDir = "reports"

// MillisDuration marshals a time.Duration as an integer millisecond count.
type MillisDuration time.Duration

func (d MillisDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).Milliseconds())
}

type ProviderEntry struct {
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	SuccessRate float64        `json:"success_rate"`
	P50         MillisDuration `json:"p50_ms"`
	P95         MillisDuration `json:"p95_ms"`
	Max         MillisDuration `json:"max_ms"`
	BlockHeight uint64         `json:"block_height,omitempty"`
	BlockDelta  uint64         `json:"block_delta,omitempty"`
	Score       float64        `json:"score"`
	Excluded    bool           `json:"excluded,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	Error       string         `json:"error,omitempty"`
}

type ProvidersReport struct {
	Timestamp time.Time       `json:"timestamp"`
	Samples   int             `json:"samples"`
	Best      string          `json:"best,omitempty"`
	Providers []ProviderEntry `json:"providers"`
}

// NewProvidersReport flattens a ranking into its report form.
func NewProvidersReport(ranked provider.Ranked, samples int, ts time.Time) ProvidersReport {
	r := ProvidersReport{
		Timestamp: ts.UTC(),
		Samples:   samples,
		Providers: make([]ProviderEntry, 0, len(ranked)),
	}
	if best, err := ranked.Best(); err == nil {
		r.Best = best.Name
	}

	for _, h := range ranked {
		e := ProviderEntry{
			Name:        h.Name,
			Status:      h.Status,
			SuccessRate: h.SuccessRate,
			P50:         MillisDuration(h.Latency.P50),
			P95:         MillisDuration(h.Latency.P95),
			Max:         MillisDuration(h.Latency.Max),
			BlockHeight: h.BlockHeight,
			BlockDelta:  h.BlockDelta,
			Score:       h.Score,
			Excluded:    h.Excluded,
			Reason:      h.ExcludeReason,
		}
		if h.LastErr != nil {
			e.Error = h.LastErr.Error()
		}
		r.Providers = append(r.Providers, e)
	}
	return r
}

// WriteJSON pretty-prints data into dir/{prefix}-{YYYYMMDD-HHMMSS}.json and
// returns the path.
func WriteJSON(dir, prefix string, data any, ts time.Time) (string, error) {
	if prefix == "" {
		prefix = "report"
	}
	if dir == "" {
		dir = DefaultDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, ts.UTC().Format("20060102-150405")))

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}
