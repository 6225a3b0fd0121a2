package display

import (
	"fmt"
	"io"
	"time"

	"github.com/dmagro/blockscan/internal/provider"
)

// ProvidersFormatter renders ranked provider health, flagging height mismatches.
type ProvidersFormatter struct {
	Ranked provider.Ranked
}

func (f *ProvidersFormatter) Format(w io.Writer) error {
	tbl := newTable(w, "Provider", "Status", "Success", "P50", "P95", "Max", "Block", "Lag", "Note")
	for _, h := range f.Ranked {
		note := h.ExcludeReason
		if h.LastErr != nil && h.Status == provider.StatusDown {
			note = h.LastErr.Error()
		}
		tbl.AddRow(
			h.Name,
			statusColor(h.Status),
			fmt.Sprintf("%.0f%%", h.SuccessRate),
			ms(h.Latency.P50),
			ms(h.Latency.P95),
			ms(h.Latency.Max),
			h.BlockHeight,
			lag(h.BlockDelta),
			note,
		)
	}
	tbl.Print()
	fmt.Fprintln(w)

	heights := make(map[uint64][]string)
	for _, h := range f.Ranked {
		if h.SuccessRate > 0 {
			heights[h.BlockHeight] = append(heights[h.BlockHeight], h.Name)
		}
	}
	if len(heights) > 1 {
		fmt.Fprintln(w, yellow("⚠ BLOCK HEIGHT MISMATCH DETECTED:"))
		for height, names := range heights {
			fmt.Fprintf(w, "  Height %d  →  %v\n", height, names)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func statusColor(s string) string {
	switch s {
	case provider.StatusUp:
		return green(s)
	case provider.StatusSlow, provider.StatusDegraded:
		return yellow(s)
	default:
		return red(s)
	}
}

func ms(d time.Duration) string {
	if d == 0 {
		return "—"
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}

func lag(delta uint64) string {
	if delta == 0 {
		return "—"
	}
	return fmt.Sprintf("-%d", delta)
}
