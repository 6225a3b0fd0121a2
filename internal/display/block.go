package display

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/format"
)

// BlockFormatter formats a single block header for terminal display.
type BlockFormatter struct {
	Block    chain.Block
	Provider string
	Latency  time.Duration
	Now      time.Time
}

// Format writes the formatted block output to w.
func (f *BlockFormatter) Format(w io.Writer) error {
	b := f.Block
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold(fmt.Sprintf("Block #%s", format.FormatNumber(b.Number))))
	fmt.Fprintln(w, "═══════════════════════════════════════════════════")
	fmt.Fprintf(w, "  %s         %s\n", cyan("Hash:"), b.Hash)
	fmt.Fprintf(w, "  %s       %s\n", cyan("Parent:"), b.ParentHash)
	fmt.Fprintf(w, "  %s        %s\n", cyan("Miner:"), format.TruncateAddress(b.Miner))
	fmt.Fprintf(w, "  %s    %s (%s)\n", cyan("Timestamp:"),
		time.Unix(int64(b.Timestamp), 0).UTC().Format("2006-01-02 15:04:05 UTC"),
		format.FormatRelativeTimeAt(b.Timestamp, now))
	fmt.Fprintf(w, "  %s          %s / %s (%s)\n", cyan("Gas:"),
		format.FormatBigNumber(b.GasUsed),
		format.FormatBigNumber(b.GasLimit),
		gasPercent(b.GasUsed, b.GasLimit))
	fmt.Fprintf(w, "  %s     %s\n", cyan("Base Fee:"), format.FormatGwei(b.BaseFeePerGas))
	fmt.Fprintf(w, "  %s %d\n", cyan("Transactions:"), b.TransactionCount)
	if f.Provider != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s  %s (%dms)\n", cyan("Fetched via:"), f.Provider, f.Latency.Milliseconds())
	}
	fmt.Fprintln(w)

	return nil
}

func gasPercent(used, limit *big.Int) string {
	if used == nil || limit == nil || limit.Sign() == 0 {
		return "—"
	}
	pct, _ := new(big.Rat).SetFrac(new(big.Int).Mul(used, big.NewInt(1000)), limit).Float64()
	return fmt.Sprintf("%.1f%%", pct/10)
}
