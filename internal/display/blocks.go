package display

import (
	"fmt"
	"io"
	"time"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/format"
)

// BlocksFormatter renders the latest blocks table. The row whose hash equals
// Selected is marked.
type BlocksFormatter struct {
	Blocks   []chain.Block
	Selected string
	Now      time.Time
}

func (f *BlocksFormatter) Format(w io.Writer) error {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}

	tbl := newTable(w, "", "#", "Block", "Age", "Gas Used", "Txs", "Hash")
	for i, b := range f.Blocks {
		marker := " "
		if b.Hash == f.Selected {
			marker = green("▶")
		}
		tbl.AddRow(
			marker,
			i,
			format.FormatNumber(b.Number),
			format.FormatRelativeTimeAt(b.Timestamp, now),
			format.FormatBigNumber(b.GasUsed),
			b.TransactionCount,
			format.TruncateHash(b.Hash),
		)
	}
	tbl.Print()
	fmt.Fprintln(w)
	return nil
}
