package display

import (
	"fmt"
	"io"
	"time"

	"github.com/dmagro/blockscan/internal/view"
)

// ViewFormatter renders a full dashboard snapshot: header, blocks table and the
// transactions of the selected block. Loading and failure states are shown in
// place of the affected table only.
type ViewFormatter struct {
	State    view.ViewState
	Provider string
	Interval time.Duration
	TxLimit  int
	Now      time.Time
}

func (f *ViewFormatter) Format(w io.Writer) error {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	s := f.State

	fmt.Fprintln(w, bold("BlockScan")+faint(fmt.Sprintf("  provider: %s", f.Provider)))
	if f.Interval > 0 {
		fmt.Fprintln(w, faint(fmt.Sprintf("revalidating every %s, Ctrl+C to exit", f.Interval)))
	} else {
		fmt.Fprintln(w, faint("Ctrl+C to exit"))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, bold("Latest blocks"))
	switch {
	case s.Blocks == nil && s.BlocksStatus == view.StatusFailed:
		fmt.Fprintf(w, "%s %v\n\n", red("Failed to load blocks:"), s.BlocksErr)
		return nil
	case s.Blocks == nil:
		fmt.Fprintln(w, yellow("Loading blocks…"))
		fmt.Fprintln(w)
		return nil
	}
	if s.BlocksStatus == view.StatusFailed {
		fmt.Fprintf(w, "%s %v\n", yellow("Refresh failed, showing previous blocks:"), s.BlocksErr)
	}
	if err := (&BlocksFormatter{Blocks: s.Blocks, Selected: s.SelectedBlockHash, Now: now}).Format(w); err != nil {
		return err
	}

	title := "Transactions"
	if b, ok := s.SelectedBlock(); ok {
		title = fmt.Sprintf("Transactions in block #%d", b.Number)
	}
	fmt.Fprintln(w, bold(title))

	switch s.TransactionsStatus {
	case view.StatusFailed:
		fmt.Fprintf(w, "%s %v\n\n", red("Failed to load transactions:"), s.TransactionsErr)
		return nil
	case view.StatusLoading:
		fmt.Fprintln(w, yellow("Loading transactions…"))
		if s.Transactions == nil {
			fmt.Fprintln(w)
			return nil
		}
	}
	if s.Transactions == nil {
		fmt.Fprintln(w)
		return nil
	}
	return (&TransactionsFormatter{Transactions: s.Transactions, Limit: f.TxLimit}).Format(w)
}
