package display

import (
	"fmt"
	"io"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/format"
)

// TransactionsFormatter renders a block's transactions. Limit caps the rows
// shown; zero shows all.
type TransactionsFormatter struct {
	Transactions []chain.Transaction
	Limit        int
}

func (f *TransactionsFormatter) Format(w io.Writer) error {
	if len(f.Transactions) == 0 {
		fmt.Fprintln(w, faint("No transactions in this block."))
		fmt.Fprintln(w)
		return nil
	}

	rows := f.Transactions
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}

	tbl := newTable(w, "#", "Hash", "From", "To", "Value (ETH)", "Method")
	for _, tx := range rows {
		to := format.FormatAddress(tx.To)
		if tx.To != nil {
			to = format.TruncateAddress(*tx.To)
		}
		tbl.AddRow(
			tx.Index,
			format.TruncateHash(tx.Hash),
			format.TruncateAddress(tx.From),
			to,
			format.FormatTokenAmount(tx.Value),
			format.MethodLabel(tx.Input),
		)
	}
	tbl.Print()

	if hidden := len(f.Transactions) - len(rows); hidden > 0 {
		fmt.Fprintln(w, faint(fmt.Sprintf("… %d more", hidden)))
	}
	fmt.Fprintln(w)
	return nil
}
