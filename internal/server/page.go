package server

import (
	"embed"
	"html/template"
	"time"

	"github.com/dmagro/blockscan/internal/format"
	"github.com/dmagro/blockscan/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type blockRow struct {
	Index    int
	Number   string
	Age      string
	GasUsed  string
	TxCount  int
	Hash     string
	Short    string
	Selected bool
}

type txRow struct {
	Hash   string
	From   string
	To     string
	Value  string
	Method string
}

type page struct {
	Title    string
	Provider string
	// Refresh is the meta refresh delay in seconds, zero for none.
	Refresh int

	BlocksLoading bool
	BlocksError   string
	Blocks        []blockRow

	HasSelection  bool
	SelectedLabel string
	TxLoading     bool
	TxError       string
	TxStale       bool
	Transactions  []txRow
	TxLoaded      bool
}

func newPage(v view.ViewState, opts Options) page {
	now := time.Now()
	p := page{
		Title:    "BlockScan",
		Provider: opts.Provider,
	}

	switch {
	case v.BlocksStatus == view.StatusLoading || v.TransactionsStatus == view.StatusLoading:
		p.Refresh = 1
	case opts.View.Revalidate.Enabled:
		p.Refresh = max(int(opts.View.Revalidate.Interval.Seconds()), 1)
	}

	p.BlocksLoading = v.Blocks == nil && v.BlocksStatus != view.StatusFailed
	if v.BlocksErr != nil {
		p.BlocksError = v.BlocksErr.Error()
	}
	for i, b := range v.Blocks {
		p.Blocks = append(p.Blocks, blockRow{
			Index:    i,
			Number:   format.FormatNumber(b.Number),
			Age:      format.FormatRelativeTimeAt(b.Timestamp, now),
			GasUsed:  format.FormatBigNumber(b.GasUsed),
			TxCount:  b.TransactionCount,
			Hash:     b.Hash,
			Short:    format.TruncateHash(b.Hash),
			Selected: b.Hash == v.SelectedBlockHash,
		})
	}

	if v.SelectedBlockHash != "" {
		p.HasSelection = true
		p.SelectedLabel = format.TruncateHash(v.SelectedBlockHash)
		if b, ok := v.SelectedBlock(); ok {
			p.SelectedLabel = "#" + format.FormatNumber(b.Number)
		}
	}

	p.TxLoading = v.TransactionsStatus == view.StatusLoading
	if v.TransactionsStatus == view.StatusFailed && v.TransactionsErr != nil {
		p.TxError = v.TransactionsErr.Error()
	}
	p.TxStale = v.TransactionsStale()
	p.TxLoaded = v.Transactions != nil
	for _, tx := range v.Transactions {
		p.Transactions = append(p.Transactions, txRow{
			Hash:   format.TruncateHash(tx.Hash),
			From:   format.TruncateAddress(tx.From),
			To:     format.FormatAddress(tx.To),
			Value:  format.FormatTokenAmount(tx.Value),
			Method: format.MethodLabel(tx.Input),
		})
	}

	return p
}
