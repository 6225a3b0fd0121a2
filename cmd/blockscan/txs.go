package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/display"
)

func txsCmd(flags *globalFlags) *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "txs [latest|HASH]",
		Short: "List transactions in a block",
		Long: `List the transactions of a block, in on-chain order.

Examples:
  blockscan txs latest
  blockscan txs 0x... --limit 10
  blockscan txs 0x... --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := setup(flags)
			if err != nil {
				return err
			}

			// Full transaction lists are large.
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Defaults.Timeout*2)
			defer cancel()

			client, err := a.client(ctx, flags.provider)
			if err != nil {
				return err
			}
			fetcher := a.fetcher(client)

			hash := args[0]
			if strings.EqualFold(hash, "latest") {
				head, err := fetcher.FetchLatestBlocks(ctx, 1)
				if err != nil {
					return fmt.Errorf("failed to resolve latest block: %w", err)
				}
				hash = head[0].Hash
			}

			start := time.Now()
			block, txs, err := fetcher.FetchBlock(ctx, hash)
			latency := time.Since(start)
			if err != nil {
				return fmt.Errorf("failed to fetch block: %w", err)
			}

			if format == "json" {
				return writeJSON(os.Stdout, struct {
					Block        chain.Block         `json:"block"`
					Transactions []chain.Transaction `json:"transactions"`
				}{block, txs})
			}

			bf := &display.BlockFormatter{Block: block, Provider: client.Name(), Latency: latency}
			if err := bf.Format(os.Stdout); err != nil {
				return err
			}
			return (&display.TransactionsFormatter{Transactions: txs, Limit: limit}).Format(os.Stdout)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum transactions to display (0 for all)")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|json")
	return cmd
}
