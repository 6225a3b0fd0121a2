package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmagro/blockscan/internal/display"
)

func blocksCmd(flags *globalFlags) *cobra.Command {
	var (
		count  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Print the latest blocks once",
		Long: `Fetch the most recent blocks, head first, and print them.

Examples:
  blockscan blocks
  blockscan blocks --count 5 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			a, err := setup(flags)
			if err != nil {
				return err
			}
			if count <= 0 {
				count = a.cfg.Dashboard.BlockCount
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Defaults.Timeout*2)
			defer cancel()

			client, err := a.client(ctx, flags.provider)
			if err != nil {
				return err
			}

			blocks, err := a.fetcher(client).FetchLatestBlocks(ctx, count)
			if err != nil {
				return fmt.Errorf("failed to fetch blocks: %w", err)
			}

			if format == "json" {
				return writeJSON(os.Stdout, blocks)
			}
			return (&display.BlocksFormatter{Blocks: blocks}).Format(os.Stdout)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "Number of blocks (defaults to dashboard.block_count)")
	cmd.Flags().StringVar(&format, "format", "terminal", "Output format: terminal|json")
	return cmd
}
