package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/blockscan/internal/display"
	"github.com/dmagro/blockscan/internal/view"
)

func watchCmd(flags *globalFlags) *cobra.Command {
	var (
		block    string
		interval time.Duration
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live terminal dashboard",
		Long: `Show the latest blocks and the transactions of the selected block, redrawn
whenever the view changes.

Examples:
  blockscan watch
  blockscan watch --interval 12s
  blockscan watch --block 0x...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := setup(flags)
			if err != nil {
				return err
			}
			client, err := a.client(ctx, flags.provider)
			if err != nil {
				return err
			}

			opts := a.viewOptions()
			if interval > 0 {
				opts.Revalidate = view.RevalidateConfig{Enabled: true, Interval: interval}
			}

			v := view.New(a.fetcher(client), opts)
			if err := v.Mount(ctx); err != nil {
				return err
			}
			defer v.Unmount()
			go v.Run(ctx)

			var shown time.Duration
			if opts.Revalidate.Enabled {
				shown = opts.Revalidate.Interval
			}
			render := func() {
				display.Clear(os.Stdout)
				f := &display.ViewFormatter{
					State:    v.Snapshot(),
					Provider: client.Name(),
					Interval: shown,
					TxLimit:  limit,
				}
				_ = f.Format(os.Stdout)
			}

			// Ages change every second even when nothing else does.
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			pending := block
			for {
				select {
				case <-ctx.Done():
					fmt.Println("\nExiting...")
					return nil
				case _, ok := <-v.Changes():
					if !ok {
						return nil
					}
					if pending != "" {
						err := v.Select(pending)
						switch {
						case err == nil:
							pending = ""
						case !errors.Is(err, view.ErrNotReady):
							return err
						}
					}
					render()
				case <-ticker.C:
					render()
				}
			}
		},
	}

	cmd.Flags().StringVar(&block, "block", "", "Select this block hash once blocks are loaded")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Revalidation interval (defaults to config)")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum transactions to display (0 for all)")
	return cmd
}
