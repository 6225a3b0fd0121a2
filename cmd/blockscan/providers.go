package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/blockscan/internal/display"
	"github.com/dmagro/blockscan/internal/provider"
	"github.com/dmagro/blockscan/internal/reports"
)

func providersCmd(flags *globalFlags) *cobra.Command {
	var (
		samples int
		report  bool
	)

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Probe every configured provider",
		Long: `Sample eth_blockNumber on every configured provider and rank them by success
rate, latency and freshness.

Examples:
  blockscan providers
  blockscan providers --samples 10 --report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}

			budget := a.cfg.Defaults.Timeout*time.Duration(samples) + 5*time.Second
			ctx, cancel := context.WithTimeout(cmd.Context(), budget)
			defer cancel()

			fmt.Printf("Probing %d providers (%d samples each)...\n\n", len(a.cfg.Providers), samples)
			ranked, err := provider.Check(ctx, a.pool, a.cfg, provider.CheckOptions{Samples: samples})
			if err != nil {
				return err
			}
			if err := (&display.ProvidersFormatter{Ranked: ranked}).Format(os.Stdout); err != nil {
				return err
			}

			if report {
				now := time.Now()
				path, err := reports.WriteJSON(reports.DefaultDir, "providers", reports.NewProvidersReport(ranked, samples, now), now)
				if err != nil {
					return err
				}
				fmt.Printf("Report written to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 5, "eth_blockNumber calls per provider")
	cmd.Flags().BoolVar(&report, "report", false, "Also write a JSON report to reports/")
	return cmd
}
