package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/dmagro/blockscan/internal/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve the block explorer dashboard. Every browser session gets its own view
of the latest blocks; clicking a block loads its transactions.

Examples:
  blockscan serve
  blockscan serve --addr 127.0.0.1:9000 --provider auto`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := setup(flags)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			client, err := a.client(ctx, flags.provider)
			if err != nil {
				return err
			}

			if a.cfg.Log.Level != "debug" && flags.logLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			srv := server.New(ctx, a.fetcher(client), server.Options{
				Addr:        addr,
				SessionTTL:  a.cfg.Server.SessionTTL,
				MaxSessions: a.cfg.Server.MaxSessions,
				Provider:    client.Name(),
				View:        a.viewOptions(),
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to config)")
	return cmd
}
