package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/config"
	"github.com/dmagro/blockscan/internal/env"
	blog "github.com/dmagro/blockscan/internal/log"
	"github.com/dmagro/blockscan/internal/provider"
	"github.com/dmagro/blockscan/internal/rpc"
	"github.com/dmagro/blockscan/internal/view"
)

type app struct {
	cfg  *config.Config
	pool *rpc.ClientPool
}

// setup loads .env and the config file, then initializes logging.
func setup(flags *globalFlags) (*app, error) {
	env.Load()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	blog.InitLogger(level, cfg.Log.Pretty)

	return &app{cfg: cfg, pool: rpc.NewClientPool()}, nil
}

// client returns the named provider's client. "auto" runs a quick health check
// and picks the best provider.
func (a *app) client(ctx context.Context, name string) (*rpc.Client, error) {
	if name == autoProvider {
		checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		ranked, err := provider.Check(checkCtx, a.pool, a.cfg, provider.CheckOptions{Samples: 3})
		if err != nil {
			return nil, err
		}
		best, err := ranked.Best()
		if err != nil {
			log.Warn().Err(err).Msg("provider auto-selection")
		}
		log.Info().Str("provider", best.Name).Str("status", best.Status).Msg("auto-selected provider")
		name = best.Name
	}

	p, err := a.cfg.Provider(name)
	if err != nil {
		return nil, err
	}
	return provider.Client(a.pool, a.cfg, p), nil
}

func (a *app) fetcher(c *rpc.Client) *chain.RPCFetcher {
	return chain.NewRPCFetcher(c, a.cfg.Defaults.Concurrency)
}

func (a *app) viewOptions() view.Options {
	d := a.cfg.Dashboard
	return view.Options{
		BlockCount: d.BlockCount,
		Revalidate: view.RevalidateConfig{
			Enabled:  d.Revalidate.Enabled,
			Interval: d.Revalidate.Interval,
		},
		FetchTimeout: d.FetchTimeout,
	}
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func checkFormat(format string) error {
	if format != "terminal" && format != "json" {
		return fmt.Errorf("unknown format %q (expected terminal or json)", format)
	}
	return nil
}
