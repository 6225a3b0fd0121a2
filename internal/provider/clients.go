package provider

import (
	"github.com/dmagro/blockscan/internal/config"
	"github.com/dmagro/blockscan/internal/rpc"
)

// ClientConfig merges a provider entry with the shared defaults.
func ClientConfig(cfg *config.Config, p config.Provider) rpc.ClientConfig {
	timeout := p.Timeout
	if timeout == 0 {
		timeout = cfg.Defaults.Timeout
	}
	return rpc.ClientConfig{
		Name:           p.Name,
		URL:            p.URL,
		Timeout:        timeout,
		MaxRetries:     cfg.Defaults.MaxRetries,
		BackoffInitial: cfg.Defaults.BackoffInitial,
		BackoffMax:     cfg.Defaults.BackoffMax,
	}
}

// Client returns the pooled client for p.
func Client(pool *rpc.ClientPool, cfg *config.Config, p config.Provider) *rpc.Client {
	return pool.GetOrCreate(ClientConfig(cfg, p))
}
