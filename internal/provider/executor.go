// Package provider wires configured RPC endpoints into clients and probes them.
//
// Commands fan the same call out across every configured provider, collect
// per-provider results and keep going when some of them fail.
package provider

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dmagro/blockscan/internal/config"
)

// Result wraps a provider response with metadata.
type Result[T any] struct {
	ProviderName string
	Index        int
	Value        T
	Err          error
}

// ExecuteAll runs fn concurrently for each provider and collects results in
// provider order. It never fails fast: every provider is attempted and its
// error is recorded in its Result.
func ExecuteAll[T any](
	ctx context.Context,
	providers []config.Provider,
	fn func(ctx context.Context, p config.Provider) (T, error),
) []Result[T] {
	results := make([]Result[T], len(providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			val, err := fn(gctx, p)
			results[i] = Result[T]{
				ProviderName: p.Name,
				Index:        i,
				Value:        val,
				Err:          err,
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
