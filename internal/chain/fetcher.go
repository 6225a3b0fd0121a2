package chain

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dmagro/blockscan/internal/metrics"
	"github.com/dmagro/blockscan/internal/rpc"
)

// Provider is the subset of *rpc.Client the fetcher depends on.
type Provider interface {
	Name() string
	BlockNumber(ctx context.Context) (uint64, time.Duration, error)
	BlockByNumber(ctx context.Context, number uint64) (*rpc.Block, error)
	BlockByHash(ctx context.Context, hash string, fullTx bool) (*rpc.Block, error)
}

// RPCFetcher implements Fetcher on top of a JSON-RPC provider. It keeps no cache.
type RPCFetcher struct {
	provider    Provider
	concurrency int
}

// NewRPCFetcher builds a fetcher. concurrency bounds the number of block
// requests in flight during FetchLatestBlocks; zero or less means unbounded.
func NewRPCFetcher(provider Provider, concurrency int) *RPCFetcher {
	return &RPCFetcher{
		provider:    provider,
		concurrency: concurrency,
	}
}

// FetchLatestBlocks resolves the chain head and requests the count blocks ending
// at it in parallel. The result is ordered head first. Any failed lookup fails
// the whole batch with a *ProviderError. Block numbers are not checked for gaps.
//
// When the chain is shorter than count, blocks down to genesis are returned.
//
// Algorithm:
//  1. eth_blockNumber gives the head H
//  2. eth_getBlockByNumber(H-i, false) for i in [0, count), bounded by the
//     fetcher's concurrency through an errgroup
//  3. the first failure cancels the remaining lookups and is returned
//
// Parameters:
//   - ctx: bounds the whole batch; cancellation aborts every lookup
//   - count: number of blocks wanted; zero or less is an error
//
// Returns:
//   - []Block: exactly min(count, H+1) blocks, newest first
//   - error: *ProviderError naming the failed lookup
func (f *RPCFetcher) FetchLatestBlocks(ctx context.Context, count int) ([]Block, error) {
	if count <= 0 {
		return nil, fmt.Errorf("block count must be > 0, got %d", count)
	}

	start := time.Now()
	blocks, err := f.fetchLatestBlocks(ctx, count)
	observe("latest_blocks", start, err)
	return blocks, err
}

func (f *RPCFetcher) fetchLatestBlocks(ctx context.Context, count int) ([]Block, error) {
	head, _, err := f.provider.BlockNumber(ctx)
	if err != nil {
		return nil, providerError("head", "", err)
	}
	metrics.ChainHead.Set(float64(head))

	n := uint64(count)
	if head+1 < n {
		n = head + 1
	}

	blocks := make([]Block, n)
	g, gctx := errgroup.WithContext(ctx)
	if f.concurrency > 0 {
		g.SetLimit(f.concurrency)
	}

	for i := uint64(0); i < n; i++ {
		i := i
		number := head - i
		g.Go(func() error {
			b, err := f.provider.BlockByNumber(gctx, number)
			if err != nil {
				return providerError("block", strconv.FormatUint(number, 10), err)
			}
			// Each goroutine owns its slot; no lock needed.
			blocks[i] = toBlock(b)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("provider", f.provider.Name()).
		Uint64("head", head).
		Int("count", len(blocks)).
		Msg("fetched latest blocks")
	return blocks, nil
}

// FetchTransactionsForBlock requests the block identified by blockHash with its
// full transaction list.
func (f *RPCFetcher) FetchTransactionsForBlock(ctx context.Context, blockHash string) ([]Transaction, error) {
	start := time.Now()
	_, txs, err := f.fetchBlock(ctx, "transactions", blockHash)
	observe("transactions", start, err)
	return txs, err
}

// FetchBlock returns the block summary together with its transactions.
func (f *RPCFetcher) FetchBlock(ctx context.Context, blockHash string) (Block, []Transaction, error) {
	start := time.Now()
	b, txs, err := f.fetchBlock(ctx, "block", blockHash)
	observe("block", start, err)
	return b, txs, err
}

func (f *RPCFetcher) fetchBlock(ctx context.Context, op, blockHash string) (Block, []Transaction, error) {
	b, err := f.provider.BlockByHash(ctx, blockHash, true)
	if err != nil {
		return Block{}, nil, providerError(op, blockHash, err)
	}

	txs := make([]Transaction, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = Transaction{
			Hash:  tx.Hash,
			Index: tx.Index,
			From:  tx.From,
			To:    tx.To,
			Value: tx.Value,
			Input: tx.Input,
		}
	}

	log.Debug().
		Str("provider", f.provider.Name()).
		Str("block", blockHash).
		Int("count", len(txs)).
		Msg("fetched block transactions")
	return toBlock(b), txs, nil
}

func toBlock(b *rpc.Block) Block {
	return Block{
		Number:           b.Number,
		Hash:             b.Hash,
		ParentHash:       b.ParentHash,
		Miner:            b.Miner,
		Timestamp:        b.Timestamp,
		GasUsed:          b.GasUsed,
		GasLimit:         b.GasLimit,
		BaseFeePerGas:    b.BaseFeePerGas,
		TransactionCount: b.TxCount,
	}
}

func observe(op string, start time.Time, err error) {
	metrics.FetchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchFailures.WithLabelValues(op).Inc()
	}
}
