package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/metrics"
)

var (
	ErrNotReady    = errors.New("blocks not loaded yet")
	ErrInvalidHash = errors.New("invalid block hash")
	ErrNotMounted  = errors.New("view not mounted")
)

const DefaultBlockCount = 20

type RevalidateConfig struct {
	Enabled  bool
	Interval time.Duration
}

type Options struct {
	// BlockCount is the number of latest blocks shown. Defaults to DefaultBlockCount.
	BlockCount int
	Revalidate RevalidateConfig
	// FetchTimeout bounds a single fetch. Zero means no bound beyond the session.
	FetchTimeout time.Duration
}

type lifecycle int

const (
	created lifecycle = iota
	mounted
	unmounted
)

// Synchronizer drives one ViewState.
type Synchronizer struct {
	fetcher chain.Fetcher
	opts    Options

	mu          sync.Mutex
	phase       lifecycle
	state       ViewState
	blocksToken uint64
	txToken     uint64
	cancelTx    context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	wg      sync.WaitGroup
	changes chan struct{}
}

func New(fetcher chain.Fetcher, opts Options) *Synchronizer {
	if opts.BlockCount <= 0 {
		opts.BlockCount = DefaultBlockCount
	}
	return &Synchronizer{
		fetcher: fetcher,
		opts:    opts,
		changes: make(chan struct{}, 1),
	}
}

// Mount starts the first block fetch. The synchronizer stays alive until ctx is
// done or Unmount is called. Mounting twice is a no-op.
func (s *Synchronizer) Mount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case mounted:
		return nil
	case unmounted:
		return ErrNotMounted
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.phase = mounted
	s.fetchBlocksLocked()
	return nil
}

// Refresh refetches the latest blocks. It serves both periodic revalidation and
// a manual retry after a failed block fetch. Any older block fetch still in
// flight is superseded.
func (s *Synchronizer) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != mounted {
		return ErrNotMounted
	}
	s.fetchBlocksLocked()
	return nil
}

// Select makes hash the explicit selection and fetches its transactions.
// Re-selecting the block whose transactions are loaded or loading does not
// fetch again.
//
// Any transaction fetch still in flight is cancelled and its response, if it
// arrives anyway, is discarded. The previous transactions stay in the state
// until the new ones land; TransactionsStale reports that window. An explicit
// selection survives later block refreshes even when the block scrolls out of
// the list.
//
// Parameters:
//   - hash: 0x-prefixed 32-byte block hash, matched case-insensitively
//
// Returns:
//   - ErrInvalidHash: hash is not a well-formed block hash
//   - ErrNotReady: no block list has loaded yet
//   - ErrNotMounted: the view is not mounted
func (s *Synchronizer) Select(hash string) error {
	if !isBlockHash(hash) {
		return ErrInvalidHash
	}
	hash = strings.ToLower(hash)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != mounted {
		return ErrNotMounted
	}
	if s.state.Blocks == nil {
		return ErrNotReady
	}

	s.state.ExplicitSelection = true
	if hash == s.state.SelectedBlockHash &&
		(s.state.TransactionsStatus == StatusLoading || s.state.TransactionsStatus == StatusReady) {
		s.notifyLocked()
		return nil
	}
	s.state.SelectedBlockHash = hash
	s.fetchTransactionsLocked(hash)
	return nil
}

// RetryTransactions refetches transactions for the current selection.
func (s *Synchronizer) RetryTransactions() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != mounted {
		return ErrNotMounted
	}
	if s.state.SelectedBlockHash == "" {
		return ErrNotReady
	}
	s.fetchTransactionsLocked(s.state.SelectedBlockHash)
	return nil
}

// Snapshot returns a copy of the current state that is safe to render while
// fetches continue.
func (s *Synchronizer) Snapshot() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Changes delivers a value after state changes. Notifications coalesce, so a
// reader always calls Snapshot for the latest state. The channel is closed on
// Unmount.
func (s *Synchronizer) Changes() <-chan struct{} {
	return s.changes
}

// Run refreshes on the revalidation interval until ctx is done or the view is
// unmounted. Call it after Mount. With revalidation disabled it only waits.
func (s *Synchronizer) Run(ctx context.Context) {
	s.mu.Lock()
	done := s.doneLocked()
	s.mu.Unlock()

	if !s.opts.Revalidate.Enabled || s.opts.Revalidate.Interval <= 0 {
		select {
		case <-ctx.Done():
		case <-done:
		}
		return
	}

	ticker := time.NewTicker(s.opts.Revalidate.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if err := s.Refresh(); err != nil {
				return
			}
		}
	}
}

// Unmount cancels in-flight fetches and waits for their goroutines. Results
// arriving afterwards are dropped.
func (s *Synchronizer) Unmount() {
	s.mu.Lock()
	if s.phase != mounted {
		if s.phase == created {
			s.phase = unmounted
			close(s.changes)
		}
		s.mu.Unlock()
		return
	}
	s.phase = unmounted
	s.cancel()
	close(s.changes)
	s.mu.Unlock()

	s.wg.Wait()
}

// Wait blocks until every fetch started so far has been applied or dropped.
func (s *Synchronizer) Wait() {
	s.wg.Wait()
}

func (s *Synchronizer) doneLocked() <-chan struct{} {
	if s.ctx == nil {
		ch := make(chan struct{})
		if s.phase == unmounted {
			close(ch)
		}
		return ch
	}
	return s.ctx.Done()
}

func (s *Synchronizer) fetchContextLocked() (context.Context, context.CancelFunc) {
	if s.opts.FetchTimeout > 0 {
		return context.WithTimeout(s.ctx, s.opts.FetchTimeout)
	}
	return context.WithCancel(s.ctx)
}

func (s *Synchronizer) fetchBlocksLocked() {
	s.blocksToken++
	token := s.blocksToken
	ctx, cancel := s.fetchContextLocked()
	count := s.opts.BlockCount

	s.state.BlocksStatus = StatusLoading
	s.notifyLocked()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		blocks, err := s.fetcher.FetchLatestBlocks(ctx, count)
		s.applyBlocks(token, blocks, err)
	}()
}

func (s *Synchronizer) applyBlocks(token uint64, blocks []chain.Block, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != mounted {
		return
	}
	if token != s.blocksToken {
		metrics.StaleResponses.WithLabelValues("blocks").Inc()
		log.Debug().Uint64("token", token).Uint64("latest", s.blocksToken).Msg("dropping superseded block response")
		return
	}

	if err != nil {
		s.state.BlocksStatus = StatusFailed
		s.state.BlocksErr = err
		log.Warn().Err(err).Msg("block fetch failed")
		s.notifyLocked()
		return
	}

	if blocks == nil {
		blocks = []chain.Block{}
	}
	s.state.Blocks = blocks
	s.state.BlocksStatus = StatusReady
	s.state.BlocksErr = nil

	if !s.state.ExplicitSelection && len(blocks) > 0 && blocks[0].Hash != s.state.SelectedBlockHash {
		s.state.SelectedBlockHash = blocks[0].Hash
		s.fetchTransactionsLocked(blocks[0].Hash)
		return
	}
	s.notifyLocked()
}

func (s *Synchronizer) fetchTransactionsLocked(hash string) {
	if s.cancelTx != nil {
		s.cancelTx()
	}
	s.txToken++
	token := s.txToken
	ctx, cancel := s.fetchContextLocked()
	s.cancelTx = cancel

	s.state.TransactionsStatus = StatusLoading
	s.state.TransactionsErr = nil
	s.notifyLocked()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		txs, err := s.fetcher.FetchTransactionsForBlock(ctx, hash)
		s.applyTransactions(token, hash, txs, err)
	}()
}

func (s *Synchronizer) applyTransactions(token uint64, hash string, txs []chain.Transaction, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != mounted {
		return
	}
	if token != s.txToken || hash != s.state.SelectedBlockHash {
		metrics.StaleResponses.WithLabelValues("transactions").Inc()
		log.Debug().Str("block", hash).Str("selected", s.state.SelectedBlockHash).Msg("dropping superseded transaction response")
		return
	}
	s.cancelTx = nil

	if err != nil {
		s.state.TransactionsStatus = StatusFailed
		s.state.TransactionsErr = err
		log.Warn().Err(err).Str("block", hash).Msg("transaction fetch failed")
		s.notifyLocked()
		return
	}

	if txs == nil {
		txs = []chain.Transaction{}
	}
	s.state.Transactions = txs
	s.state.TransactionsBlockHash = hash
	s.state.TransactionsStatus = StatusReady
	s.notifyLocked()
}

// notifyLocked stamps the state and signals readers without blocking.
func (s *Synchronizer) notifyLocked() {
	s.state.UpdatedAt = time.Now()
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// isBlockHash reports whether h is 0x followed by 64 hex digits.
func isBlockHash(h string) bool {
	if len(h) != 66 {
		return false
	}
	b, err := hexutil.Decode(h)
	return err == nil && len(b) == 32
}
