// Package view keeps the dashboard's view state in sync with asynchronous block
// and transaction fetches.
//
// A Synchronizer owns exactly one ViewState per page session. Fetches run in
// their own goroutines; every completion and every user event is applied under
// the synchronizer's lock, so state transitions are serialized the same way a
// single UI thread would serialize them. Responses that a newer request has
// superseded are dropped on arrival.
package view

import (
	"time"

	"github.com/dmagro/blockscan/internal/chain"
)

// Status is the load state of one half of the view.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Phase names the state machine position derived from a ViewState.
type Phase string

const (
	PhaseInit                Phase = "init"
	PhaseBlocksLoading       Phase = "blocks_loading"
	PhaseBlocksFailed        Phase = "blocks_failed"
	PhaseBlocksReady         Phase = "blocks_ready"
	PhaseTransactionsLoading Phase = "transactions_loading"
	PhaseTransactionsReady   Phase = "transactions_ready"
	PhaseTransactionsFailed  Phase = "transactions_failed"
)

// ViewState is what the render layer sees.
//
// Blocks and Transactions are nil while they have never loaded. A failed fetch
// leaves the previous value in place; TransactionsBlockHash says which block the
// current Transactions belong to, which differs from SelectedBlockHash while a
// new selection is loading.
type ViewState struct {
	Blocks                []chain.Block       `json:"blocks"`
	SelectedBlockHash     string              `json:"selectedBlockHash,omitempty"`
	ExplicitSelection     bool                `json:"explicitSelection"`
	Transactions          []chain.Transaction `json:"transactions"`
	TransactionsBlockHash string              `json:"transactionsBlockHash,omitempty"`

	BlocksStatus       Status `json:"blocksStatus"`
	TransactionsStatus Status `json:"transactionsStatus"`
	BlocksErr          error  `json:"-"`
	TransactionsErr    error  `json:"-"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Phase reports the state machine position. Block loading and failure take
// precedence while no blocks are available.
func (v ViewState) Phase() Phase {
	if v.Blocks == nil {
		switch v.BlocksStatus {
		case StatusLoading:
			return PhaseBlocksLoading
		case StatusFailed:
			return PhaseBlocksFailed
		}
		if v.SelectedBlockHash == "" {
			return PhaseInit
		}
	}

	switch v.TransactionsStatus {
	case StatusLoading:
		return PhaseTransactionsLoading
	case StatusReady:
		return PhaseTransactionsReady
	case StatusFailed:
		return PhaseTransactionsFailed
	}
	return PhaseBlocksReady
}

// SelectedBlock returns the selected block when it is in the current list.
func (v ViewState) SelectedBlock() (chain.Block, bool) {
	for _, b := range v.Blocks {
		if b.Hash == v.SelectedBlockHash {
			return b, true
		}
	}
	return chain.Block{}, false
}

// TransactionsStale reports whether the visible transactions belong to a block
// other than the selected one.
func (v ViewState) TransactionsStale() bool {
	return v.Transactions != nil && v.TransactionsBlockHash != v.SelectedBlockHash
}

func (v ViewState) clone() ViewState {
	out := v
	if v.Blocks != nil {
		out.Blocks = append(make([]chain.Block, 0, len(v.Blocks)), v.Blocks...)
	}
	if v.Transactions != nil {
		out.Transactions = append(make([]chain.Transaction, 0, len(v.Transactions)), v.Transactions...)
	}
	return out
}
