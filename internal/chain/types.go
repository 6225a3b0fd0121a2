// Package chain is the dashboard's data fetcher. It turns provider calls into
// the two reads the view needs: the N most recent blocks and the transactions of
// one block.
package chain

import (
	"context"
	"math/big"
)

// Block is an immutable block summary, identified by Hash.
type Block struct {
	Number           uint64   `json:"number"`
	Hash             string   `json:"hash"`
	ParentHash       string   `json:"parentHash"`
	Miner            string   `json:"miner"`
	Timestamp        uint64   `json:"timestamp"`
	GasUsed          *big.Int `json:"gasUsed"`
	GasLimit         *big.Int `json:"gasLimit"`
	BaseFeePerGas    *big.Int `json:"baseFeePerGas,omitempty"`
	TransactionCount int      `json:"transactionCount"`
}

// Transaction is an immutable transaction belonging to exactly one block.
// To is nil for contract creations.
type Transaction struct {
	Hash  string   `json:"hash"`
	Index uint64   `json:"index"`
	From  string   `json:"from"`
	To    *string  `json:"to"`
	Value *big.Int `json:"value"`
	Input string   `json:"input,omitempty"`
}

// Fetcher retrieves chain data for the view.
type Fetcher interface {
	// FetchLatestBlocks returns the count most recent blocks, head first.
	// Either every block is returned or an error; partial batches are discarded.
	FetchLatestBlocks(ctx context.Context, count int) ([]Block, error)
	// FetchTransactionsForBlock returns the block's transactions in on-chain order.
	FetchTransactionsForBlock(ctx context.Context, blockHash string) ([]Transaction, error)
}
