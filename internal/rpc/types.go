// Package rpc is a minimal Ethereum JSON-RPC 2.0 client covering the calls the
// dashboard needs: the chain head, blocks by number and blocks by hash with their
// transaction list.
//
// Values arrive from the wire as hex strings. RawBlock and RawTransaction mirror
// the wire format; Parsed() converts them into Block and Transaction with native
// Go types.
package rpc

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

// Response is a JSON-RPC 2.0 response. Result is decoded by the caller, who
// knows the shape the method returns.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RawBlock is eth_getBlockByNumber / eth_getBlockByHash output as sent by the node.
// Transactions holds hashes or full objects depending on the fullTx flag.
type RawBlock struct {
	Number        hexutil.Uint64    `json:"number"`
	Hash          string            `json:"hash"`
	ParentHash    string            `json:"parentHash"`
	Miner         string            `json:"miner"`
	Timestamp     hexutil.Uint64    `json:"timestamp"`
	GasUsed       *hexutil.Big      `json:"gasUsed"`
	GasLimit      *hexutil.Big      `json:"gasLimit"`
	BaseFeePerGas *hexutil.Big      `json:"baseFeePerGas,omitempty"` // absent before London
	Transactions  []json.RawMessage `json:"transactions"`
}

// RawTransaction is a full transaction object inside a block.
type RawTransaction struct {
	Hash             string         `json:"hash"`
	From             string         `json:"from"`
	To               *string        `json:"to"` // null for contract creation
	Value            *hexutil.Big   `json:"value"`
	Input            string         `json:"input"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
}

// Block holds block data as native Go types.
type Block struct {
	Number        uint64
	Hash          string
	ParentHash    string
	Miner         string
	Timestamp     uint64
	GasUsed       *big.Int
	GasLimit      *big.Int
	BaseFeePerGas *big.Int // nil for pre-London blocks
	TxCount       int

	// Transactions is only populated when the block was requested with fullTx.
	Transactions []Transaction
}

// Transaction holds the transaction fields the dashboard displays.
type Transaction struct {
	Hash  string
	Index uint64
	From  string
	To    *string
	Value *big.Int
	Input string
}

// Parsed converts the wire block into a Block. When fullTx is set the
// transaction objects are decoded as well.
func (b *RawBlock) Parsed(fullTx bool) (*Block, error) {
	block := &Block{
		Number:        uint64(b.Number),
		Hash:          b.Hash,
		ParentHash:    b.ParentHash,
		Miner:         b.Miner,
		Timestamp:     uint64(b.Timestamp),
		GasUsed:       bigOrZero(b.GasUsed),
		GasLimit:      bigOrZero(b.GasLimit),
		BaseFeePerGas: bigOrNil(b.BaseFeePerGas),
		TxCount:       len(b.Transactions),
	}

	if !fullTx {
		return block, nil
	}

	block.Transactions = make([]Transaction, 0, len(b.Transactions))
	for _, raw := range b.Transactions {
		var tx RawTransaction
		if err := json.Unmarshal(raw, &tx); err != nil {
			return nil, err
		}
		block.Transactions = append(block.Transactions, tx.Parsed())
	}
	return block, nil
}

// Parsed converts the wire transaction into a Transaction.
func (t *RawTransaction) Parsed() Transaction {
	return Transaction{
		Hash:  t.Hash,
		Index: uint64(t.TransactionIndex),
		From:  t.From,
		To:    t.To,
		Value: bigOrZero(t.Value),
		Input: t.Input,
	}
}

func bigOrZero(v *hexutil.Big) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToInt()
}

func bigOrNil(v *hexutil.Big) *big.Int {
	if v == nil {
		return nil
	}
	return v.ToInt()
}
