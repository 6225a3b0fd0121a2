package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockNumber calls eth_blockNumber and returns the current head height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, time.Duration, error) {
	resp, latency, err := c.Call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, latency, err
	}

	var height hexutil.Uint64
	if err := json.Unmarshal(resp.Result, &height); err != nil {
		return 0, latency, c.callError("eth_blockNumber", ErrorTypeParseError, 0, fmt.Errorf("failed to parse block number: %w", err))
	}
	return uint64(height), latency, nil
}

// BlockByNumber calls eth_getBlockByNumber with transaction hashes only.
func (c *Client) BlockByNumber(ctx context.Context, number uint64) (*Block, error) {
	return c.getBlock(ctx, "eth_getBlockByNumber", hexutil.EncodeUint64(number), false)
}

// BlockByHash calls eth_getBlockByHash. With fullTx the returned block carries
// its transactions in on-chain order.
func (c *Client) BlockByHash(ctx context.Context, hash string, fullTx bool) (*Block, error) {
	return c.getBlock(ctx, "eth_getBlockByHash", hash, fullTx)
}

func (c *Client) getBlock(ctx context.Context, method string, id string, fullTx bool) (*Block, error) {
	resp, _, err := c.Call(ctx, method, id, fullTx)
	if err != nil {
		return nil, err
	}

	// Nodes answer unknown blocks with a null result rather than an error.
	if len(resp.Result) == 0 || bytes.Equal(bytes.TrimSpace(resp.Result), []byte("null")) {
		return nil, c.callError(method, ErrorTypeNotFound, 0, fmt.Errorf("block %s not found", id))
	}

	var raw RawBlock
	if err := json.Unmarshal(resp.Result, &raw); err != nil {
		return nil, c.callError(method, ErrorTypeParseError, 0, fmt.Errorf("failed to parse block: %w", err))
	}

	block, err := raw.Parsed(fullTx)
	if err != nil {
		return nil, c.callError(method, ErrorTypeParseError, 0, fmt.Errorf("failed to parse transactions: %w", err))
	}
	return block, nil
}
