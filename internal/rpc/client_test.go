package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer answers every request by calling handle with the decoded request.
func newTestServer(t *testing.T, handle func(req Request) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req Request
		require.NoError(t, json.Unmarshal(body, &req))

		status, payload := handle(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(url string, retries int) *Client {
	return NewClient(ClientConfig{
		Name:           "test",
		URL:            url,
		Timeout:        2 * time.Second,
		MaxRetries:     retries,
		BackoffInitial: time.Millisecond,
		BackoffMax:     5 * time.Millisecond,
	})
}

func TestBlockNumber(t *testing.T) {
	srv := newTestServer(t, func(req Request) (int, string) {
		assert.Equal(t, "eth_blockNumber", req.Method)
		assert.Equal(t, "2.0", req.JSONRPC)
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":"0x172721e"}`
	})

	height, latency, err := newTestClient(srv.URL, 0).BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(24277534), height)
	assert.Greater(t, latency, time.Duration(0))
}

func TestCall_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(req Request) (int, string) {
		if calls.Add(1) == 1 {
			return http.StatusBadGateway, `bad gateway`
		}
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":"0x10"}`
	})

	height, _, err := newTestClient(srv.URL, 2).BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(16), height)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCall_ErrorTypes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		payload  string
		wantType ErrorType
	}{
		{name: "rate_limited", status: http.StatusTooManyRequests, payload: `slow down`, wantType: ErrorTypeRateLimit},
		{name: "server_error", status: http.StatusInternalServerError, payload: ``, wantType: ErrorTypeServerError},
		{name: "forbidden", status: http.StatusForbidden, payload: ``, wantType: ErrorTypeOther},
		{name: "rpc_error", status: http.StatusOK, payload: `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid argument"}}`, wantType: ErrorTypeRPCError},
		{name: "garbage", status: http.StatusOK, payload: `<html>`, wantType: ErrorTypeParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(req Request) (int, string) { return tt.status, tt.payload })

			_, _, err := newTestClient(srv.URL, 0).Call(context.Background(), "eth_blockNumber")
			require.Error(t, err)

			var callErr *CallError
			require.True(t, errors.As(err, &callErr))
			assert.Equal(t, tt.wantType, callErr.Type)
			assert.Equal(t, "eth_blockNumber", callErr.Method)
			assert.Equal(t, "test", callErr.Provider)
		})
	}
}

func TestBlockByNumber(t *testing.T) {
	srv := newTestServer(t, func(req Request) (int, string) {
		assert.Equal(t, "eth_getBlockByNumber", req.Method)
		assert.Equal(t, []interface{}{"0x64", false}, req.Params)
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{
			"number":"0x64","hash":"0xaa","parentHash":"0xbb","miner":"0xcc",
			"timestamp":"0x65f00000","gasUsed":"0xe4e1c0","gasLimit":"0x1c9c380",
			"baseFeePerGas":"0x59682f000","transactions":["0x01","0x02","0x03"]}}`
	})

	block, err := newTestClient(srv.URL, 0).BlockByNumber(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), block.Number)
	assert.Equal(t, "0xaa", block.Hash)
	assert.Equal(t, uint64(0x65f00000), block.Timestamp)
	assert.Equal(t, "15000000", block.GasUsed.String())
	assert.Equal(t, "30000000", block.GasLimit.String())
	assert.Equal(t, "24000000000", block.BaseFeePerGas.String())
	assert.Equal(t, 3, block.TxCount)
	assert.Nil(t, block.Transactions)
}

func TestBlockByHash_FullTransactions(t *testing.T) {
	srv := newTestServer(t, func(req Request) (int, string) {
		assert.Equal(t, "eth_getBlockByHash", req.Method)
		assert.Equal(t, []interface{}{"0xabc", true}, req.Params)
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{
			"number":"0x1","hash":"0xabc","timestamp":"0x0","gasUsed":"0x0","gasLimit":"0x0",
			"transactions":[
				{"hash":"0xt1","from":"0xf1","to":"0xd1","value":"0xde0b6b3a7640000","input":"0x","transactionIndex":"0x0"},
				{"hash":"0xt2","from":"0xf2","to":null,"value":"0x0","input":"0x6080","transactionIndex":"0x1"}
			]}}`
	})

	block, err := newTestClient(srv.URL, 0).BlockByHash(context.Background(), "0xabc", true)
	require.NoError(t, err)
	assert.Nil(t, block.BaseFeePerGas)
	require.Len(t, block.Transactions, 2)

	first, second := block.Transactions[0], block.Transactions[1]
	assert.Equal(t, "0xt1", first.Hash)
	require.NotNil(t, first.To)
	assert.Equal(t, "0xd1", *first.To)
	assert.Equal(t, "1000000000000000000", first.Value.String())
	assert.Equal(t, uint64(1), second.Index)
	assert.Nil(t, second.To)
	assert.Equal(t, "0x6080", second.Input)
}

func TestBlockByHash_NotFound(t *testing.T) {
	srv := newTestServer(t, func(req Request) (int, string) {
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":null}`
	})

	_, err := newTestClient(srv.URL, 0).BlockByHash(context.Background(), "0xmissing", true)
	var callErr *CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, ErrorTypeNotFound, callErr.Type)
	assert.False(t, callErr.Temporary())
}

func TestClientPool(t *testing.T) {
	pool := NewClientPool()
	a := pool.GetOrCreate(ClientConfig{Name: "a", URL: "http://a"})
	assert.Same(t, a, pool.GetOrCreate(ClientConfig{Name: "a", URL: "http://other"}))
	assert.Same(t, a, pool.Get("a"))
	assert.Nil(t, pool.Get("b"))
}
