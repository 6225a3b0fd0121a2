package display

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/blockscan/internal/chain"
	"github.com/dmagro/blockscan/internal/provider"
	"github.com/dmagro/blockscan/internal/stats"
	"github.com/dmagro/blockscan/internal/view"
)

func init() {
	color.NoColor = true
}

var now = time.Unix(1_700_000_120, 0)

func sampleBlocks() []chain.Block {
	return []chain.Block{
		{Number: 19_000_001, Hash: "0x" + "ab" + strings.Repeat("0", 62), Timestamp: 1_700_000_108, GasUsed: big.NewInt(15_000_000), GasLimit: big.NewInt(30_000_000), TransactionCount: 2},
		{Number: 19_000_000, Hash: "0x" + "cd" + strings.Repeat("0", 62), Timestamp: 1_700_000_000, GasUsed: big.NewInt(1_234_567), GasLimit: big.NewInt(30_000_000), TransactionCount: 0},
	}
}

func sampleTxs() []chain.Transaction {
	to := "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	return []chain.Transaction{
		{
			Hash:  "0x" + strings.Repeat("1", 64),
			Index: 0,
			From:  "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
			To:    &to,
			Value: big.NewInt(0),
			Input: "0xa9059cbb" + strings.Repeat("0", 128),
		},
		{
			Hash:  "0x" + strings.Repeat("2", 64),
			Index: 1,
			From:  "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
			Value: new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17)),
		},
	}
}

func render(t *testing.T, f Formatter) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf))
	return buf.String()
}

func TestBlocksFormatter(t *testing.T) {
	blocks := sampleBlocks()
	out := render(t, &BlocksFormatter{Blocks: blocks, Selected: blocks[1].Hash, Now: now})

	assert.Contains(t, out, "19,000,001")
	assert.Contains(t, out, "12 seconds ago")
	assert.Contains(t, out, "2 minutes ago")
	assert.Contains(t, out, "15,000,000")
	assert.Contains(t, out, "▶")
}

func TestTransactionsFormatter(t *testing.T) {
	out := render(t, &TransactionsFormatter{Transactions: sampleTxs()})

	assert.Contains(t, out, "0x742d…f44e")
	assert.Contains(t, out, "0xdAC1…1ec7")
	assert.Contains(t, out, "Contract creation")
	assert.Contains(t, out, "transfer")
	assert.Contains(t, out, "1.5")
}

func TestTransactionsFormatter_LimitAndEmpty(t *testing.T) {
	out := render(t, &TransactionsFormatter{Transactions: sampleTxs(), Limit: 1})
	assert.Contains(t, out, "… 1 more")

	out = render(t, &TransactionsFormatter{Transactions: []chain.Transaction{}})
	assert.Contains(t, out, "No transactions in this block.")
}

func TestViewFormatter_States(t *testing.T) {
	blocks := sampleBlocks()

	tests := []struct {
		name     string
		state    view.ViewState
		contains []string
		excludes []string
	}{
		{
			name:     "loading blocks",
			state:    view.ViewState{BlocksStatus: view.StatusLoading},
			contains: []string{"Latest blocks", "Loading blocks…"},
			excludes: []string{"Transactions"},
		},
		{
			name:     "blocks failed",
			state:    view.ViewState{BlocksStatus: view.StatusFailed, BlocksErr: errors.New("upstream down")},
			contains: []string{"Failed to load blocks: upstream down"},
			excludes: []string{"Transactions"},
		},
		{
			name: "transactions failed keeps blocks",
			state: view.ViewState{
				Blocks: blocks, BlocksStatus: view.StatusReady,
				SelectedBlockHash:  blocks[0].Hash,
				TransactionsStatus: view.StatusFailed, TransactionsErr: errors.New("timeout"),
			},
			contains: []string{"19,000,001", "Transactions in block #19000001", "Failed to load transactions: timeout"},
		},
		{
			name: "ready",
			state: view.ViewState{
				Blocks: blocks, BlocksStatus: view.StatusReady,
				SelectedBlockHash: blocks[0].Hash, TransactionsBlockHash: blocks[0].Hash,
				Transactions: sampleTxs(), TransactionsStatus: view.StatusReady,
			},
			contains: []string{"Transactions in block #19000001", "Contract creation"},
			excludes: []string{"Loading"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, &ViewFormatter{State: tt.state, Provider: "local", Now: now})
			assert.Contains(t, out, "BlockScan")
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestBlockFormatter(t *testing.T) {
	b := sampleBlocks()[0]
	b.BaseFeePerGas = big.NewInt(12_345_000_000)
	out := render(t, &BlockFormatter{Block: b, Provider: "local", Latency: 42 * time.Millisecond, Now: now})

	assert.Contains(t, out, "Block #19,000,001")
	assert.Contains(t, out, "(50.0%)")
	assert.Contains(t, out, "12.35 gwei")
	assert.Contains(t, out, "local (42ms)")
}

func TestProvidersFormatter(t *testing.T) {
	out := render(t, &ProvidersFormatter{Ranked: provider.Ranked{
		{Name: "fast", Status: provider.StatusUp, SuccessRate: 100, BlockHeight: 1000,
			Latency: stats.TailLatency{P50: 20 * time.Millisecond, P95: 30 * time.Millisecond, Max: 31 * time.Millisecond}},
		{Name: "behind", Status: provider.StatusUp, SuccessRate: 100, BlockHeight: 990, BlockDelta: 10,
			Excluded: true, ExcludeReason: "10 blocks behind"},
		{Name: "dead", Status: provider.StatusDown, LastErr: errors.New("connection refused")},
	}})

	assert.Contains(t, out, "fast")
	assert.Contains(t, out, "30ms")
	assert.Contains(t, out, "-10")
	assert.Contains(t, out, "10 blocks behind")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "BLOCK HEIGHT MISMATCH")
}
