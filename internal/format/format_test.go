package format

import (
	"math/big"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase", in: "0x1234567890abcdef1234567890abcdef12345678", want: "0x1234…5678"},
		{name: "mixed_case", in: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", want: "0xA0b8…eB48"},
		{name: "empty_stays_empty", in: "", want: ""},
		{name: "missing_prefix", in: "1234567890abcdef1234567890abcdef12345678", want: "1234567890abcdef1234567890abcdef12345678"},
		{name: "too_short", in: "0x1234", want: "0x1234"},
		{name: "not_hex", in: "0xZZ34567890abcdef1234567890abcdef12345678", want: "0xZZ34567890abcdef1234567890abcdef12345678"},
		{name: "ens_name", in: "vitalik.eth", want: "vitalik.eth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateAddress(tt.in))
		})
	}
}

func TestTruncateAddress_FixedLength(t *testing.T) {
	for _, addr := range []string{
		"0x0000000000000000000000000000000000000000",
		"0xffffffffffffffffffffffffffffffffffffffff",
		"0xdAC17F958D2ee523a2206206994597C13D831ec7",
	} {
		out := TruncateAddress(addr)
		assert.Equal(t, 11, utf8.RuneCountInString(out), addr)
		assert.True(t, strings.HasPrefix(out, addr[:6]))
		assert.True(t, strings.HasSuffix(out, addr[38:]))
	}
}

func TestFormatAddress(t *testing.T) {
	to := "0x1234567890abcdef1234567890abcdef12345678"
	assert.Equal(t, "0x1234…5678", FormatAddress(&to))
	assert.Equal(t, ContractCreation, FormatAddress(nil))
}

func TestChecksumAddress(t *testing.T) {
	assert.Equal(t, "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		ChecksumAddress("0xdac17f958d2ee523a2206206994597c13d831ec7"))
	assert.Equal(t, "nope", ChecksumAddress("nope"))
}

func TestFormatRelativeTimeAt(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	ts := func(ago int64) uint64 { return uint64(now.Unix() - ago) }

	tests := []struct {
		name string
		ts   uint64
		want string
	}{
		{name: "thirty_seconds", ts: ts(30), want: "30 seconds ago"},
		{name: "one_second", ts: ts(1), want: "1 second ago"},
		{name: "zero", ts: ts(0), want: "0 seconds ago"},
		{name: "future", ts: ts(-45), want: "0 seconds ago"},
		{name: "one_minute", ts: ts(60), want: "1 minute ago"},
		{name: "five_minutes", ts: ts(5*60 + 59), want: "5 minutes ago"},
		{name: "hour", ts: ts(3700), want: "1 hour ago"},
		{name: "days", ts: ts(3 * 86400), want: "3 days ago"},
		{name: "month", ts: ts(45 * 86400), want: "1 month ago"},
		{name: "years", ts: ts(2 * 365 * 86400), want: "2 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRelativeTimeAt(tt.ts, now))
		})
	}
}

func TestFormatRelativeTime_FarFuture(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, "0 seconds ago", FormatRelativeTime(^uint64(0)))
	})
}

func TestFormatTokenAmount(t *testing.T) {
	pow10 := func(n int64) *big.Int { return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil) }

	tests := []struct {
		name string
		in   *big.Int
		want string
	}{
		{name: "one_ether", in: pow10(18), want: "1"},
		{name: "zero", in: big.NewInt(0), want: "0"},
		{name: "one_wei", in: big.NewInt(1), want: "0.000000000000000001"},
		{name: "fraction", in: big.NewInt(1_500_000_000_000_000), want: "0.0015"},
		{name: "ten_pow_30", in: pow10(30), want: "1000000000000"},
		{name: "nil", in: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTokenAmount(tt.in))
		})
	}
}

func TestFormatTokenAmount_NoFloatArtifacts(t *testing.T) {
	v, ok := new(big.Int).SetString("123456789012345678901234567890123", 10)
	require.True(t, ok)
	assert.Equal(t, "123456789012345.678901234567890123", FormatTokenAmount(v))
}

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "123", FormatNumber(123))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "24,277,510", FormatNumber(24277510))
	assert.Equal(t, "30,000,000", FormatBigNumber(big.NewInt(30_000_000)))
	assert.Equal(t, "-1,234", FormatBigNumber(big.NewInt(-1234)))
	assert.Equal(t, "", FormatBigNumber(nil))
	assert.Equal(t, "337.23 gwei", FormatGwei(big.NewInt(337_234_788_000)))
	assert.Equal(t, "—", FormatGwei(nil))
}

func TestMethodLabel(t *testing.T) {
	assert.Equal(t, "0xa9059cbb", FunctionSelector("transfer(address,uint256)"))
	assert.Equal(t, "0x095ea7b3", FunctionSelector("approve(address,uint256)"))

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "value_transfer", input: "0x", want: ""},
		{name: "empty", input: "", want: ""},
		{name: "erc20_transfer", input: "0xa9059cbb000000000000000000000000", want: "transfer"},
		{name: "uppercase", input: "0xA9059CBB", want: "transfer"},
		{name: "unknown", input: "0xdeadbeef00", want: "0xdeadbeef"},
		{name: "short", input: "0xa905", want: ""},
		{name: "garbage", input: "0xzzzzzzzz", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MethodLabel(tt.input))
		})
	}
}
