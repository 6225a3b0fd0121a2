package format

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimal places between wei and ether.
const EtherDecimals = 18

// FormatTokenAmount converts a wei amount into a whole-unit decimal string with
// trailing zeros trimmed: 1000000000000000000 -> "1", 1500000000000000 -> "0.0015".
// The conversion is exact for arbitrarily large inputs. A nil amount renders as "".
func FormatTokenAmount(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}

// FormatUnits scales an integer amount by 10^-decimals.
func FormatUnits(amount *big.Int, decimals int32) string {
	if amount == nil {
		return ""
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

// FormatGwei renders a wei amount in gwei with two decimal places.
// Blocks before EIP-1559 have no base fee, rendered as "—".
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "—"
	}
	return fmt.Sprintf("%s gwei", decimal.NewFromBigInt(wei, -9).StringFixed(2))
}

// FormatNumber adds thousand separators: 24277510 -> "24,277,510".
func FormatNumber(n uint64) string {
	return groupDigits(fmt.Sprintf("%d", n))
}

// FormatBigNumber is FormatNumber for arbitrary-precision values. nil renders as "".
func FormatBigNumber(n *big.Int) string {
	if n == nil {
		return ""
	}
	s := n.String()
	if n.Sign() < 0 {
		return "-" + groupDigits(s[1:])
	}
	return groupDigits(s)
}

func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, s[i])
	}
	return string(result)
}
