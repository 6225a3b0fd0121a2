// Package format converts raw chain values (addresses, timestamps, wei amounts)
// into display strings. Every helper degrades gracefully: malformed input is
// returned unchanged or rendered as an empty string, never reported as an error.
package format

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Ellipsis separates the kept prefix and suffix of a truncated address.
const Ellipsis = "…"

// ContractCreation is shown in place of a missing recipient.
const ContractCreation = "Contract creation"

// IsAddress reports whether s has the shape of a 0x-prefixed 20-byte hex address.
// Hex digits are matched case-insensitively; the prefix must be present.
func IsAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	return common.IsHexAddress(s)
}

// TruncateAddress shortens a well-formed address to its first 6 and last 4
// characters, e.g. "0x1234…abcd".
//
// Input that does not look like an address is returned unchanged, and an empty
// (absent) address stays empty so the caller decides what to display.
func TruncateAddress(addr string) string {
	if addr == "" || !IsAddress(addr) {
		return addr
	}
	return addr[:6] + Ellipsis + addr[len(addr)-4:]
}

// FormatAddress renders an optional recipient address for the transactions table.
// A nil address is a contract creation.
func FormatAddress(addr *string) string {
	if addr == nil {
		return ContractCreation
	}
	return TruncateAddress(*addr)
}

// ChecksumAddress returns the EIP-55 mixed-case form of addr, or addr unchanged
// when it is not an address.
func ChecksumAddress(addr string) string {
	if !IsAddress(addr) {
		return addr
	}
	return common.HexToAddress(addr).Hex()
}

// TruncateHash shortens a block or transaction hash the same way addresses are
// shortened. Short strings pass through.
func TruncateHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:6] + Ellipsis + hash[len(hash)-4:]
}
