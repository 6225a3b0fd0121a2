package format

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// knownMethods lists the call signatures labelled in the transactions table.
var knownMethods = []string{
	"transfer(address,uint256)",
	"approve(address,uint256)",
	"transferFrom(address,address,uint256)",
	"multicall(bytes[])",
	"deposit()",
	"withdraw(uint256)",
}

var selectorNames = buildSelectorNames(knownMethods)

// FunctionSelector computes the 4-byte selector of a signature as 0x-prefixed hex,
// e.g. "transfer(address,uint256)" -> "0xa9059cbb".
func FunctionSelector(signature string) string {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(signature))
	return "0x" + hex.EncodeToString(hasher.Sum(nil)[:4])
}

func buildSelectorNames(signatures []string) map[string]string {
	names := make(map[string]string, len(signatures))
	for _, sig := range signatures {
		names[FunctionSelector(sig)] = sig[:strings.IndexByte(sig, '(')]
	}
	return names
}

// MethodLabel names the contract method a transaction calls.
//
// Plain value transfers (empty input) yield "". Known selectors yield the method
// name; anything else yields the raw selector. Input too short to hold a selector
// is returned as "".
func MethodLabel(input string) string {
	input = strings.ToLower(input)
	if input == "" || input == "0x" {
		return ""
	}
	if !strings.HasPrefix(input, "0x") || len(input) < 10 {
		return ""
	}
	selector := input[:10]
	if _, err := hex.DecodeString(selector[2:]); err != nil {
		return ""
	}
	if name, ok := selectorNames[selector]; ok {
		return name
	}
	return selector
}
