package chain

import (
	"errors"
	"fmt"

	"github.com/dmagro/blockscan/internal/rpc"
)

// ErrProvider matches every *ProviderError via errors.Is.
var ErrProvider = errors.New("provider error")

// ErrUnknownBlock is wrapped when the provider has no block for a hash.
var ErrUnknownBlock = errors.New("unknown block")

// ProviderError reports that the chain-data provider failed to resolve a
// height, a block or a transaction list.
type ProviderError struct {
	Op     string // "head", "block", "transactions"
	Target string // block number or hash; empty for head lookups
	Kind   rpc.ErrorType
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("provider: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("provider: %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// Retryable reports whether the same request may succeed later. Unknown blocks
// and malformed responses will not.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case rpc.ErrorTypeNotFound, rpc.ErrorTypeParseError, rpc.ErrorTypeRPCError:
		return false
	default:
		return true
	}
}

func providerError(op, target string, err error) *ProviderError {
	kind := rpc.ErrorTypeOther
	var callErr *rpc.CallError
	if errors.As(err, &callErr) {
		kind = callErr.Type
		if kind == rpc.ErrorTypeNotFound {
			err = fmt.Errorf("%w: %v", ErrUnknownBlock, err)
		}
	}
	return &ProviderError{Op: op, Target: target, Kind: kind, Err: err}
}
