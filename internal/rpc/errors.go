package rpc

import "fmt"

// ErrorType categorizes a failed call.
type ErrorType string

const (
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeRPCError    ErrorType = "rpc_error"
	ErrorTypeParseError  ErrorType = "parse_error"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeOther       ErrorType = "other"
)

// CallError describes a failed JSON-RPC call.
type CallError struct {
	Provider   string
	Method     string
	Type       ErrorType
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Method, e.Type, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// Temporary reports whether repeating the call may succeed.
func (e *CallError) Temporary() bool {
	switch e.Type {
	case ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeOther:
		return true
	default:
		return false
	}
}
