package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/dmagro/blockscan/internal/metrics"
)

// ClientConfig configures a Client. Zero backoff values fall back to
// 100ms initial and 2s max, doubling on each retry.
type ClientConfig struct {
	Name           string
	URL            string
	Timeout        time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Client talks JSON-RPC to a single provider endpoint.
type Client struct {
	name string
	url  string
	http *resty.Client
}

// NewClient builds a client. Transport errors, HTTP 429 and 5xx responses are
// retried with exponential backoff up to MaxRetries times.
func NewClient(cfg ClientConfig) *Client {
	backoffInitial := cfg.BackoffInitial
	if backoffInitial <= 0 {
		backoffInitial = 100 * time.Millisecond
	}
	backoffMax := cfg.BackoffMax
	if backoffMax <= 0 {
		backoffMax = 2 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetLogger(restyLogger{provider: cfg.Name}).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(backoffInitial).
		SetRetryMaxWaitTime(backoffMax).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled)
			}
			code := resp.StatusCode()
			return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		})

	return &Client{
		name: cfg.Name,
		url:  cfg.URL,
		http: httpClient,
	}
}

func (c *Client) Name() string { return c.name }

// Call executes a JSON-RPC method and returns the decoded envelope together with
// the total latency. Failures are returned as *CallError.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (*Response, time.Duration, error) {
	if params == nil {
		params = []interface{}{}
	}

	req := Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	}

	start := time.Now()
	httpResp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post(c.url)
	latency := time.Since(start)

	metrics.RPCRequestDuration.WithLabelValues(c.name, method).Observe(latency.Seconds())

	resp, err := c.decode(method, httpResp, err)
	if err != nil {
		var callErr *CallError
		if errors.As(err, &callErr) {
			metrics.RPCErrors.WithLabelValues(c.name, method, string(callErr.Type)).Inc()
		}
		log.Debug().Err(err).Str("provider", c.name).Str("method", method).Dur("latency", latency).Msg("rpc call failed")
		return nil, latency, err
	}
	return resp, latency, nil
}

func (c *Client) decode(method string, httpResp *resty.Response, err error) (*Response, error) {
	if err != nil {
		return nil, c.callError(method, classifyTransportError(err), 0, err)
	}

	status := httpResp.StatusCode()
	switch {
	case status == http.StatusTooManyRequests:
		return nil, c.callError(method, ErrorTypeRateLimit, status, fmt.Errorf("HTTP %d", status))
	case status >= http.StatusInternalServerError:
		return nil, c.callError(method, ErrorTypeServerError, status, fmt.Errorf("HTTP %d", status))
	case status != http.StatusOK:
		return nil, c.callError(method, ErrorTypeOther, status, fmt.Errorf("HTTP %d", status))
	}

	var resp Response
	if err := json.Unmarshal(httpResp.Body(), &resp); err != nil {
		return nil, c.callError(method, ErrorTypeParseError, status, fmt.Errorf("invalid JSON response: %w", err))
	}
	if resp.Error != nil {
		return nil, c.callError(method, ErrorTypeRPCError, status, fmt.Errorf("RPC error %d: %s", resp.Error.Code, resp.Error.Message))
	}
	return &resp, nil
}

func (c *Client) callError(method string, typ ErrorType, status int, err error) *CallError {
	return &CallError{
		Provider:   c.name,
		Method:     method,
		Type:       typ,
		StatusCode: status,
		Err:        err,
	}
}

func classifyTransportError(err error) ErrorType {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTypeTimeout
	}
	return ErrorTypeOther
}

// restyLogger routes resty's internal messages through zerolog.
type restyLogger struct {
	provider string
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	log.Error().Str("provider", l.provider).Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	log.Warn().Str("provider", l.provider).Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	log.Debug().Str("provider", l.provider).Msgf(format, v...)
}
