package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RPC client metrics
var (
	RPCRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blockscan_rpc_request_duration_seconds",
		Help:    "Time taken by JSON-RPC requests, retries included",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider", "method"})

	RPCErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockscan_rpc_errors_total",
		Help: "The total number of failed JSON-RPC requests by error type",
	}, []string{"provider", "method", "type"})
)

// Fetcher metrics
var (
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blockscan_fetch_duration_seconds",
		Help:    "Time taken by data fetcher operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockscan_fetch_failures_total",
		Help: "The total number of failed data fetcher operations",
	}, []string{"op"})

	ChainHead = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockscan_chain_head",
		Help: "The latest block number seen by the data fetcher",
	})
)

// View synchronizer metrics
var (
	StaleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockscan_stale_responses_total",
		Help: "The number of fetch responses discarded because a newer request superseded them",
	}, []string{"kind"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blockscan_active_sessions",
		Help: "The number of mounted dashboard sessions",
	})
)

// HTTP server metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blockscan_http_requests_total",
		Help: "The total number of HTTP requests by route and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blockscan_http_request_duration_seconds",
		Help:    "Time taken to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
