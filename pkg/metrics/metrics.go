// Package metrics provides the centralized Prometheus registry reference
// for the BDL client. All metrics are defined in their respective
// packages (bdl, cache, ratelimit) via promauto to maintain modularity
// and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the BDL client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - bdl_rate_limit_waits_total (Counter): Requests that waited for a token
//   - bdl_rate_limit_wait_seconds (Histogram): Time spent waiting for a token
//
// Cache Metrics (pkg/cache):
//   - bdl_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - bdl_cache_misses_total (Counter): Cache misses
//   - bdl_cache_size_bytes{layer="redis"} (Gauge): Bytes moved through the cache
//   - bdl_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/bdl):
//   - bdl_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - bdl_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - bdl_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/bdl):
//   - bdl_retries_total{error_class} (Counter): Retry attempts by error class
//   - bdl_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(bdl_cache_hits_total[5m])) /
//   (sum(rate(bdl_cache_hits_total[5m])) + sum(rate(bdl_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(bdl_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(bdl_request_duration_seconds_bucket[5m]))
//
//   # Throttle Pressure
//   rate(bdl_rate_limit_waits_total[5m])
