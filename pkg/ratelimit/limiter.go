// Package ratelimit implements client-side request gating for the BDL
// API. BDL publishes fixed per-key request quotas rather than a dynamic
// error budget, so gating is a local token bucket: every outbound request
// waits for a token before leaving the process.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Default request rates in requests per second. Anonymous access gets
// the conservative public quota; a registered client id roughly doubles it.
const (
	AnonymousRate  = 5.0
	RegisteredRate = 10.0

	// DefaultBurst matches the orchestrator batch size so one batch of
	// concurrent requests never trips the local gate by itself.
	DefaultBurst = 10
)

// Prometheus metrics for rate limit gating.
var (
	bdlRateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bdl_rate_limit_waits_total",
		Help: "Total number of requests that had to wait for a rate limit token",
	})

	bdlRateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bdl_rate_limit_wait_seconds",
		Help:    "Time spent waiting for a rate limit token",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})
)

// RateForClient returns the default request rate for the access mode.
func RateForClient(registered bool) float64 {
	if registered {
		return RegisteredRate
	}
	return AnonymousRate
}

// Limiter gates outbound requests with a token bucket.
type Limiter struct {
	lim    *rate.Limiter
	logger zerolog.Logger
}

// New creates a limiter allowing rps requests per second with the given
// burst capacity.
func New(rps float64, burst int, logger zerolog.Logger) *Limiter {
	if rps <= 0 {
		rps = AnonymousRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Limiter{
		lim:    rate.NewLimiter(rate.Limit(rps), burst),
		logger: logger,
	}
}

// Wait blocks until a request token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.lim.Allow() {
		return nil
	}

	bdlRateLimitWaitsTotal.Inc()
	start := time.Now()

	if err := l.lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	waited := time.Since(start)
	bdlRateLimitWaitSeconds.Observe(waited.Seconds())

	l.logger.Debug().
		Dur("waited", waited).
		Msg("Request throttled by local rate limit")

	return nil
}

// Rate returns the configured requests-per-second limit.
func (l *Limiter) Rate() float64 {
	return float64(l.lim.Limit())
}
