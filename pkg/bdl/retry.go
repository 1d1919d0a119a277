package bdl

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	bdlRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdl_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	bdlRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdl_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

const maxBackoff = 30 * time.Second

// withRetry executes one request attempt, optionally retrying with
// exponential backoff and jitter when Config.MaxRetries > 0. The default
// configuration performs exactly one attempt, keeping the gateway
// retry-free; the orchestrator treats a failed request as final.
func (c *Client) withRetry(ctx context.Context, attempt func() (ErrorClass, error)) error {
	maxAttempts := c.config.MaxRetries + 1
	backoff := c.config.InitialBackoff
	if backoff <= 0 {
		backoff = 1 * time.Second
	}

	var lastErr error
	var lastClass ErrorClass

	for i := 1; i <= maxAttempts; i++ {
		class, err := attempt()
		if err == nil {
			if i > 1 {
				c.logger.Info().
					Str("error_class", string(lastClass)).
					Int("attempt", i).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		lastErr = err
		lastClass = class

		if !shouldRetry(class) || i >= maxAttempts {
			break
		}

		bdlRetriesTotal.WithLabelValues(string(class)).Inc()

		// ±20% jitter to avoid synchronized retries across batches
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))

		c.logger.Debug().
			Str("error_class", string(class)).
			Int("attempt", i).
			Dur("backoff", jitter).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(jitter):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	if c.config.MaxRetries > 0 && shouldRetry(lastClass) {
		bdlRetryExhaustedTotal.WithLabelValues(string(lastClass)).Inc()
		return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, maxAttempts, lastErr)
	}
	return lastErr
}
