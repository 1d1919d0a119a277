// Package bdl provides the core HTTP client for the GUS BDL (Local Data
// Bank) API with rate limiting, optional response caching, and error
// handling.
package bdl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkarczewski/bdl-client/pkg/cache"
	"github.com/pkarczewski/bdl-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production BDL API endpoint.
const DefaultBaseURL = "https://bdl.stat.gov.pl/api/v1"

// maxPageSize is the largest page size BDL accepts. The client issues a
// single request per call and never auto-paginates; pre-filtered result
// sets fit inside one page.
const maxPageSize = 100

// clientIDHeader carries the registration key. An absent key is a valid
// degraded mode: public endpoints still answer, at a lower rate limit.
const clientIDHeader = "X-ClientId"

// Prometheus metrics for BDL client operations.
var (
	bdlRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdl_requests_total",
		Help: "Total BDL requests by endpoint and status",
	}, []string{"endpoint", "status"})

	bdlRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bdl_request_duration_seconds",
		Help:    "BDL request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	bdlErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bdl_errors_total",
		Help: "Total BDL errors by class",
	}, []string{"class"})
)

// Client is the BDL API gateway. All operations issue exactly one HTTP
// request; orchestration of multi-request flows lives in pkg/fetch.
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.Limiter
	cache       *cache.Manager
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the BDL API (default: DefaultBaseURL).
	BaseURL string

	// ClientID is the registration key sent as X-ClientId. Empty means
	// anonymous access (valid, lower rate limit).
	ClientID string

	// Language for response labels: "pl" (default) or "en".
	Language string

	// Redis enables response caching when non-nil. BDL data is
	// slow-moving, so plain TTL caching is sufficient.
	Redis *redis.Client

	// CacheTTL is how long cached responses stay valid.
	CacheTTL time.Duration

	// RequestsPerSecond caps the outbound rate. Zero selects the default
	// for the access mode (anonymous or registered).
	RequestsPerSecond float64

	// Retry. MaxRetries 0 (the default) disables retries entirely: a
	// failed request is final for that fetch cycle. Enabling retries
	// affects only server, network and rate_limit error classes.
	MaxRetries     int
	InitialBackoff time.Duration

	// Timeout per HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration for anonymous access.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Language:       "pl",
		CacheTTL:       6 * time.Hour,
		MaxRetries:     0,
		InitialBackoff: 1 * time.Second,
		Timeout:        30 * time.Second,
	}
}

// New creates a new BDL client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "pl"
	}
	if cfg.Language != "pl" && cfg.Language != "en" {
		return nil, fmt.Errorf("unsupported language %q (want pl or en)", cfg.Language)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 6 * time.Hour
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.MaxRetries)
	}

	logger := log.With().Str("component", "bdl-client").Logger()

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = ratelimit.RateForClient(cfg.ClientID != "")
	}
	limiter := ratelimit.New(rps, ratelimit.DefaultBurst, logger)

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: limiter,
		cache:       cacheManager,
		config:      cfg,
		logger:      logger,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Registered reports whether a client id is configured.
func (c *Client) Registered() bool {
	return c.config.ClientID != ""
}

// get performs a single GET request against a BDL endpoint and decodes
// the JSON response into out. It orchestrates the full request pipeline:
// cache lookup, rate limit gate, execution, error classification, and
// cache write-back.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("lang", c.config.Language)
	params.Set("format", "json")

	startTime := time.Now()
	defer func() {
		bdlRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	key := cache.Key{Endpoint: endpoint, Params: params}
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		if entry != nil {
			c.logger.Debug().Str("endpoint", endpoint).Msg("Cache hit")
			return json.Unmarshal(entry.Data, out)
		}
	}

	var body []byte
	attempt := func() (ErrorClass, error) {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return ErrorClassNetwork, fmt.Errorf("rate limit wait: %w", err)
		}

		reqURL := strings.TrimRight(c.config.BaseURL, "/") + endpoint + "?" + params.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return ErrorClassClient, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.config.ClientID != "" {
			req.Header.Set(clientIDHeader, c.config.ClientID)
		}

		c.logger.Debug().Str("endpoint", endpoint).Msg("Executing BDL request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			bdlErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			bdlRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return ErrorClassNetwork, &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}
		defer resp.Body.Close()

		bdlRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		if resp.StatusCode >= 400 {
			class := classifyStatus(resp.StatusCode)
			bdlErrorsTotal.WithLabelValues(string(class)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("BDL request error")

			return class, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: class,
				Message:    remoteMessage(resp),
			}
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			bdlErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return ErrorClassNetwork, fmt.Errorf("read response: %w", err)
		}
		return "", nil
	}

	if err := c.withRetry(ctx, attempt); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	if c.cache != nil {
		entry := &cache.Entry{
			Data:     body,
			CachedAt: time.Now(),
			Expires:  time.Now().Add(c.config.CacheTTL),
		}
		if err := c.cache.Set(ctx, key, entry); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
		}
	}

	return nil
}

// classifyStatus categorizes an HTTP status for observability and retry.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// remoteMessage extracts the error message BDL puts in the response body.
// Falls back to the status text when the body is not the expected shape.
func remoteMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		var wire struct {
			Message string `json:"message"`
			Title   string `json:"title"`
		}
		if json.Unmarshal(body, &wire) == nil {
			if wire.Message != "" {
				return wire.Message
			}
			if wire.Title != "" {
				return wire.Title
			}
		}
	}
	return http.StatusText(resp.StatusCode)
}
