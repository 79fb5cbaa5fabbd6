// Package client implements the HTTP fetcher for the collection pipeline:
// one GET with query parameters yields one decoded JSON value. The fetcher
// owns all retry and pacing behavior; by default every transient condition
// is retried until it resolves, so the only caller-visible outcomes are a
// decoded value, a configured attempt bound running out, or cancellation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/steamharvest/steamharvest/pkg/cache"
	"github.com/steamharvest/steamharvest/pkg/ratelimit"
)

// Prometheus metrics for fetch operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steamharvest_requests_total",
		Help: "Total API requests by source and status",
	}, []string{"source", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "steamharvest_request_duration_seconds",
		Help:    "API request duration in seconds by source",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"source"})

	requestRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steamharvest_request_retries_total",
		Help: "Total retry waits by source and failure class",
	}, []string{"source", "error_class"})

	retriesExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steamharvest_retries_exhausted_total",
		Help: "Total fetches that ran out of attempts by source",
	}, []string{"source"})
)

// DefaultUserAgent identifies the collector to the upstream APIs.
const DefaultUserAgent = "steamharvest/1.0 (+https://github.com/steamharvest/steamharvest)"

// DefaultTimeout bounds a single HTTP attempt.
const DefaultTimeout = 30 * time.Second

// ErrorClass classifies a failed fetch attempt.
type ErrorClass string

const (
	// ErrorClassNetwork represents transport or TLS failures.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassEmpty represents a 2xx response with an empty body,
	// which both Steam APIs produce when shedding load.
	ErrorClassEmpty ErrorClass = "empty"

	// ErrorClassHTTP represents non-2xx responses.
	ErrorClassHTTP ErrorClass = "http"

	// ErrorClassDecode represents a body that is not valid JSON.
	ErrorClassDecode ErrorClass = "decode"
)

// Fetcher retrieves JSON values from one data source's API.
type Fetcher struct {
	httpClient *http.Client
	config     Config
	pacer      *ratelimit.Pacer
	cache      *cache.Manager
	logger     zerolog.Logger
}

// Config holds the fetcher configuration.
type Config struct {
	// Source names the data source for logs and metric labels
	// (e.g. "steam", "steamspy")
	Source string

	// UserAgent identifies the collector to the upstream API
	UserAgent string

	// Timeout bounds a single HTTP attempt, not the whole retried fetch
	Timeout time.Duration

	// MaxAttempts bounds the retry loop. 0 retries until success,
	// matching the fail-only-by-retrying default.
	MaxAttempts int

	// Waits are the fixed waits applied between attempts
	Waits ratelimit.WaitPolicy

	// Pacer spaces attempts to the source. nil disables pacing.
	Pacer *ratelimit.Pacer

	// Cache serves repeated requests from Redis. nil disables caching.
	Cache *cache.Manager
}

// DefaultConfig returns a safe default configuration for a source.
func DefaultConfig(source string) Config {
	return Config{
		Source:      source,
		UserAgent:   DefaultUserAgent,
		Timeout:     DefaultTimeout,
		MaxAttempts: 0,
		Waits:       ratelimit.DefaultWaitPolicy(),
	}
}

// New creates a fetcher.
func New(cfg Config) (*Fetcher, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("source name is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Waits.Transient <= 0 || cfg.Waits.Throttle <= 0 {
		cfg.Waits = ratelimit.DefaultWaitPolicy()
	}

	pacer := cfg.Pacer
	if pacer == nil {
		pacer = ratelimit.NewPacer(0)
	}

	logger := log.With().
		Str("component", "fetcher").
		Str("source", cfg.Source).
		Logger()

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		pacer:  pacer,
		cache:  cfg.Cache,
		logger: logger,
	}, nil
}

// Fetch performs a GET against endpoint with the given query parameters and
// returns the decoded JSON body. Transient failures are retried per the
// configured wait policy; with MaxAttempts 0 the call blocks until the
// request succeeds or ctx is cancelled.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string, query url.Values) (any, error) {
	if cached, ok := f.fromCache(ctx, endpoint, query); ok {
		return cached, nil
	}

	body, err := f.fetchBody(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		// fetchBody already validated the JSON; this is unreachable
		// short of memory corruption, but fail loudly regardless.
		return nil, fmt.Errorf("decode response: %w", err)
	}

	f.toCache(ctx, endpoint, query, body)
	return value, nil
}

// fromCache returns the decoded cached response, if caching is enabled and
// a fresh entry exists. Cache failures degrade to a network fetch.
func (f *Fetcher) fromCache(ctx context.Context, endpoint string, query url.Values) (any, bool) {
	if f.cache == nil {
		return nil, false
	}

	key := cache.Key{Endpoint: endpoint, Query: query}
	entry, err := f.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			f.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		return nil, false
	}

	var value any
	if err := json.Unmarshal(entry.Body, &value); err != nil {
		f.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Corrupt cache entry, refetching")
		_ = f.cache.Delete(ctx, key)
		return nil, false
	}

	f.logger.Debug().
		Str("endpoint", endpoint).
		Dur("ttl", entry.TTL()).
		Msg("Response served from cache")
	return value, true
}

// toCache stores a fetched body. Best effort: errors are logged, not returned.
func (f *Fetcher) toCache(ctx context.Context, endpoint string, query url.Values, body []byte) {
	if f.cache == nil {
		return
	}

	key := cache.Key{Endpoint: endpoint, Query: query}
	entry := cache.NewEntry(body, f.cache.TTL())
	if err := f.cache.Set(ctx, key, entry); err != nil {
		f.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
	}
}

// attempt executes one paced HTTP request and validates the body.
// The returned class is only meaningful when err is non-nil.
func (f *Fetcher) attempt(ctx context.Context, endpoint string, query url.Values) ([]byte, int, ErrorClass, error) {
	if err := f.pacer.Wait(ctx); err != nil {
		return nil, 0, ErrorClassNetwork, fmt.Errorf("%w: %v", ErrContextCancelled, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, ErrorClassNetwork, fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = query.Encode()
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	requestDuration.WithLabelValues(f.config.Source).Observe(time.Since(start).Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(f.config.Source, "network_error").Inc()
		return nil, 0, ErrorClassNetwork, err
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(f.config.Source, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, ErrorClassNetwork, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, ErrorClassHTTP, fmt.Errorf("unexpected status %s", resp.Status)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, resp.StatusCode, ErrorClassEmpty, fmt.Errorf("empty response body")
	}

	if !json.Valid(body) {
		return nil, resp.StatusCode, ErrorClassDecode, fmt.Errorf("response body is not valid JSON")
	}

	return body, resp.StatusCode, "", nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (f *Fetcher) SetHTTPClient(client *http.Client) {
	f.httpClient = client
}

// Source returns the source name the fetcher was configured with.
func (f *Fetcher) Source() string {
	return f.config.Source
}
