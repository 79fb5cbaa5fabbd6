package config

import "time"

// Collection defaults.
const (
	DefaultDataDir   = "data"
	DefaultBatchSize = 100
	DefaultProgress  = true
)

// Client defaults. The user agent and timeout mirror the fetcher's own
// defaults so configuration and library use agree.
const (
	DefaultClientTimeout = 30 * time.Second
	DefaultMaxAttempts   = 0
)

// Cache defaults.
const (
	DefaultCacheAddr = "localhost:6379"
	DefaultCacheDB   = 0
	DefaultCacheTTL  = 24 * time.Hour
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogPretty = true
)

// Metrics defaults.
const (
	DefaultMetricsAddr = ":9090"
)
