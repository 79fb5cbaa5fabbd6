// Package config provides file, environment and default configuration
// for the steamharvest commands.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel validation errors.
var (
	ErrInvalidBatchSize   = errors.New("batch size must be positive")
	ErrInvalidPause       = errors.New("pause must not be negative")
	ErrInvalidEnd         = errors.New("end index must not be negative")
	ErrInvalidTimeout     = errors.New("client timeout must be positive")
	ErrInvalidMaxAttempts = errors.New("max attempts must not be negative")
	ErrInvalidCacheTTL    = errors.New("cache ttl must be positive")
	ErrMissingMetricsAddr = errors.New("metrics listener requires an address")
)

// Config holds all settings for the steamharvest commands.
type Config struct {
	// DataDir is where data files, checkpoints and the app list live
	DataDir string `mapstructure:"data_dir"`

	Collect CollectConfig `mapstructure:"collect"`
	Client  ClientConfig  `mapstructure:"client"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// CollectConfig holds batch engine settings.
type CollectConfig struct {
	// BatchSize is the number of items per durable write
	BatchSize int `mapstructure:"batch_size"`

	// End caps the item range; 0 processes the whole list
	End int `mapstructure:"end"`

	// Pause overrides the per-source delay between items; 0 keeps the
	// source default
	Pause time.Duration `mapstructure:"pause"`

	// ContinueOnError writes placeholders for failed items instead of
	// aborting
	ContinueOnError bool `mapstructure:"continue_on_error"`

	// Progress renders a terminal progress bar
	Progress bool `mapstructure:"progress"`
}

// ClientConfig holds HTTP fetcher settings.
type ClientConfig struct {
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// CacheConfig holds the optional Redis response cache settings.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	DB      int           `mapstructure:"db"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// MetricsConfig holds the optional Prometheus listener settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Validate checks the numeric ranges and cross-field requirements.
func (c *Config) Validate() error {
	if c.Collect.BatchSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, c.Collect.BatchSize)
	}
	if c.Collect.Pause < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPause, c.Collect.Pause)
	}
	if c.Collect.End < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidEnd, c.Collect.End)
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Client.Timeout)
	}
	if c.Client.MaxAttempts < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxAttempts, c.Client.MaxAttempts)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCacheTTL, c.Cache.TTL)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return ErrMissingMetricsAddr
	}
	return nil
}
