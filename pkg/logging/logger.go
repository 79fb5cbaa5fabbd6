// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Per-item fetch results and parser decisions
//   - Retry countdown ticks
//   - Cache operations (hit/miss, key, TTL)
//
// Info: Normal operation events
//   - Run start/end with range and batch size
//   - Batch written + checkpoint advanced (with timing and ETA)
//   - App list fetched/loaded
//   - Metrics server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Transient request failures entering a retry wait
//   - Placeholder record written for an unavailable app
//   - Cache errors (fallback to direct request)
//
// Error: Error conditions requiring attention
//   - Retry attempts exhausted (bounded mode)
//   - Sink or checkpoint write failures
//   - Configuration errors
//
// Context Fields:
//   - source: data source name (steam, steamspy)
//   - endpoint: request URL without query
//   - appid: item identifier being fetched
//   - status_code: HTTP status code
//   - error_class: failure classification (network, empty, http, decode)
//   - batch: chunk bounds as "start-end"
//   - cursor: checkpoint value after a batch
//   - duration: batch or request duration
