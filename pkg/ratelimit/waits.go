// Package ratelimit implements client-side pacing for the collection
// pipeline: a token-bucket pacer that spaces requests to a source, and the
// fixed transient-failure waits with their visible per-second countdown.
// Neither Steam API publishes rate limit headers, so pacing is entirely
// driven by configuration.
package ratelimit

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Default waits for transient failure conditions.
const (
	// DefaultTransientWait applies after a transport or TLS failure.
	DefaultTransientWait = 5 * time.Second

	// DefaultThrottleWait applies after an empty body or a non-2xx status,
	// which usually means the upstream is shedding load.
	DefaultThrottleWait = 10 * time.Second
)

// WaitPolicy holds the fixed wait durations used between retry attempts.
type WaitPolicy struct {
	// Transient is the wait after a transport-level failure,
	// surfaced as a per-second countdown in the logs.
	Transient time.Duration

	// Throttle is the wait after an empty or error response.
	Throttle time.Duration
}

// DefaultWaitPolicy returns the standard waits.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		Transient: DefaultTransientWait,
		Throttle:  DefaultThrottleWait,
	}
}

// Countdown blocks for the given duration, emitting a debug log line each
// second with the remaining time. Returns early with the context error if
// the context is cancelled mid-wait.
func Countdown(ctx context.Context, logger zerolog.Logger, d time.Duration) error {
	remaining := d
	for remaining > 0 {
		step := time.Second
		if remaining < step {
			step = remaining
		}

		logger.Debug().
			Dur("remaining", remaining).
			Msg("Waiting before retry")

		if err := Sleep(ctx, step); err != nil {
			return err
		}
		remaining -= step
	}
	return nil
}

// Sleep blocks for the given duration or until the context is cancelled,
// whichever comes first. Returns the context error on cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
