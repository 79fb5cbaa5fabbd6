package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces requests to one data source using a token bucket with a
// burst of one, so consecutive requests are at least one interval apart
// regardless of how the caller interleaves fetches, retries and cache
// misses.
type Pacer struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewPacer returns a pacer that allows one request per interval.
// A zero or negative interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Interval returns the configured spacing between requests.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks until the next request is permitted or the context is
// cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
