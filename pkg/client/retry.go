package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/steamharvest/steamharvest/pkg/ratelimit"
)

// fetchBody runs the retry loop around single attempts until one yields a
// valid JSON body. Failure classes map to fixed waits: network failures get
// the short countdown wait, everything else (error status, empty body, bad
// JSON) gets the longer throttle wait. With MaxAttempts 0 the loop never
// gives up; only context cancellation breaks it.
func (f *Fetcher) fetchBody(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	attempts := 0

	for {
		body, status, class, err := f.attempt(ctx, endpoint, query)
		if err == nil {
			if attempts > 0 {
				f.logger.Info().
					Str("endpoint", endpoint).
					Int("attempts", attempts+1).
					Msg("Request succeeded after retry")
			}
			return body, nil
		}

		if ctx.Err() != nil {
			return nil, &FetchError{
				Endpoint:   endpoint,
				StatusCode: status,
				Class:      class,
				Attempts:   attempts + 1,
				Err:        fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err()),
			}
		}

		attempts++
		requestRetriesTotal.WithLabelValues(f.config.Source, string(class)).Inc()

		f.logger.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Str("error_class", string(class)).
			Int("status_code", status).
			Int("attempt", attempts).
			Msg("Transient request failure")

		if f.config.MaxAttempts > 0 && attempts >= f.config.MaxAttempts {
			retriesExhaustedTotal.WithLabelValues(f.config.Source).Inc()
			f.logger.Error().
				Str("endpoint", endpoint).
				Str("error_class", string(class)).
				Int("max_attempts", f.config.MaxAttempts).
				Msg("Retry attempts exhausted")
			return nil, &FetchError{
				Endpoint:   endpoint,
				StatusCode: status,
				Class:      class,
				Attempts:   attempts,
				Err:        fmt.Errorf("%w: %v", ErrAttemptsExhausted, err),
			}
		}

		var waitErr error
		if class == ErrorClassNetwork {
			waitErr = ratelimit.Countdown(ctx, f.logger, f.config.Waits.Transient)
		} else {
			f.logger.Debug().
				Dur("wait", f.config.Waits.Throttle).
				Msg("Waiting for upstream to recover")
			waitErr = ratelimit.Sleep(ctx, f.config.Waits.Throttle)
		}
		if waitErr != nil {
			return nil, &FetchError{
				Endpoint:   endpoint,
				StatusCode: status,
				Class:      class,
				Attempts:   attempts,
				Err:        fmt.Errorf("%w: %v", ErrContextCancelled, waitErr),
			}
		}
	}
}
