package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the fetcher.
var (
	// ErrAttemptsExhausted is returned when a bounded fetcher runs out of
	// attempts. Unbounded fetchers (MaxAttempts 0) never return it.
	ErrAttemptsExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during
	// a request or a retry wait.
	ErrContextCancelled = errors.New("context cancelled")
)

// FetchError carries the terminal failure of a fetch with its classification.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Class      ErrorClass
	Attempts   int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s failure (status %d) after %d attempts: %v",
			e.Endpoint, e.Class, e.StatusCode, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s failure after %d attempts: %v",
		e.Endpoint, e.Class, e.Attempts, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}
