// Package retry provides the backoff helper shared by the AI providers.
package retry

import (
	"context"
	"errors"
	"time"
)

// transientError marks a failure worth retrying (rate limits, 5xx responses).
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so WithBackoff will retry it.
func Transient(err error) error { return &transientError{err: err} }

// WithBackoff runs fn up to maxRetries+1 times with exponential backoff.
// Only errors wrapped by Transient are retried; everything else returns
// immediately. Context cancellation aborts the wait between attempts.
func WithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var te *transientError
		if !errors.As(lastErr, &te) {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
