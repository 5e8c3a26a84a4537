package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a payload fetch failure as transient. Fetch wraps
// network errors, 5xx responses, and rate limits in this type so that
// [Retry] attempts the request again; errors left unwrapped fail the fetch
// immediately.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay between attempts.
// Only errors wrapped in [RetryableError] are retried. Context cancellation
// during backoff returns ctx.Err(); an exhausted budget returns the last
// attempt's error.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.As(err, new(*RetryableError)) {
			return err
		}
		if attempt == attempts {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff retries a payload fetch with the defaults used across
// the CLI and server: three attempts starting at a one second delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}
