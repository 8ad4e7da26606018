package util

import (
	"context"
	"fmt"
	"time"
)

// Retry calls fn up to attempts times, doubling the delay between failures
// starting from baseDelay. It returns nil as soon as fn succeeds. A cancelled
// context aborts the wait and returns the context error.
func Retry(ctx context.Context, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
