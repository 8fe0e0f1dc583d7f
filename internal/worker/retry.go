package worker

import (
	"context"
	"time"
)

const maxJobAttempts = 3

// retryBaseDelay is the first backoff step; tests shrink it.
var retryBaseDelay = time.Second

// withRetry runs fn up to maxAttempts times with exponential backoff
// (base, 2×base, …). It returns the number of attempts made and the last error.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) (int, error) {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * retryBaseDelay
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return i + 1, nil
	}
	return maxAttempts, lastErr
}
