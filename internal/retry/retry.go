// Package retry runs an operation with bounded attempts and exponential
// backoff.
package retry

import (
	"context"
	"time"
)

// Policy bounds a retry loop.
type Policy struct {
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Default mirrors the store busy-retry cadence.
func Default() Policy {
	return Policy{Attempts: 3, InitialBackoff: 200 * time.Millisecond, MaxBackoff: 2 * time.Second}
}

// Do calls op until it succeeds, returns an error retryable rejects, or the
// attempts run out. It returns the number of attempts made and the last error.
func Do(ctx context.Context, p Policy, retryable func(error) bool, op func(context.Context) error) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := p.InitialBackoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return attempt, nil
		}
		if retryable == nil || !retryable(lastErr) || attempt == attempts {
			return attempt, lastErr
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return attempt, ctx.Err()
			}
		}
		if next := delay * 2; p.MaxBackoff <= 0 || next <= p.MaxBackoff {
			delay = next
		} else {
			delay = p.MaxBackoff
		}
	}
	return attempts, lastErr
}
