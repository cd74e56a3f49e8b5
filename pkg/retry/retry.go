// Package retry implements the exponential-backoff combinator that wraps
// the SPARQL client's and the embedding service's outbound calls; chat
// calls are not retried (spec §4.A's fail mode:
// "provider unreachable -> retryable with exponential backoff (3 attempts,
// base 250ms)").
package retry

import (
	"context"
	"time"
)

// Policy configures a backoff schedule.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Multiplier scales the delay after every failed attempt. Defaults to 2
	// when zero.
	Multiplier float64
}

// DefaultPolicy is spec §4.A's documented default: 3 attempts, base 250ms.
var DefaultPolicy = Policy{MaxAttempts: 3, BaseDelay: 250 * time.Millisecond, Multiplier: 2}

// IsRetryable classifies whether an error should trigger another attempt.
// Callers that don't care pass nil and every error is retried.
type IsRetryable func(error) bool

// Do runs fn up to policy.MaxAttempts times, sleeping an exponentially
// growing delay between attempts. It returns the last error if every
// attempt fails, or nil as soon as one succeeds. Sleep is interrupted by
// ctx cancellation, which is returned immediately.
func Do(ctx context.Context, policy Policy, retryable IsRetryable, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultPolicy.BaseDelay
	}
	mult := policy.Multiplier
	if mult <= 0 {
		mult = 2
	}

	delay := policy.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if retryable != nil && !retryable(lastErr) {
			return lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * mult)
	}
	return lastErr
}
