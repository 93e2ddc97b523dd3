package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryPolicy controls Retry.
type RetryPolicy struct {
	// MaxAttempts counts the first call. Values below 1 mean a single attempt.
	MaxAttempts int
	// Backoff returns the wait after the given failed attempt (1-based).
	// Nil means no wait.
	Backoff func(attempt int) time.Duration
	// RetryIf reports whether err is worth another attempt. Nil retries
	// everything except context cancellation.
	RetryIf func(err error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// ExponentialBackoff returns initial * factor^(attempt-1), capped at ceiling and
// spread by up to ±jitter of itself.
func ExponentialBackoff(initial, ceiling time.Duration, factor, jitter float64) func(int) time.Duration {
	return func(attempt int) time.Duration {
		d := float64(initial) * math.Pow(factor, float64(attempt-1))
		if jitter > 0 {
			d += (rand.Float64()*2 - 1) * d * jitter
		}
		if d > float64(ceiling) {
			d = float64(ceiling)
		}
		if d < 0 {
			d = float64(initial)
		}
		return time.Duration(d)
	}
}

func retryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry calls fn until it succeeds, the policy gives up, or ctx is done. It
// returns the last error from fn, or ctx.Err() when cancelled while waiting.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := max(p.MaxAttempts, 1)
	retryIf := p.RetryIf
	if retryIf == nil {
		retryIf = retryable
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts || !retryIf(err) {
			return err
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
		if wait <= 0 {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
