// Package resilience holds the failure-handling primitives shared by the
// outbound clients and the HTTP edge. Breaker fails fast while a downstream
// dependency keeps failing, Retry re-runs an operation under a RetryPolicy,
// and Limiter and KeyedLimiter are token buckets for request budgets.
//
//	b := resilience.NewBreaker("user-data", resilience.BreakerConfig{Enabled: true})
//	err := b.Execute(func() error { return call(ctx) })
//	if errors.Is(err, resilience.ErrCircuitOpen) {
//		// the dependency is being given time to recover
//	}
package resilience
