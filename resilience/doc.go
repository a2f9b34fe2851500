// Package resilience provides the admission-control building blocks of the
// robusthttp client.
//
// This package includes:
//   - CircuitBreaker: Fails fast while a dependency is unhealthy
//   - RateLimiter: Bounds request throughput with a token bucket
//   - Backoff: Maps a retry attempt number to a wait duration
//
// The client wires them together per instance, but each is usable on its own:
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("api"))
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{MaxRequests: 100, Window: time.Second})
//
//	if !cb.Allow() {
//	    return resilience.ErrCircuitOpen
//	}
//	if !rl.TryAcquire() {
//	    return resilience.ErrRateLimited
//	}
package resilience
