// Package resilience provides the fault tolerance helpers used by the
// collectors and the health checks.
//
// The package supports:
//   - Circuit breakers around factbook, feed and page fetches and database pings
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.FactbookAPIConfig())
//	doc, err := circuitbreaker.Do(cb, func() (*Document, error) {
//	    return fetch(ctx)
//	})
//
//	err := retry.WithBackoff(ctx, retry.FactbookConfig(), func() error {
//	    return performOperation()
//	})
package resilience
