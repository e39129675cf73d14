// Package resilience keeps recq responsive under load and transient
// failures.
//
//   - Retry re-runs an operation with exponential backoff while its error is
//     retryable, e.g. a SQLite database that is briefly locked.
//   - Bulkhead caps the number of plans executing at once.
//   - RateLimiter is a token bucket guarding the query API.
//
// Rejections are reported as AppErrors (SERVICE_UNAVAILABLE, RATE_LIMITED)
// so the server renders them without extra mapping:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{Name: "query", MaxConcurrent: 8})
//	res, err := resilience.ExecuteWithResult(bh, ctx, func() (*plan.Result, error) {
//	    return exec.Execute(ctx, p, in)
//	})
package resilience
