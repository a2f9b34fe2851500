// Package httpclient provides a resilient HTTP client with automatic
// retries, rate limiting, circuit breaking and structured error
// classification.
//
// A Client wraps net/http with a pipeline that every request flows
// through: an age sweep of tracked retry state, circuit breaker and
// rate limiter admission, request interceptors, the transport call,
// response interceptors and finally success or failure handling. Failed
// attempts that match the retry policy are re-issued through the same
// pipeline with backoff, so nested retries see exactly the behavior a
// fresh request would.
//
// Basic usage:
//
//	client, err := httpclient.New(httpclient.Config{
//		Name:    "orders",
//		BaseURL: "https://api.example.com",
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close(context.Background())
//
//	resp, err := client.Get(ctx, "/orders/42")
//
// All failures surface as *Error with a Kind describing what went
// wrong (network, timeout, rate limit, server error, ...) so callers
// can branch on errors.As plus the Is* helpers instead of string
// matching.
package httpclient
