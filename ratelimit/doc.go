// Package ratelimit provides fixed-window request rate limiting with
// pluggable counter storage and net/http middleware.
//
// The in-memory store suits single-instance deployments; the Redis store
// keeps one shared budget across instances. The middleware fails open on
// store errors and sets the usual X-RateLimit-* and Retry-After headers.
//
//	store := ratelimit.NewMemoryStore()
//	limiter, err := ratelimit.NewFixedWindow(store, 5, time.Minute)
//	if err != nil {
//	    // handle invalid configuration
//	}
//
//	r.Use(ratelimit.Middleware(limiter, ratelimit.ByClientIP()))
package ratelimit
