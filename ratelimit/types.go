package ratelimit

import (
	"context"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	// Allowed indicates whether the request may proceed.
	Allowed bool

	// Limit is the maximum number of requests allowed per window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetAt is when the current window expires.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 when the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Limiter is the interface rate limiting implementations satisfy.
type Limiter interface {
	// Allow checks whether one request is allowed for the key, counting
	// it against the limit.
	Allow(ctx context.Context, key string) (*Result, error)

	// Reset clears the limit state for the key.
	Reset(ctx context.Context, key string) error
}

// Store is the counter backend for the fixed-window limiter.
type Store interface {
	// Incr atomically increments the counter for the key, starting a new
	// window of the given length when none is active. It returns the
	// updated count and the time remaining in the window.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)

	// Delete removes the key from the store.
	Delete(ctx context.Context, key string) error
}
