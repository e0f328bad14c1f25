package ratelimit

import (
	"context"
	"time"
)

// FixedWindow limits requests to a fixed count per time window. Simpler
// and cheaper than sliding-window or token-bucket schemes, and accurate
// enough for abuse limits like "5 requests per minute per client".
type FixedWindow struct {
	store  Store
	limit  int
	window time.Duration
}

// NewFixedWindow creates a fixed-window rate limiter allowing limit
// requests per window.
func NewFixedWindow(store Store, limit int, window time.Duration) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	return &FixedWindow{
		store:  store,
		limit:  limit,
		window: window,
	}, nil
}

// Allow counts one request against the key's current window.
func (fw *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := fw.store.Incr(ctx, key, fw.window)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = fw.window
	}

	return &Result{
		Allowed:   count <= int64(fw.limit),
		Limit:     fw.limit,
		Remaining: max(0, fw.limit-int(count)),
		ResetAt:   time.Now().Add(ttl),
	}, nil
}

// Reset clears the limit state for the key.
func (fw *FixedWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	return fw.store.Delete(ctx, key)
}
