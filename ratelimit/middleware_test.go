package ratelimit_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emaillist/ratelimit"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_AllowsWithinLimit(t *testing.T) {
	t.Parallel()

	limiter := newMemoryLimiter(t, 2, time.Minute)
	handler := ratelimit.Middleware(limiter, ratelimit.ByClientIP())(okHandler())

	for range 2 {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.1:1000"
		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestMiddleware_DeniesOverLimit(t *testing.T) {
	t.Parallel()

	limiter := newMemoryLimiter(t, 1, time.Minute)
	handler := ratelimit.Middleware(limiter, ratelimit.ByClientIP())(okHandler())

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:1000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddleware_SeparateClients(t *testing.T) {
	t.Parallel()

	limiter := newMemoryLimiter(t, 1, time.Minute)
	handler := ratelimit.Middleware(limiter, ratelimit.ByClientIP())(okHandler())

	first := httptest.NewRequest("GET", "/", nil)
	first.RemoteAddr = "192.0.2.1:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest("GET", "/", nil)
	second.RemoteAddr = "192.0.2.2:1000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code, "a different client has its own budget")
}

func TestMiddleware_EmptyKeySkipsLimiting(t *testing.T) {
	t.Parallel()

	limiter := newMemoryLimiter(t, 1, time.Minute)
	handler := ratelimit.Middleware(limiter, func(*http.Request) string { return "" })(okHandler())

	for range 5 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

// erroringLimiter simulates a storage outage.
type erroringLimiter struct{}

func (erroringLimiter) Allow(context.Context, string) (*ratelimit.Result, error) {
	return nil, errors.New("store down")
}

func (erroringLimiter) Reset(context.Context, string) error { return nil }

func TestMiddleware_FailsOpenOnError(t *testing.T) {
	t.Parallel()

	handler := ratelimit.Middleware(erroringLimiter{}, ratelimit.ByClientIP())(okHandler())

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.1:1000"
	handler.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code, "limiter errors must not block requests")
}

func TestMiddleware_NilKeyFuncPanics(t *testing.T) {
	t.Parallel()

	limiter := newMemoryLimiter(t, 1, time.Minute)
	assert.Panics(t, func() {
		ratelimit.Middleware(limiter, nil)
	})
}
