package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/dmitrymomot/emaillist/clientip"
)

// KeyFunc extracts a rate limit key from the request. An empty key
// skips limiting for that request.
type KeyFunc func(*http.Request) string

// ByClientIP keys rate limits on the originating client IP, looking
// through proxy headers.
func ByClientIP() KeyFunc {
	return clientip.GetIP
}

// Middleware enforces the limiter on every request, keyed by keyFunc.
// It fails open: a limiter error lets the request through rather than
// turning a storage outage into a site outage.
func Middleware(limiter Limiter, keyFunc KeyFunc) func(http.Handler) http.Handler {
	if keyFunc == nil {
		panic("ratelimit.Middleware: keyFunc is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := int(result.RetryAfter().Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
