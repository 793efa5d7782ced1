package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/leituraapp/leitura-server/internal/ratelimit"
)

// envelopeVersion is bumped when the response envelope shape changes.
const envelopeVersion = 1

// Envelope is the JSON wrapper around every API response.
type Envelope struct {
	V       int       `json:"v"`
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// EnvelopeTransformer wraps every response body in the standard envelope so
// clients can parse success and failure uniformly.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{V: envelopeVersion, Success: false, Error: apiErr}, nil
	}

	success := strings.HasPrefix(status, "2")
	return &Envelope{V: envelopeVersion, Success: success, Data: v}, nil
}

// RateLimiter is the keyed limiter used to protect inbound endpoints.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a rate limiter from a per-interval allowance,
// e.g. NewRateLimiter(20, time.Minute, 10) for 20 requests a minute.
func NewRateLimiter(perInterval int, interval time.Duration, burst int) *RateLimiter {
	return ratelimit.New(float64(perInterval)/interval.Seconds(), burst)
}

// RateLimitMiddleware limits requests per client IP, answering 429 when the
// bucket is empty. Used on the auth endpoints to slow down guessing.
func RateLimitMiddleware(limiter *RateLimiter, logger interface{ Warn(msg string, args ...any) }) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"v":1,"success":false,"error":{"code":"RATE_LIMITED","message":"Too many requests. Please try again later."}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP, preferring proxy headers over RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
