// Package ratelimit provides a keyed token bucket rate limiter. Each key gets
// its own bucket, so one noisy client cannot starve the rest.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter manages per-key rate limiting.
type KeyedRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a keyed rate limiter allowing rps requests per second per key
// with the given burst size.
func New(rps float64, burst int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request for the key may proceed right now.
// Use for inbound request protection.
func (krl *KeyedRateLimiter) Allow(key string) bool {
	return krl.getLimiter(key).Allow()
}

// Wait blocks until a request for the key is allowed or the context is
// canceled. Use for outbound requests that should pace themselves.
func (krl *KeyedRateLimiter) Wait(ctx context.Context, key string) error {
	return krl.getLimiter(key).Wait(ctx)
}

func (krl *KeyedRateLimiter) getLimiter(key string) *rate.Limiter {
	krl.mu.RLock()
	limiter, exists := krl.limiters[key]
	krl.mu.RUnlock()
	if exists {
		return limiter
	}

	krl.mu.Lock()
	defer krl.mu.Unlock()

	// Re-check: another goroutine may have created it.
	if limiter, exists = krl.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(krl.limit, krl.burst)
	krl.limiters[key] = limiter
	return limiter
}
