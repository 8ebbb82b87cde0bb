// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per key.
//
// The fetch controller keys requests by proxy endpoint so that parallel
// workers never push one endpoint past its configured rate.
type RateLimiter interface {
	// Wait blocks until a request for key can proceed or ctx is cancelled.
	Wait(ctx context.Context, key string) error

	// Allow reports whether a request for key can proceed immediately.
	Allow(key string) bool
}

// KeyedLimiter provides one token bucket per key
type KeyedLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	perKey   rate.Limit
	burst    int
}

// NewKeyedLimiter creates a limiter allowing requestsPerSecond per key.
// A non-positive rate disables limiting.
func NewKeyedLimiter(requestsPerSecond float64, burst int) *KeyedLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}

	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		perKey:   limit,
		burst:    burst,
	}
}

// Wait blocks until the request for key can proceed according to rate limits
func (kl *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return kl.getLimiter(key).Wait(ctx)
}

// Allow checks if a request can proceed immediately without blocking
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.getLimiter(key).Allow()
}

// getLimiter returns or creates the bucket for key
func (kl *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	kl.mu.RLock()
	limiter, exists := kl.limiters[key]
	kl.mu.RUnlock()

	if exists {
		return limiter
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := kl.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(kl.perKey, kl.burst)
	kl.limiters[key] = limiter

	return limiter
}

// Noop never throttles
type Noop struct{}

func (Noop) Wait(ctx context.Context, _ string) error { return ctx.Err() }
func (Noop) Allow(string) bool { return true }
