package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-scope rate limiting. Batch workers share one
// limiter so concurrent shadow audits against the same provider stay
// within its request budget.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter with a shared default rate
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the scope's limiter admits a request or the context
// is cancelled
func (l *Limiter) Wait(ctx context.Context, scope string) error {
	return l.getLimiter(scope).Wait(ctx)
}

// Allow checks if a request is admitted without waiting
func (l *Limiter) Allow(scope string) bool {
	return l.getLimiter(scope).Allow()
}

// getLimiter returns the rate limiter for a scope
func (l *Limiter) getLimiter(scope string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[scope]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock.
	if limiter, exists := l.limiters[scope]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[scope] = limiter
	return limiter
}

// SetScopeRate overrides the rate limit for one scope
func (l *Limiter) SetScopeRate(scope string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[scope] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
