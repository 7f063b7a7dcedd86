package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-analyzer rate limiting. Remote analyzers (the
// clinical reasoner) are metered services; local analyzers are never limited
// because they only consume process CPU.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// Wait waits for rate limit clearance for the named analyzer
func (l *Limiter) Wait(ctx context.Context, analyzer string) error {
	return l.getLimiter(analyzer).Wait(ctx)
}

// Allow checks if a call is allowed without waiting
func (l *Limiter) Allow(analyzer string) bool {
	return l.getLimiter(analyzer).Allow()
}

// getLimiter returns the rate limiter for an analyzer
func (l *Limiter) getLimiter(analyzer string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[analyzer]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[analyzer]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[analyzer] = limiter

	return limiter
}

// SetAnalyzerRate sets a custom rate limit for a specific analyzer
func (l *Limiter) SetAnalyzerRate(analyzer string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[analyzer] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}
