package transport

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outgoing requests and honours provider throttling hints
type RateLimiter struct {
	limiter *rate.Limiter

	// pause requested by a 429 Retry-After
	pausedUntil time.Time
	mu          sync.Mutex
}

// NewRateLimiter creates a limiter allowing rps requests per second with the given burst
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until the next request is allowed
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	until := r.pausedUntil
	r.mu.Unlock()

	if d := time.Until(until); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return r.limiter.Wait(ctx)
}

// Pause holds back further requests for d
func (r *RateLimiter) Pause(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if until := time.Now().Add(d); until.After(r.pausedUntil) {
		r.pausedUntil = until
	}
}
