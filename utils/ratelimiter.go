package utils

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces outgoing requests by a fixed delay
type RateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	delay    time.Duration
}

// NewRateLimiter creates a new RateLimiter with the given delay in milliseconds.
// A delay of zero disables waiting.
func NewRateLimiter(delayMs int) *RateLimiter {
	return &RateLimiter{
		delay: time.Duration(delayMs) * time.Millisecond,
	}
}

// Wait blocks until enough time has passed since the last request or ctx is done
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.lastCall)
	if elapsed < r.delay {
		t := time.NewTimer(r.delay - elapsed)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	r.lastCall = time.Now()
	return nil
}
