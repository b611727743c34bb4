// Package throttle provides a token-bucket rate limiter shared across all
// lightweight fetches in the process.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket that refills at a steady rate. Callers block in
// Wait until a token is available; requests queue but are never dropped.
type Limiter struct {
	capacity   float64 // maximum tokens (burst capacity)
	refillRate float64 // tokens per second
	tokens     float64 // current tokens available
	lastRefill time.Time
	mu         sync.Mutex
}

// NewLimiter creates a limiter allowing ratePerSecond requests per second
// with the given burst capacity. The bucket starts full.
func NewLimiter(ratePerSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		capacity:   float64(burst),
		refillRate: ratePerSecond,
		tokens:     float64(burst),
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available and reports whether it did.
func (l *Limiter) Allow() bool {
	ok, _ := l.take()
	return ok
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		ok, retryIn := l.take()
		if ok {
			return nil
		}

		timer := time.NewTimer(retryIn)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// take refills the bucket based on elapsed time and tries to consume one
// token. On failure it returns the duration until the next token arrives.
func (l *Limiter) take() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.lastRefill)
	l.tokens = min(l.capacity, l.tokens+elapsed.Seconds()*l.refillRate)
	l.lastRefill = now

	if l.tokens >= 1.0 {
		l.tokens -= 1.0
		return true, 0
	}

	needed := 1.0 - l.tokens
	return false, time.Duration(needed / l.refillRate * float64(time.Second))
}
