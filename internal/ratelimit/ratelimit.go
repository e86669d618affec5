package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket limiter shared by the upstream API clients.
// Tokens refill continuously at the configured rate; the bucket holds at
// most one second of tokens so short bursts stay within provider limits.
type Limiter struct {
	mu         sync.Mutex
	rate       float64 // tokens per second
	tokens     float64
	burst      float64
	lastRefill time.Time
}

// New creates a limiter allowing rps requests per second
func New(rps float64) *Limiter {
	if rps <= 0 {
		rps = 1.0
	}
	// The bucket must hold at least one whole token or sub-1 rates
	// could never issue a request.
	burst := rps
	if burst < 1.0 {
		burst = 1.0
	}
	return &Limiter{
		rate:       rps,
		tokens:     burst,
		burst:      burst,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.take() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryInterval()):
		}
	}
}

// Allow reports whether a token is immediately available, without blocking
func (l *Limiter) Allow() bool {
	return l.take()
}

func (l *Limiter) take() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.tokens += now.Sub(l.lastRefill).Seconds() * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.lastRefill = now

	if l.tokens < 1.0 {
		return false
	}
	l.tokens -= 1.0
	return true
}

func (l *Limiter) retryInterval() time.Duration {
	return time.Duration(float64(time.Second) / l.rate)
}
