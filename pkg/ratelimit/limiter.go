package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another request
	Wait()
	// Reset resets the rate limiter state
	Reset()
}

// FixedInterval enforces a flat minimum delay between consecutive
// requests. It is the crude pacing the remote service expects; nothing
// adaptive, no response-header awareness.
type FixedInterval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewFixedInterval creates a fixed-interval rate limiter
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{
		interval: interval,
	}
}

// Allow checks if a request can proceed without waiting
func (f *FixedInterval) Allow() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if f.last.IsZero() || now.Sub(f.last) >= f.interval {
		f.last = now
		return true
	}

	return false
}

// Wait blocks until a full interval has elapsed since the previous request
func (f *FixedInterval) Wait() {
	f.mu.Lock()
	var wait time.Duration
	if !f.last.IsZero() {
		wait = f.interval - time.Since(f.last)
	}
	f.mu.Unlock()

	if wait > 0 {
		time.Sleep(wait)
	}

	f.mu.Lock()
	f.last = time.Now()
	f.mu.Unlock()
}

// Reset clears the limiter so the next request proceeds immediately
func (f *FixedInterval) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.last = time.Time{}
}
