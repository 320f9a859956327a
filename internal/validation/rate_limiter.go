package validation

import (
	"sync"
	"time"
)

const (
	DefaultRateLimit  = 5
	DefaultRateWindow = time.Second
)

// RateLimiter - sliding-window message rate limiter.
type RateLimiter struct {
	mu         sync.Mutex
	timestamps []time.Time
	max        int
	window     time.Duration
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{max: max, window: window}
}

// Allow reports whether another message fits in the current window and
// records it if so.
func (that *RateLimiter) Allow() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	now := time.Now()

	kept := that.timestamps[:0]
	for _, ts := range that.timestamps {
		if now.Sub(ts) < that.window {
			kept = append(kept, ts)
		}
	}
	that.timestamps = kept

	if len(that.timestamps) >= that.max {
		return false
	}

	that.timestamps = append(that.timestamps, now)

	return true
}

func (that *RateLimiter) Reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.timestamps = nil
}
