// Package resilience implements connection retry with exponential
// backoff and silent-disconnect detection via heartbeats.
package resilience

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/apperror"
)

const (
	DefaultMaxRetries   = 5
	DefaultInitialDelay = time.Second
	DefaultMaxDelay     = 30 * time.Second

	jitterFraction = 0.1
)

// Backoff computes the delay sequence min(initial * 2^n, max) with ±10%
// jitter, so simultaneous reconnects to the same host don't synchronize.
type Backoff struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	attempt      int
}

func NewBackoff(maxRetries int, initialDelay, maxDelay time.Duration) *Backoff {
	return &Backoff{
		maxRetries:   maxRetries,
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
}

func DefaultBackoff() *Backoff {
	return NewBackoff(DefaultMaxRetries, DefaultInitialDelay, DefaultMaxDelay)
}

// Delay - base delay for the current attempt, without jitter.
func (that *Backoff) Delay() time.Duration {
	delay := that.initialDelay << uint(that.attempt)
	if delay > that.maxDelay || delay <= 0 {
		delay = that.maxDelay
	}

	return delay
}

// DelayWithJitter - base delay plus 0–10% jitter, never below the base.
func (that *Backoff) DelayWithJitter() time.Duration {
	delay := that.Delay()
	jitter := time.Duration(rand.Float64() * jitterFraction * float64(delay)) //nolint: gosec // it's ok

	return delay + jitter
}

func (that *Backoff) CanRetry() bool {
	return that.attempt < that.maxRetries
}

func (that *Backoff) Advance() {
	if that.CanRetry() {
		that.attempt++
	}
}

func (that *Backoff) Reset() {
	that.attempt = 0
}

func (that *Backoff) Attempt() int {
	return that.attempt
}

// Retry runs fn until it succeeds, waiting out the backoff delay between
// attempts. Exhausting the retry budget surfaces the last error; this
// never retries silently forever.
func Retry(ctx context.Context, backoff *Backoff, fn func(context.Context) error) error {
	for {
		err := fn(ctx)
		if err == nil {
			backoff.Reset()
			return nil
		}

		if !backoff.CanRetry() {
			return fmt.Errorf("%w: %w", apperror.ErrRetriesExhausted, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry canceled: %w", ctx.Err())
		case <-time.After(backoff.DelayWithJitter()):
		}

		backoff.Advance()
	}
}
