package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/apperror"
)

func TestBackoff_Delay(t *testing.T) {
	t.Run("doubles per attempt up to the cap", func(t *testing.T) {
		// Given: the default 1s/30s backoff
		backoff := NewBackoff(10, time.Second, 30*time.Second)

		// Then: the sequence is 1s 2s 4s 8s 16s and then caps at 30s
		expected := []time.Duration{
			time.Second,
			2 * time.Second,
			4 * time.Second,
			8 * time.Second,
			16 * time.Second,
			30 * time.Second,
			30 * time.Second,
		}
		for i, want := range expected {
			assert.Equal(t, want, backoff.Delay(), "attempt %d", i)
			backoff.Advance()
		}
	})

	t.Run("jitter stays within ten percent above the base", func(t *testing.T) {
		backoff := NewBackoff(5, time.Second, 30*time.Second)

		for i := 0; i < 100; i++ {
			jittered := backoff.DelayWithJitter()
			assert.GreaterOrEqual(t, jittered, time.Second)
			assert.LessOrEqual(t, jittered, 1100*time.Millisecond)
		}
	})

	t.Run("reset starts the sequence over", func(t *testing.T) {
		backoff := DefaultBackoff()
		backoff.Advance()
		backoff.Advance()
		require.Equal(t, 2, backoff.Attempt())

		backoff.Reset()

		assert.Zero(t, backoff.Attempt())
		assert.Equal(t, DefaultInitialDelay, backoff.Delay())
	})
}

func TestRetry(t *testing.T) {
	t.Run("returns on first success", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), DefaultBackoff(), func(context.Context) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries then succeeds", func(t *testing.T) {
		// Given: an operation that fails twice before succeeding
		backoff := NewBackoff(5, time.Millisecond, 5*time.Millisecond)
		calls := 0

		// When: retried
		err := Retry(context.Background(), backoff, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("not yet")
			}
			return nil
		})

		// Then: it succeeds on the third call and the backoff is reset
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Zero(t, backoff.Attempt())
	})

	t.Run("exhausting the budget surfaces the last error", func(t *testing.T) {
		// Given: an operation that always fails
		backoff := NewBackoff(2, time.Millisecond, 5*time.Millisecond)
		lastErr := errors.New("host unreachable")

		// When: retried to exhaustion
		err := Retry(context.Background(), backoff, func(context.Context) error {
			return lastErr
		})

		// Then: both the sentinel and the last error are visible
		require.ErrorIs(t, err, apperror.ErrRetriesExhausted)
		require.ErrorIs(t, err, lastErr)
	})

	t.Run("cancellation stops the loop between attempts", func(t *testing.T) {
		// Given: a context that dies during the first delay
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()

		backoff := NewBackoff(10, time.Second, time.Second)

		// When: the operation keeps failing
		err := Retry(ctx, backoff, func(context.Context) error {
			return errors.New("nope")
		})

		// Then: the retry loop reports the cancellation
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
