package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("denies once the window fills up", func(t *testing.T) {
		// Given: a limiter with the default budget
		limiter := NewRateLimiter(DefaultRateLimit, time.Minute)

		// When: the budget is spent
		for i := 0; i < DefaultRateLimit; i++ {
			assert.True(t, limiter.Allow(), "message %d should pass", i)
		}

		// Then: the next message is denied
		assert.False(t, limiter.Allow())
	})

	t.Run("window expiry restores the budget", func(t *testing.T) {
		// Given: a tiny window, fully spent
		limiter := NewRateLimiter(2, 20*time.Millisecond)
		assert.True(t, limiter.Allow())
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())

		// When: the window passes
		time.Sleep(30 * time.Millisecond)

		// Then: messages flow again
		assert.True(t, limiter.Allow())
	})

	t.Run("reset clears the window immediately", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		assert.True(t, limiter.Allow())
		assert.False(t, limiter.Allow())

		limiter.Reset()

		assert.True(t, limiter.Allow())
	})
}
