package resilience

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor(t *testing.T) {
	t.Run("fires the heartbeat action on the interval", func(t *testing.T) {
		// Given: a fast monitor
		monitor := NewMonitor(10*time.Millisecond, time.Minute)

		var beats atomic.Int32
		monitor.Start(func() { beats.Add(1) }, func() {})
		defer monitor.Stop()

		// Then: several beats land within a short wait
		require.Eventually(t, func() bool {
			return beats.Load() >= 3
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("timeout fires exactly once per silence period", func(t *testing.T) {
		// Given: a monitor whose peer never answers
		monitor := NewMonitor(10*time.Millisecond, 25*time.Millisecond)

		var timeouts atomic.Int32
		monitor.Start(func() {}, func() { timeouts.Add(1) })
		defer monitor.Stop()

		// When: silence exceeds the timeout and then some
		time.Sleep(120 * time.Millisecond)

		// Then: the latch held it to a single callback
		assert.Equal(t, int32(1), timeouts.Load())
	})

	t.Run("a beat rearms timeout detection", func(t *testing.T) {
		// Given: a monitor that already timed out once
		monitor := NewMonitor(10*time.Millisecond, 25*time.Millisecond)

		var timeouts atomic.Int32
		monitor.Start(func() {}, func() { timeouts.Add(1) })
		defer monitor.Stop()

		require.Eventually(t, func() bool {
			return timeouts.Load() == 1
		}, time.Second, 5*time.Millisecond)

		// When: the peer comes back and then goes silent again
		monitor.Beat()

		// Then: a second silence period produces a second callback
		require.Eventually(t, func() bool {
			return timeouts.Load() == 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("beats keep the timeout from firing", func(t *testing.T) {
		// Given: a peer that heartbeats faster than the timeout
		monitor := NewMonitor(10*time.Millisecond, 50*time.Millisecond)

		var timeouts atomic.Int32
		monitor.Start(func() {}, func() { timeouts.Add(1) })
		defer monitor.Stop()

		for i := 0; i < 10; i++ {
			monitor.Beat()
			time.Sleep(10 * time.Millisecond)
		}

		// Then: no timeout ever fires
		assert.Zero(t, timeouts.Load())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		monitor := NewMonitor(10*time.Millisecond, time.Minute)
		monitor.Start(func() {}, func() {})

		monitor.Stop()
		monitor.Stop()
	})
}

func TestMonitor_SilentFor(t *testing.T) {
	monitor := NewMonitor(10*time.Millisecond, time.Minute)
	monitor.Start(func() {}, func() {})
	defer monitor.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.GreaterOrEqual(t, monitor.SilentFor(), 15*time.Millisecond)

	monitor.Beat()
	assert.Less(t, monitor.SilentFor(), 15*time.Millisecond)
}
