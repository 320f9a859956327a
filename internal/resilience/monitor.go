package resilience

import (
	"sync"
	"time"
)

const (
	DefaultHeartbeatInterval = 3 * time.Second
	DefaultHeartbeatTimeout  = 8 * time.Second
)

// Monitor detects peers that went dark without an explicit disconnect.
// It invokes a caller-supplied heartbeat action on a fixed interval and
// independently tracks the time since the last received heartbeat; when
// that exceeds the timeout it fires the timeout callback exactly once per
// silence period and rearms on the next Beat.
type Monitor struct {
	interval time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	lastBeat time.Time
	fired    bool
	stop     chan struct{}
	stopped  bool
}

func NewMonitor(interval, timeout time.Duration) *Monitor {
	return &Monitor{
		interval: interval,
		timeout:  timeout,
	}
}

// Start begins heartbeating. onBeat is the outgoing heartbeat action
// (e.g. send a Ping); onTimeout fires when the peer has been silent
// longer than the timeout threshold.
func (that *Monitor) Start(onBeat, onTimeout func()) {
	that.mu.Lock()
	that.lastBeat = time.Now()
	that.fired = false
	that.stop = make(chan struct{})
	that.stopped = false
	stop := that.stop
	that.mu.Unlock()

	go that.run(stop, onBeat, onTimeout)
}

func (that *Monitor) run(stop chan struct{}, onBeat, onTimeout func()) {
	beatTicker := time.NewTicker(that.interval)
	defer beatTicker.Stop()

	// check silence more often than the timeout so detection isn't late
	checkTicker := time.NewTicker(that.interval / 2)
	defer checkTicker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-beatTicker.C:
			onBeat()
		case <-checkTicker.C:
			if that.silenceExceeded() {
				onTimeout()
			}
		}
	}
}

// silenceExceeded flips the fired latch so a single silence period can
// only produce one timeout callback.
func (that *Monitor) silenceExceeded() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.fired {
		return false
	}

	if time.Since(that.lastBeat) <= that.timeout {
		return false
	}

	that.fired = true

	return true
}

// Beat records a received heartbeat and rearms timeout detection.
func (that *Monitor) Beat() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.lastBeat = time.Now()
	that.fired = false
}

func (that *Monitor) SilentFor() time.Duration {
	that.mu.Lock()
	defer that.mu.Unlock()

	return time.Since(that.lastBeat)
}

func (that *Monitor) Stop() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.stop != nil && !that.stopped {
		close(that.stop)
		that.stopped = true
	}
}
