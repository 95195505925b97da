package sensor

import (
	"context"
	"time"
)

// DefaultHeartbeatPeriod is the heartbeat period used when none is configured.
const DefaultHeartbeatPeriod = 500 * time.Millisecond

// HeartbeatTimer is a periodic timer driven by the caller's tick loop.
// It has no goroutine of its own: time only passes through Advance.
type HeartbeatTimer struct {
	period    time.Duration
	elapsed   time.Duration
	running   bool
	onTimeout []func(ctx context.Context)
}

// NewHeartbeatTimer creates a stopped timer. A non-positive period falls back to DefaultHeartbeatPeriod.
func NewHeartbeatTimer(period time.Duration) *HeartbeatTimer {
	if period <= 0 {
		period = DefaultHeartbeatPeriod
	}

	return &HeartbeatTimer{period: period}
}

// OnTimeout registers fn to run every time the period elapses.
func (t *HeartbeatTimer) OnTimeout(fn func(ctx context.Context)) {
	t.onTimeout = append(t.onTimeout, fn)
}

// Start (re)starts the timer from zero.
func (t *HeartbeatTimer) Start() {
	t.running = true
	t.elapsed = 0
}

// Stop halts the timer. Pending partial periods are discarded.
func (t *HeartbeatTimer) Stop() {
	t.running = false
	t.elapsed = 0
}

// Running reports whether the timer is started.
func (t *HeartbeatTimer) Running() bool {
	return t.running
}

// Period returns the firing period.
func (t *HeartbeatTimer) Period() time.Duration {
	return t.period
}

// Advance moves the timer forward by dt and fires once per completed period.
// It returns the number of timeouts fired. A stopped timer ignores Advance.
func (t *HeartbeatTimer) Advance(ctx context.Context, dt time.Duration) int {
	if !t.running || dt <= 0 {
		return 0
	}

	t.elapsed += dt

	fired := 0
	for t.running && t.elapsed >= t.period {
		t.elapsed -= t.period
		fired++

		for _, fn := range t.onTimeout {
			fn(ctx)
		}
	}

	return fired
}
