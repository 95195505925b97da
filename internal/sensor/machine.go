package sensor

import (
	"context"
	"time"

	"github.com/oshokin/tripwire/internal/domain/alarm"
)

// Machine is the two-state alarm machine. Transitions are edge-triggered:
// feeding the same classification repeatedly does nothing after the first
// transition.
type Machine struct {
	state      alarm.State
	flashPhase time.Duration
	heartbeat  *HeartbeatTimer
	emit       func(ctx context.Context, kind EventKind)
}

// NewMachine creates an Idle machine. emit receives every notification; it may be nil.
func NewMachine(heartbeatPeriod time.Duration, emit func(ctx context.Context, kind EventKind)) *Machine {
	if emit == nil {
		emit = func(context.Context, EventKind) {}
	}

	m := &Machine{
		state:     alarm.StateIdle,
		heartbeat: NewHeartbeatTimer(heartbeatPeriod),
		emit:      emit,
	}

	m.heartbeat.OnTimeout(func(ctx context.Context) {
		m.emit(ctx, EventHeartbeat)
	})

	return m
}

// State returns the current alarm state.
func (m *Machine) State() alarm.State {
	return m.state
}

// FlashPhase returns the time spent in the current Alert.
func (m *Machine) FlashPhase() time.Duration {
	return m.flashPhase
}

// HeartbeatRunning reports whether the heartbeat timer is started.
func (m *Machine) HeartbeatRunning() bool {
	return m.heartbeat.Running()
}

// Step applies one tick's classification and reports whether the state changed.
// A tick that stays in Alert advances the flash phase and the heartbeat by dt;
// the tick that enters Alert leaves both at zero.
func (m *Machine) Step(ctx context.Context, matched bool, dt time.Duration) bool {
	switch {
	case matched && m.state == alarm.StateIdle:
		m.trigger(ctx)

		return true
	case !matched && m.state == alarm.StateAlert:
		m.reset(ctx)

		return true
	case m.state == alarm.StateAlert:
		m.flashPhase += dt
		m.heartbeat.Advance(ctx, dt)
	}

	return false
}

func (m *Machine) trigger(ctx context.Context) {
	m.state = alarm.StateAlert
	m.flashPhase = 0
	m.heartbeat.Start()
	m.emit(ctx, EventAlarmTriggered)
}

func (m *Machine) reset(ctx context.Context) {
	m.state = alarm.StateIdle
	m.heartbeat.Stop()
	m.emit(ctx, EventAlarmReset)
}
