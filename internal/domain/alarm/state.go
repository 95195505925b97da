package alarm

import (
	"fmt"
	"time"
)

// State is the alarm machine state.
type State uint8

const (
	// StateIdle means the beam is clear of the tracked target.
	StateIdle State = iota
	// StateAlert means the beam is occluded by the tracked target or one of its descendants.
	StateAlert
)

// String returns the lower-case wire name of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAlert:
		return "alert"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// ParseState converts a wire name back into a State.
func ParseState(s string) (State, bool) {
	switch s {
	case "idle":
		return StateIdle, true
	case "alert":
		return StateAlert, true
	default:
		return StateIdle, false
	}
}

// Trigger identifies what caused the last Idle to Alert transition.
type Trigger struct {
	// Object is the collider the beam hit.
	Object string
	// Target is the tracked entity the collider belongs to.
	Target string
}

// Clone returns a deep copy of the trigger.
func (t *Trigger) Clone() *Trigger {
	if t == nil {
		return nil
	}

	cloned := *t

	return &cloned
}

// Snapshot represents the sensor status at a specific tick.
type Snapshot struct {
	// SensorID identifies the sensor instance.
	SensorID string
	// Timestamp is when the snapshot was taken.
	Timestamp time.Time
	// State is the alarm state after the tick.
	State State
	// Tick is the number of ticks processed so far.
	Tick uint64
	// FlashPhase is the time spent in the current Alert.
	FlashPhase time.Duration
	// FlashIntensity is the overlay alpha in [0, 0.6].
	FlashIntensity float64
	// BeamColor is the beam color as #RRGGBBAA.
	BeamColor string
	// Occluded reports whether anything blocked the beam.
	Occluded bool
	// EndpointX and EndpointY are the beam endpoint in the probe's local frame.
	EndpointX float64
	EndpointY float64
	// Heartbeats counts heartbeat notifications since the sensor started.
	Heartbeats uint64
	// LastTrigger is the cause of the most recent alarm, nil if it never fired.
	LastTrigger *Trigger
	// LastTransition is when the state last changed; zero if it never changed.
	LastTransition time.Time
}

// Clone returns a copy of the snapshot to avoid leaking internal references.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	cloned := *s
	cloned.LastTrigger = s.LastTrigger.Clone()

	return &cloned
}

// IsAlert is a shorthand for s.State == StateAlert.
func (s *Snapshot) IsAlert() bool {
	return s != nil && s.State == StateAlert
}
