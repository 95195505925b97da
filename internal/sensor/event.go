package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/tripwire/internal/logger"
)

// EventKind names a notification emitted by the alarm machine.
type EventKind uint8

const (
	// EventAlarmTriggered is emitted on the Idle to Alert transition.
	EventAlarmTriggered EventKind = iota + 1
	// EventAlarmReset is emitted on the Alert to Idle transition.
	EventAlarmReset
	// EventHeartbeat is emitted every heartbeat period while alerting.
	EventHeartbeat
)

// String returns the wire name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventAlarmTriggered:
		return "alarm_triggered"
	case EventAlarmReset:
		return "alarm_reset"
	case EventHeartbeat:
		return "heartbeat"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// ParseEventKind converts a wire name back into an EventKind.
func ParseEventKind(s string) (EventKind, bool) {
	for _, k := range []EventKind{EventAlarmTriggered, EventAlarmReset, EventHeartbeat} {
		if k.String() == s {
			return k, true
		}
	}

	return 0, false
}

// Event is a notification together with the tick that produced it.
type Event struct {
	Kind     EventKind
	SensorID string
	// Tick is the 1-based tick number.
	Tick uint64
	// Elapsed is the simulation time at the end of the tick.
	Elapsed time.Duration
	// Object is the collider hit on this tick, if any.
	Object ObjectID
	// Target is the tracked target.
	Target ObjectID
}

// Listener consumes notifications. It is called synchronously from Tick.
type Listener interface {
	OnEvent(ctx context.Context, event Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, event Event)

// OnEvent calls f(ctx, event).
func (f ListenerFunc) OnEvent(ctx context.Context, event Event) {
	f(ctx, event)
}

// Notifier fans events out to listeners in subscription order.
type Notifier struct {
	listeners []Listener
}

// Subscribe adds l to the notifier.
func (n *Notifier) Subscribe(l Listener) {
	n.listeners = append(n.listeners, l)
}

// Dispatch delivers event to every listener.
func (n *Notifier) Dispatch(ctx context.Context, event Event) {
	for _, l := range n.listeners {
		l.OnEvent(ctx, event)
	}
}

// LogListener writes alarm notifications to the context logger.
type LogListener struct{}

// OnEvent logs event.
func (LogListener) OnEvent(ctx context.Context, event Event) {
	switch event.Kind {
	case EventAlarmTriggered:
		logger.WarnKV(ctx, "Alarm triggered, target detected",
			"sensor_id", event.SensorID, "tick", event.Tick, "object", event.Object, "target", event.Target)
	case EventAlarmReset:
		logger.InfoKV(ctx, "Alarm reset", "sensor_id", event.SensorID, "tick", event.Tick)
	case EventHeartbeat:
		logger.InfoKV(ctx, "Alarm still active", "sensor_id", event.SensorID, "tick", event.Tick)
	}
}
