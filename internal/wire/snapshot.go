package wire

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/sensor"
)

// Field names of the snapshot struct.
const (
	fieldSensorID       = "sensor_id"
	fieldTimestamp      = "timestamp"
	fieldState          = "state"
	fieldTick           = "tick"
	fieldFlashPhase     = "flash_phase_seconds"
	fieldFlashIntensity = "flash_intensity"
	fieldBeamColor      = "beam_color"
	fieldOccluded       = "occluded"
	fieldEndpoint       = "endpoint"
	fieldHeartbeats     = "heartbeats"
	fieldLastTrigger    = "last_trigger"
	fieldLastTransition = "last_transition"
	fieldObject         = "object"
	fieldTarget         = "target"
	fieldX              = "x"
	fieldY              = "y"
	fieldKind           = "kind"
	fieldElapsed        = "elapsed_seconds"
)

var (
	// ErrNilMessage is returned when decoding a nil message.
	ErrNilMessage = errors.New("message is nil")
	// errUnknownState is returned for unknown state names.
	errUnknownState = errors.New("unknown alarm state")
	// errUnknownKind is returned for unknown event kinds.
	errUnknownKind = errors.New("unknown event kind")
)

// SnapshotToStruct encodes a snapshot. A nil snapshot encodes as an empty struct.
func SnapshotToStruct(s *domain.Snapshot) (*structpb.Struct, error) {
	if s == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
	}

	fields := map[string]any{
		fieldSensorID:       s.SensorID,
		fieldTimestamp:      formatTime(s.Timestamp),
		fieldState:          s.State.String(),
		fieldTick:           float64(s.Tick),
		fieldFlashPhase:     s.FlashPhase.Seconds(),
		fieldFlashIntensity: s.FlashIntensity,
		fieldBeamColor:      s.BeamColor,
		fieldOccluded:       s.Occluded,
		fieldEndpoint: map[string]any{
			fieldX: s.EndpointX,
			fieldY: s.EndpointY,
		},
		fieldHeartbeats:     float64(s.Heartbeats),
		fieldLastTransition: formatTime(s.LastTransition),
	}

	if s.LastTrigger != nil {
		fields[fieldLastTrigger] = map[string]any{
			fieldObject: s.LastTrigger.Object,
			fieldTarget: s.LastTrigger.Target,
		}
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	return msg, nil
}

// SnapshotFromStruct decodes a snapshot encoded by SnapshotToStruct.
func SnapshotFromStruct(msg *structpb.Struct) (*domain.Snapshot, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	f := msg.GetFields()

	state, ok := domain.ParseState(f[fieldState].GetStringValue())
	if !ok {
		return nil, fmt.Errorf("%q: %w", f[fieldState].GetStringValue(), errUnknownState)
	}

	timestamp, err := parseTime(f[fieldTimestamp].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("decode timestamp: %w", err)
	}

	lastTransition, err := parseTime(f[fieldLastTransition].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("decode last transition: %w", err)
	}

	endpoint := f[fieldEndpoint].GetStructValue().GetFields()

	snapshot := &domain.Snapshot{
		SensorID:       f[fieldSensorID].GetStringValue(),
		Timestamp:      timestamp,
		State:          state,
		Tick:           uint64(f[fieldTick].GetNumberValue()),
		FlashPhase:     seconds(f[fieldFlashPhase].GetNumberValue()),
		FlashIntensity: f[fieldFlashIntensity].GetNumberValue(),
		BeamColor:      f[fieldBeamColor].GetStringValue(),
		Occluded:       f[fieldOccluded].GetBoolValue(),
		EndpointX:      endpoint[fieldX].GetNumberValue(),
		EndpointY:      endpoint[fieldY].GetNumberValue(),
		Heartbeats:     uint64(f[fieldHeartbeats].GetNumberValue()),
		LastTransition: lastTransition,
	}

	if trigger := f[fieldLastTrigger].GetStructValue(); trigger != nil {
		snapshot.LastTrigger = &domain.Trigger{
			Object: trigger.GetFields()[fieldObject].GetStringValue(),
			Target: trigger.GetFields()[fieldTarget].GetStringValue(),
		}
	}

	return snapshot, nil
}

// EventsToList encodes events in order.
func EventsToList(events []sensor.Event) (*structpb.ListValue, error) {
	values := make([]any, 0, len(events))

	for _, e := range events {
		values = append(values, map[string]any{
			fieldKind:     e.Kind.String(),
			fieldSensorID: e.SensorID,
			fieldTick:     float64(e.Tick),
			fieldElapsed:  e.Elapsed.Seconds(),
			fieldObject:   string(e.Object),
			fieldTarget:   string(e.Target),
		})
	}

	list, err := structpb.NewList(values)
	if err != nil {
		return nil, fmt.Errorf("encode events: %w", err)
	}

	return list, nil
}

// EventsFromList decodes events encoded by EventsToList.
func EventsFromList(list *structpb.ListValue) ([]sensor.Event, error) {
	if list == nil {
		return nil, ErrNilMessage
	}

	events := make([]sensor.Event, 0, len(list.GetValues()))

	for _, v := range list.GetValues() {
		f := v.GetStructValue().GetFields()

		kind, ok := sensor.ParseEventKind(f[fieldKind].GetStringValue())
		if !ok {
			return nil, fmt.Errorf("%q: %w", f[fieldKind].GetStringValue(), errUnknownKind)
		}

		events = append(events, sensor.Event{
			Kind:     kind,
			SensorID: f[fieldSensorID].GetStringValue(),
			Tick:     uint64(f[fieldTick].GetNumberValue()),
			Elapsed:  seconds(f[fieldElapsed].GetNumberValue()),
			Object:   sensor.ObjectID(f[fieldObject].GetStringValue()),
			Target:   sensor.ObjectID(f[fieldTarget].GetStringValue()),
		})
	}

	return events, nil
}

// formatTime renders t as RFC 3339 with nanoseconds; the zero time becomes "".
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reverses formatTime.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.RFC3339Nano, s)
}

// seconds converts fractional seconds to a duration rounded to the microsecond.
func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second)).Round(time.Microsecond)
}
