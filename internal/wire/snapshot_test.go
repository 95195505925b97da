package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/sensor"
)

// TestSnapshot_Roundtrip encodes and decodes a fully populated snapshot.
func TestSnapshot_Roundtrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	want := &domain.Snapshot{
		SensorID:       "hallway",
		Timestamp:      ts,
		State:          domain.StateAlert,
		Tick:           1234,
		FlashPhase:     1500 * time.Millisecond,
		FlashIntensity: 0.42,
		BeamColor:      "#FF0000FF",
		Occluded:       true,
		EndpointX:      190,
		EndpointY:      -2.5,
		Heartbeats:     3,
		LastTrigger:    &domain.Trigger{Object: "Level/Player/Body", Target: "Level/Player"},
		LastTransition: ts.Add(-1500 * time.Millisecond),
	}

	msg, err := SnapshotToStruct(want)
	require.NoError(t, err)

	got, err := SnapshotFromStruct(msg)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestSnapshotFromStruct_Rejects checks nil and malformed inputs.
func TestSnapshotFromStruct_Rejects(t *testing.T) {
	t.Parallel()

	_, err := SnapshotFromStruct(nil)
	require.ErrorIs(t, err, ErrNilMessage)

	msg, err := structpb.NewStruct(map[string]any{"state": "armed"})
	require.NoError(t, err)

	_, err = SnapshotFromStruct(msg)
	require.ErrorIs(t, err, errUnknownState)

	// A nil snapshot encodes as an empty struct, which does not decode.
	empty, err := SnapshotToStruct(nil)
	require.NoError(t, err)

	_, err = SnapshotFromStruct(empty)
	require.Error(t, err)
}

// TestEvents_Roundtrip keeps order and every field.
func TestEvents_Roundtrip(t *testing.T) {
	t.Parallel()

	want := []sensor.Event{
		{Kind: sensor.EventAlarmTriggered, SensorID: "s", Tick: 1, Elapsed: 20 * time.Millisecond, Object: "a", Target: "b"},
		{Kind: sensor.EventHeartbeat, SensorID: "s", Tick: 26, Elapsed: 520 * time.Millisecond, Object: "a", Target: "b"},
		{Kind: sensor.EventAlarmReset, SensorID: "s", Tick: 30, Elapsed: 600 * time.Millisecond, Target: "b"},
	}

	list, err := EventsToList(want)
	require.NoError(t, err)

	got, err := EventsFromList(list)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
