package sensor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	domain "github.com/oshokin/tripwire/internal/domain/alarm"
	core "github.com/oshokin/tripwire/internal/sensor"
	"github.com/oshokin/tripwire/internal/wire"
)

// fakeService implements the Service interface for unit testing the transport.
type fakeService struct {
	// snapshot is returned by Snapshot.
	snapshot *domain.Snapshot
	// events is returned by RecentEvents.
	events []core.Event
}

// Snapshot returns the stored snapshot.
func (f *fakeService) Snapshot(context.Context) *domain.Snapshot { return f.snapshot }

// RecentEvents returns the stored events.
func (f *fakeService) RecentEvents(context.Context) []core.Event { return f.events }

// TestServer_GetSensorState_Unavailable ensures a sensor without a snapshot reports Unavailable.
func TestServer_GetSensorState_Unavailable(t *testing.T) {
	t.Parallel()

	s := NewServer(new(fakeService))

	_, err := s.GetSensorState(context.Background(), new(emptypb.Empty))
	require.Equal(t, codes.Unavailable, status.Code(err))
}

// TestServer_Roundtrip exercises both methods on the server implementation.
func TestServer_Roundtrip(t *testing.T) {
	t.Parallel()

	svc := &fakeService{
		snapshot: &domain.Snapshot{
			SensorID:  "hallway",
			Timestamp: time.Now().UTC(),
			State:     domain.StateAlert,
			Tick:      10,
			LastTrigger: &domain.Trigger{
				Object: "Level/Player/Body",
				Target: "Level/Player",
			},
		},
		events: []core.Event{
			{Kind: core.EventAlarmTriggered, SensorID: "hallway", Tick: 10},
		},
	}

	s := NewServer(svc)

	msg, err := s.GetSensorState(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)

	got, err := wire.SnapshotFromStruct(msg)
	require.NoError(t, err)
	require.True(t, got.IsAlert())
	require.Equal(t, "hallway", got.SensorID)
	require.Equal(t, "Level/Player/Body", got.LastTrigger.Object)

	list, err := s.ListEvents(context.Background(), new(emptypb.Empty))
	require.NoError(t, err)

	events, err := wire.EventsFromList(list)
	require.NoError(t, err)
	require.Equal(t, svc.events, events)
}
