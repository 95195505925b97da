package sensor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/geometry"
)

const testTick = 20 * time.Millisecond

// countingListener tallies events by kind.
type countingListener struct {
	counts map[EventKind]int
}

func (c *countingListener) OnEvent(_ context.Context, e Event) {
	c.counts[e.Kind]++
}

// newTestDetector builds a detector over w tracking target.
func newTestDetector(t *testing.T, w World, target ObjectID) (*Detector, *countingListener) {
	t.Helper()

	d, err := NewDetector(w, Options{
		ID:              "test-sensor",
		MaxLength:       500,
		CollisionMask:   DefaultCollisionMask,
		Palette:         Palette{Normal: ColorGreen, Alert: ColorRed},
		HeartbeatPeriod: 500 * time.Millisecond,
		Target:          target,
	})
	require.NoError(t, err)

	listener := &countingListener{counts: make(map[EventKind]int)}
	d.Subscribe(listener)

	return d, listener
}

// TestNewDetector_RejectsNonPositiveLength checks configuration validation.
func TestNewDetector_RejectsNonPositiveLength(t *testing.T) {
	t.Parallel()

	for _, length := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := NewDetector(newFakeWorld(), Options{MaxLength: length})
		require.ErrorIs(t, err, ErrInvalidMaxLength, "length %v", length)
	}

	require.True(t, ValidMaxLength(math.MaxFloat64))
}

// TestDetector_UnresolvedTargetStaysIdle covers an unresolved target and a clear beam.
func TestDetector_UnresolvedTargetStaysIdle(t *testing.T) {
	t.Parallel()

	w := newFakeWorld()
	d, listener := newTestDetector(t, w, NoObject)
	pose := geometry.Pose{Position: geometry.Vec2{X: 10, Y: 20}}

	for range 200 {
		frame := d.Tick(context.Background(), pose, testTick)

		require.Equal(t, alarm.StateIdle, frame.State)
		require.False(t, frame.Beam.Occluded)
		require.True(t, frame.Beam.Endpoint.ApproxEqual(geometry.Vec2{X: 510, Y: 20}, 1e-9))
		require.True(t, frame.Signal.BeamEndpoint.ApproxEqual(geometry.Vec2{X: 500}, 1e-9))
		require.Equal(t, ColorGreen, frame.Signal.BeamColor)
		require.Zero(t, frame.Signal.FlashIntensity)
	}

	// An occluded beam still cannot match an unresolved target.
	w.occlude("player", geometry.Vec2{X: 100, Y: 20})
	frame := d.Tick(context.Background(), pose, testTick)
	require.Equal(t, alarm.StateIdle, frame.State)
	require.True(t, frame.Beam.Occluded)

	require.Empty(t, listener.counts)
	require.Equal(t, 201, w.casts)
}

// TestDetector_DirectHitAlertsSameTick covers a beam occluded by the target itself.
func TestDetector_DirectHitAlertsSameTick(t *testing.T) {
	t.Parallel()

	w := newFakeWorld()
	w.chain("root", "player")
	w.occlude("player", geometry.Vec2{X: 120})

	d, listener := newTestDetector(t, w, "player")
	frame := d.Tick(context.Background(), geometry.Pose{}, testTick)

	require.True(t, frame.Matched)
	require.True(t, frame.Transitioned)
	require.Equal(t, alarm.StateAlert, frame.State)
	require.Zero(t, frame.FlashPhase)
	require.True(t, d.HeartbeatRunning())
	require.Equal(t, ColorRed, frame.Signal.BeamColor)
	require.True(t, frame.Signal.BeamEndpoint.ApproxEqual(geometry.Vec2{X: 120}, 1e-9))
	require.True(t, frame.HitLocal.ApproxEqual(geometry.Vec2{X: 120}, 1e-9))

	require.Len(t, frame.Events, 1)
	require.Equal(t, EventAlarmTriggered, frame.Events[0].Kind)
	require.Equal(t, ObjectID("player"), frame.Events[0].Object)
	require.Equal(t, uint64(1), frame.Events[0].Tick)
	require.Equal(t, 1, listener.counts[EventAlarmTriggered])
}

// TestDetector_DescendantHitAlerts covers a hit on a collider three levels below the target.
func TestDetector_DescendantHitAlerts(t *testing.T) {
	t.Parallel()

	w := newFakeWorld()
	w.chain("root", "player", "body", "arm", "hand")
	w.occlude("hand", geometry.Vec2{X: 80})

	d, _ := newTestDetector(t, w, "player")
	frame := d.Tick(context.Background(), geometry.Pose{}, testTick)

	require.True(t, frame.Matched)
	require.Equal(t, alarm.StateAlert, frame.State)
}

// TestDetector_UnrelatedHitStaysIdle covers a beam blocked by something else.
func TestDetector_UnrelatedHitStaysIdle(t *testing.T) {
	t.Parallel()

	w := newFakeWorld()
	w.chain("root", "player")
	w.chain("root", "crate")
	w.occlude("crate", geometry.Vec2{X: 60})

	d, listener := newTestDetector(t, w, "player")

	for range 10 {
		frame := d.Tick(context.Background(), geometry.Pose{}, testTick)
		require.False(t, frame.Matched)
		require.Equal(t, alarm.StateIdle, frame.State)
		require.True(t, frame.Signal.BeamEndpoint.ApproxEqual(geometry.Vec2{X: 60}, 1e-9))
	}

	require.Empty(t, listener.counts)
}

// TestDetector_HeartbeatsWhileAlerting stays in Alert for 2s after the trigger tick.
func TestDetector_HeartbeatsWhileAlerting(t *testing.T) {
	t.Parallel()

	w := newFakeWorld()
	w.chain("root", "player")
	w.occlude("player", geometry.Vec2{X: 120})

	d, listener := newTestDetector(t, w, "player")
	d.Tick(context.Background(), geometry.Pose{}, testTick)

	var last Frame
	for range 100 {
		last = d.Tick(context.Background(), geometry.Pose{}, testTick)
		require.Equal(t, alarm.StateAlert, last.State)
		require.GreaterOrEqual(t, last.Signal.FlashIntensity, 0.0)
		require.LessOrEqual(t, last.Signal.FlashIntensity, MaxFlashIntensity)
	}

	require.Equal(t, 4, listener.counts[EventHeartbeat])
	require.Equal(t, 1, listener.counts[EventAlarmTriggered])
	require.Equal(t, 2*time.Second, last.FlashPhase)
	require.Equal(t, uint64(101), last.Tick)
}

// TestDetector_ClearAfterAlertResets clears the beam on the tick after the trigger.
func TestDetector_ClearAfterAlertResets(t *testing.T) {
	t.Parallel()

	w := newFakeWorld()
	w.chain("root", "player")
	w.occlude("player", geometry.Vec2{X: 120})

	d, listener := newTestDetector(t, w, "player")
	require.Equal(t, alarm.StateAlert, d.Tick(context.Background(), geometry.Pose{}, testTick).State)

	w.clear()

	frame := d.Tick(context.Background(), geometry.Pose{}, testTick)
	require.True(t, frame.Transitioned)
	require.Equal(t, alarm.StateIdle, frame.State)
	require.False(t, d.HeartbeatRunning())
	require.Equal(t, ColorGreen, frame.Signal.BeamColor)
	require.Zero(t, frame.Signal.FlashIntensity)
	require.True(t, frame.Signal.BeamEndpoint.ApproxEqual(geometry.Vec2{X: 500}, 1e-9))
	require.Len(t, frame.Events, 1)
	require.Equal(t, EventAlarmReset, frame.Events[0].Kind)

	// Staying clear emits nothing more.
	for range 60 {
		frame = d.Tick(context.Background(), geometry.Pose{}, testTick)
		require.Empty(t, frame.Events)
	}

	require.Equal(t, 1, listener.counts[EventAlarmReset])
	require.Zero(t, listener.counts[EventHeartbeat])
}

// TestDetector_RotatedPose checks that the beam follows the pose and the endpoint stays local.
func TestDetector_RotatedPose(t *testing.T) {
	t.Parallel()

	d, _ := newTestDetector(t, newFakeWorld(), NoObject)
	pose := geometry.Pose{
		Position: geometry.Vec2{X: 5, Y: 5},
		Rotation: geometry.DegreesToRadians(90),
	}

	frame := d.Tick(context.Background(), pose, testTick)
	require.True(t, frame.Beam.Endpoint.ApproxEqual(geometry.Vec2{X: 5, Y: 505}, 1e-9))
	require.True(t, frame.Signal.BeamEndpoint.ApproxEqual(geometry.Vec2{X: 500}, 1e-9))
}
