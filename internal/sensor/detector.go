package sensor

import (
	"context"
	"time"

	"github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/geometry"
)

// Options configures a Detector.
type Options struct {
	// ID names the sensor in events and logs.
	ID string
	// MaxLength is the beam range; it must be positive.
	MaxLength float64
	// CollisionMask selects the collider layers the beam sees.
	CollisionMask uint32
	// Palette holds the beam colors.
	Palette Palette
	// HeartbeatPeriod is the heartbeat period while alerting.
	HeartbeatPeriod time.Duration
	// Target is the resolved tracked object; NoObject keeps the detector idle forever.
	Target ObjectID
}

// Frame is everything the detector computed on one tick.
type Frame struct {
	Tick    uint64
	Elapsed time.Duration
	Beam    Beam
	// Matched is the classification result of this tick.
	Matched bool
	State   alarm.State
	// Transitioned reports whether State changed on this tick.
	Transitioned bool
	FlashPhase   time.Duration
	Signal       Signal
	// HitLocal is the hit point in the probe's local frame, valid when Beam.Occluded.
	HitLocal geometry.Vec2
	// Events lists the notifications emitted on this tick, in order.
	Events []Event
}

// Detector runs the per-tick pipeline: probe, classify, transition, signal.
// It is not safe for concurrent use.
type Detector struct {
	id       string
	world    World
	probe    *RayProbe
	machine  *Machine
	palette  Palette
	target   ObjectID
	notifier Notifier
	tick     uint64
	elapsed  time.Duration
	lastBeam Beam
	pending  []Event
}

// NewDetector wires a detector against world.
func NewDetector(world World, opts Options) (*Detector, error) {
	probe, err := NewRayProbe(world, opts.MaxLength, opts.CollisionMask)
	if err != nil {
		return nil, err
	}

	d := &Detector{
		id:      opts.ID,
		world:   world,
		probe:   probe,
		palette: opts.Palette,
		target:  opts.Target,
	}

	d.machine = NewMachine(opts.HeartbeatPeriod, d.emit)

	return d, nil
}

// emit stamps a machine notification with the current tick and dispatches it.
func (d *Detector) emit(ctx context.Context, kind EventKind) {
	event := Event{
		Kind:     kind,
		SensorID: d.id,
		Tick:     d.tick,
		Elapsed:  d.elapsed,
		Object:   d.lastBeam.HitObject,
		Target:   d.target,
	}

	d.pending = append(d.pending, event)
	d.notifier.Dispatch(ctx, event)
}

// ID returns the sensor id.
func (d *Detector) ID() string {
	return d.id
}

// Target returns the tracked object.
func (d *Detector) Target() ObjectID {
	return d.target
}

// State returns the current alarm state.
func (d *Detector) State() alarm.State {
	return d.machine.State()
}

// HeartbeatRunning reports whether the heartbeat timer is started.
func (d *Detector) HeartbeatRunning() bool {
	return d.machine.HeartbeatRunning()
}

// Subscribe registers l for every notification the detector emits.
func (d *Detector) Subscribe(l Listener) {
	d.notifier.Subscribe(l)
}

// Tick runs the whole pipeline once for a probe at pose, dt after the previous tick.
func (d *Detector) Tick(ctx context.Context, pose geometry.Pose, dt time.Duration) Frame {
	d.tick++
	d.elapsed += dt
	d.pending = nil

	beam := d.probe.Cast(pose)
	d.lastBeam = beam

	matched := beam.Occluded && IsMatch(d.world, beam.HitObject, d.target)
	transitioned := d.machine.Step(ctx, matched, dt)

	state := d.machine.State()
	phase := d.machine.FlashPhase()

	frame := Frame{
		Tick:         d.tick,
		Elapsed:      d.elapsed,
		Beam:         beam,
		Matched:      matched,
		State:        state,
		Transitioned: transitioned,
		FlashPhase:   phase,
		Signal:       ComputeSignal(state, phase, beam, pose, d.palette),
		Events:       d.pending,
	}

	if beam.Occluded {
		frame.HitLocal = pose.ToLocal(beam.HitPoint)
	}

	return frame
}
