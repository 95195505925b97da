package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oshokin/tripwire/internal/config"
	"github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/geometry"
	"github.com/oshokin/tripwire/internal/logger"
	"github.com/oshokin/tripwire/internal/scene"
	"github.com/oshokin/tripwire/internal/sensor"
)

// Options controls a simulation run.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// SceneFile overrides the scene YAML path from the config.
	SceneFile string
	// Ticks is the number of ticks to run.
	Ticks int
	// Step overrides the tick interval derived from the config tick rate.
	Step time.Duration
	// Every prints one frame out of Every. Frames with events are always printed.
	Every int
	// LogLevel sets the level of this run's logger, independently of the config.
	LogLevel string
	// Output receives the report; stdout when nil.
	Output io.Writer
}

// DefaultTicks is the run length when Options.Ticks is not set.
const DefaultTicks = 300

// ErrBadLogLevel is returned for an unknown Options.LogLevel.
var ErrBadLogLevel = errors.New("unknown log level")

// Summary holds the totals of a run.
type Summary struct {
	// Ticks is the number of ticks executed.
	Ticks int
	// AlertTicks counts ticks that ended in alert.
	AlertTicks int
	// Triggers counts idle to alert transitions.
	Triggers int
	// Resets counts alert to idle transitions.
	Resets int
	// Heartbeats counts heartbeat notifications.
	Heartbeats int
	// Final is the alarm state after the last tick.
	Final alarm.State
}

// Run loads the config and the scene, runs the simulation and prints its report.
func Run(ctx context.Context, opts *Options) (*Summary, error) {
	ctx = logger.WithName(ctx, "tripwire-sim")

	if opts.LogLevel != "" {
		level, ok := logger.ParseLogLevel(opts.LogLevel)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadLogLevel, opts.LogLevel)
		}

		ctx = logger.ToContext(ctx, logger.FromContext(ctx).WithOptions(logger.WithLevel(level)))
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	sceneFile := cfg.SceneFile
	if opts.SceneFile != "" {
		sceneFile = opts.SceneFile
	}

	world, err := scene.Load(sceneFile)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}

	ctx = logger.WithKV(ctx, "sensor_id", cfg.Sensor.ID)

	target := sensor.ResolveTarget(ctx, world, cfg.Sensor.TargetPath, cfg.Sensor.TargetName)

	detectorOptions, err := cfg.Sensor.DetectorOptions(target)
	if err != nil {
		return nil, fmt.Errorf("sensor options: %w", err)
	}

	detector, err := sensor.NewDetector(world, detectorOptions)
	if err != nil {
		return nil, fmt.Errorf("create detector: %w", err)
	}

	detector.Subscribe(sensor.LogListener{})

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	step := opts.Step
	if step <= 0 {
		step = cfg.TickInterval()
	}

	ticks := opts.Ticks
	if ticks <= 0 {
		ticks = DefaultTicks
	}

	r := &runner{
		world:    world,
		detector: detector,
		pose:     cfg.Sensor.Pose(),
		step:     step,
		every:    max(opts.Every, 1),
		report:   newReport(out),
	}

	r.report.header(cfg.Sensor.ID, target, ticks, step)
	summary := r.run(ctx, ticks)
	r.report.summary(summary)

	return summary, nil
}

// runner advances one scene and one detector in lockstep.
type runner struct {
	world    *scene.Scene
	detector *sensor.Detector
	pose     geometry.Pose
	step     time.Duration
	every    int
	report   *report
}

// run executes ticks steps or fewer if ctx is canceled.
func (r *runner) run(ctx context.Context, ticks int) *Summary {
	summary := new(Summary)

	for i := range ticks {
		if ctx.Err() != nil {
			break
		}

		r.world.Step(r.step)
		frame := r.detector.Tick(ctx, r.pose, r.step)

		summary.Ticks++
		if frame.State == alarm.StateAlert {
			summary.AlertTicks++
		}

		for _, e := range frame.Events {
			switch e.Kind {
			case sensor.EventAlarmTriggered:
				summary.Triggers++
			case sensor.EventAlarmReset:
				summary.Resets++
			case sensor.EventHeartbeat:
				summary.Heartbeats++
			}
		}

		if len(frame.Events) > 0 || i%r.every == 0 {
			r.report.frame(&frame)

			for j := range frame.Events {
				r.report.event(&frame.Events[j])
			}
		}
	}

	summary.Final = r.detector.State()

	return summary
}
