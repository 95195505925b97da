package sensor

import (
	"math"
	"time"

	"github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/geometry"
)

const (
	// flashFrequency is the angular speed of the flash, in radians per second.
	flashFrequency = 10.0
	// flashAmplitude scales sin+1 so the intensity peaks at 0.6.
	flashAmplitude = 0.3
	// MaxFlashIntensity is the upper bound of FlashIntensity.
	MaxFlashIntensity = 2 * flashAmplitude
)

// Signal is the visual feedback for one tick.
type Signal struct {
	// BeamColor is the alert color while alerting, otherwise the normal color.
	BeamColor Color
	// BeamEndpoint is the beam end in the probe's local frame.
	BeamEndpoint geometry.Vec2
	// FlashIntensity is the flash overlay alpha in [0, MaxFlashIntensity].
	FlashIntensity float64
}

// Palette holds the two beam colors.
type Palette struct {
	Normal Color
	Alert  Color
}

// FlashIntensity returns the flash alpha for the given state and phase.
func FlashIntensity(state alarm.State, phase time.Duration) float64 {
	if state != alarm.StateAlert {
		return 0
	}

	v := flashAmplitude * (math.Sin(flashFrequency*phase.Seconds()) + 1)

	// Guard against rounding just outside the range.
	return math.Min(math.Max(v, 0), MaxFlashIntensity)
}

// BeamColor picks the palette color for state.
func BeamColor(state alarm.State, palette Palette) Color {
	if state == alarm.StateAlert {
		return palette.Alert
	}

	return palette.Normal
}

// ComputeSignal derives the visual feedback from the machine state and the beam.
func ComputeSignal(state alarm.State, phase time.Duration, beam Beam, pose geometry.Pose, palette Palette) Signal {
	return Signal{
		BeamColor:      BeamColor(state, palette),
		BeamEndpoint:   pose.ToLocal(beam.Endpoint),
		FlashIntensity: FlashIntensity(state, phase),
	}
}
