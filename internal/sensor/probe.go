package sensor

import (
	"fmt"
	"math"

	"github.com/oshokin/tripwire/internal/geometry"
)

// Beam is the result of one probe cast. It is recomputed every tick.
type Beam struct {
	// Origin is where the beam starts, in world coordinates.
	Origin geometry.Vec2
	// Direction is the unit forward vector.
	Direction geometry.Vec2
	// MaxLength is the beam range.
	MaxLength float64
	// Endpoint is the hit point when occluded, otherwise Origin + MaxLength*Direction.
	Endpoint geometry.Vec2
	// Occluded reports whether a collider blocked the beam.
	Occluded bool
	// HitPoint is valid only when Occluded.
	HitPoint geometry.Vec2
	// HitObject is valid only when Occluded.
	HitObject ObjectID
}

// RayProbe owns the cast configuration and produces a fresh Beam per call.
type RayProbe struct {
	caster    Caster
	maxLength float64
	mask      uint32
}

// ValidMaxLength reports whether v is usable as a beam range: positive and finite.
func ValidMaxLength(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// NewRayProbe creates a probe. maxLength must be positive and finite.
func NewRayProbe(caster Caster, maxLength float64, mask uint32) (*RayProbe, error) {
	if !ValidMaxLength(maxLength) {
		return nil, fmt.Errorf("ray probe length %v: %w", maxLength, ErrInvalidMaxLength)
	}

	return &RayProbe{
		caster:    caster,
		maxLength: maxLength,
		mask:      mask,
	}, nil
}

// MaxLength returns the configured beam range.
func (p *RayProbe) MaxLength() float64 {
	return p.maxLength
}

// Cast queries the caster along the pose's forward axis. It never caches.
func (p *RayProbe) Cast(pose geometry.Pose) Beam {
	beam := Beam{
		Origin:    pose.Position,
		Direction: pose.Forward(),
		MaxLength: p.maxLength,
	}

	hit, ok := p.caster.CastRay(beam.Origin, beam.Direction, p.maxLength, p.mask)
	if !ok {
		beam.Endpoint = beam.Origin.Add(beam.Direction.Scale(p.maxLength))

		return beam
	}

	beam.Occluded = true
	beam.HitPoint = hit.Point
	beam.HitObject = hit.Object
	beam.Endpoint = hit.Point

	return beam
}
