package scene

import (
	"math"

	"github.com/oshokin/tripwire/internal/geometry"
	"github.com/oshokin/tripwire/internal/sensor"
)

// parallelEpsilon treats direction components below it as parallel to a slab.
const parallelEpsilon = 1e-12

// CastRay returns the nearest collider on mask hit by the segment from origin
// along direction with length maxLength. A ray starting inside a collider hits
// it at the origin. Ties go to the collider declared first.
func (s *Scene) CastRay(origin, direction geometry.Vec2, maxLength float64, mask uint32) (sensor.Hit, bool) {
	dir := direction.Normalized()
	if dir == (geometry.Vec2{}) || maxLength <= 0 {
		return sensor.Hit{}, false
	}

	var (
		positions = s.worldPositions()
		best      = -1
		bestT     = math.Inf(1)
	)

	for i, n := range s.nodes {
		if !n.collider || n.layer&mask == 0 {
			continue
		}

		minP := positions[i].Sub(n.half)
		maxP := positions[i].Add(n.half)

		t, ok := rayAABB(origin, dir, minP, maxP)
		if !ok || t > maxLength || t >= bestT {
			continue
		}

		best, bestT = i, t
	}

	if best < 0 {
		return sensor.Hit{}, false
	}

	return sensor.Hit{
		Point:  origin.Add(dir.Scale(bestT)),
		Object: s.nodes[best].id,
	}, true
}

// rayAABB intersects a ray with a box using the slab method and returns the
// entry distance. Rays starting inside the box report distance 0.
func rayAABB(origin, dir, minP, maxP geometry.Vec2) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)

	axes := [2][4]float64{
		{origin.X, dir.X, minP.X, maxP.X},
		{origin.Y, dir.Y, minP.Y, maxP.Y},
	}

	for _, a := range axes {
		o, d, lo, hi := a[0], a[1], a[2], a[3]

		if math.Abs(d) < parallelEpsilon {
			if o < lo || o > hi {
				return 0, false
			}

			continue
		}

		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
	}

	if tmax < 0 || tmin > tmax {
		return 0, false
	}

	return math.Max(tmin, 0), true
}
