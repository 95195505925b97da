package scene

import (
	"math"

	"github.com/oshokin/tripwire/internal/geometry"
)

// patrol walks a closed loop of waypoints at constant speed.
type patrol struct {
	speed     float64
	points    []geometry.Vec2
	next      int
	perimeter float64
}

func newPatrol(spec *PatrolSpec) *patrol {
	points := make([]geometry.Vec2, len(spec.Points))
	copy(points, spec.Points)

	var perimeter float64
	for i := range points {
		perimeter += points[(i+1)%len(points)].Sub(points[i]).Length()
	}

	return &patrol{
		speed:     spec.Speed,
		points:    points,
		next:      1 % len(points),
		perimeter: perimeter,
	}
}

// advance moves from pos toward the upcoming waypoints for seconds and returns the new position.
func (p *patrol) advance(pos geometry.Vec2, seconds float64) geometry.Vec2 {
	if p.perimeter == 0 {
		return pos
	}

	// Whole laps end where they started.
	budget := math.Mod(p.speed*seconds, p.perimeter)

	for hops := 0; budget > 0 && hops <= len(p.points); hops++ {
		target := p.points[p.next]
		gap := target.Sub(pos)
		dist := gap.Length()

		if dist > budget {
			return pos.Add(gap.Scale(budget / dist))
		}

		pos = target
		budget -= dist
		p.next = (p.next + 1) % len(p.points)
	}

	return pos
}
