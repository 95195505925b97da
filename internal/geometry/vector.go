package geometry

import "math"

// Vec2 is a point or direction in the 2D world plane.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length returns the Euclidean norm of v.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized returns v scaled to unit length. The zero vector stays zero.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}

	return v.Scale(1 / l)
}

// Rotated returns v rotated counter-clockwise by angle radians.
func (v Vec2) Rotated(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)

	return Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// ApproxEqual reports whether v and o differ by at most eps on each axis.
func (v Vec2) ApproxEqual(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Pose places a local frame in the world.
type Pose struct {
	// Position is the frame origin in world coordinates.
	Position Vec2
	// Rotation is the frame angle in radians; the local +X axis is the forward direction.
	Rotation float64
}

// Forward returns the unit direction of the local +X axis in world coordinates.
func (p Pose) Forward() Vec2 {
	return Vec2{X: 1}.Rotated(p.Rotation)
}

// ToLocal expresses the world point w in the pose's local frame.
func (p Pose) ToLocal(w Vec2) Vec2 {
	return w.Sub(p.Position).Rotated(-p.Rotation)
}

// ToWorld expresses the local point l in world coordinates.
func (p Pose) ToWorld(l Vec2) Vec2 {
	return l.Rotated(p.Rotation).Add(p.Position)
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
