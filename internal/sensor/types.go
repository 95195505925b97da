package sensor

import (
	"errors"

	"github.com/oshokin/tripwire/internal/geometry"
)

// ObjectID is an opaque reference to a scene object. The zero value means "no object".
type ObjectID string

// NoObject is the unresolved object reference.
const NoObject ObjectID = ""

// Valid reports whether id refers to an object.
func (id ObjectID) Valid() bool {
	return id != NoObject
}

// Hit is a ray-cast result: the first blocking collider and where it was hit.
type Hit struct {
	Point  geometry.Vec2
	Object ObjectID
}

// Caster is the ray-cast primitive. It returns the first collider on the mask
// within maxLength of origin along the unit direction, if any.
type Caster interface {
	CastRay(origin, direction geometry.Vec2, maxLength float64, mask uint32) (Hit, bool)
}

// Hierarchy exposes parent links of the object tree. The tree must be acyclic.
type Hierarchy interface {
	Parent(id ObjectID) (ObjectID, bool)
}

// Finder resolves objects by name or path at composition time.
type Finder interface {
	FindByName(name string) (ObjectID, bool)
	FindByPath(path string) (ObjectID, bool)
}

// World is the scene as seen by the detector on every tick.
type World interface {
	Caster
	Hierarchy
}

// DefaultCollisionMask matches colliders on the first layer.
const DefaultCollisionMask uint32 = 1

// ErrInvalidMaxLength is returned when the beam length is not positive.
var ErrInvalidMaxLength = errors.New("max length must be greater than zero")
