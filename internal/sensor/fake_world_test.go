package sensor

import (
	"github.com/oshokin/tripwire/internal/geometry"
)

// fakeWorld is a scripted World: the next cast returns hit when hasHit is set.
type fakeWorld struct {
	// parents maps each object to its parent.
	parents map[ObjectID]ObjectID
	// names maps object names to ids for Finder.
	names map[string]ObjectID
	// paths maps paths to ids for Finder.
	paths map[string]ObjectID
	// hit is returned by CastRay when hasHit is true.
	hit    Hit
	hasHit bool
	// casts counts CastRay calls.
	casts int
	// parentCalls counts Parent calls.
	parentCalls int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		parents: make(map[ObjectID]ObjectID),
		names:   make(map[string]ObjectID),
		paths:   make(map[string]ObjectID),
	}
}

// CastRay returns the scripted hit if it lies within maxLength.
func (w *fakeWorld) CastRay(origin, _ geometry.Vec2, maxLength float64, _ uint32) (Hit, bool) {
	w.casts++

	if !w.hasHit || w.hit.Point.Sub(origin).Length() > maxLength {
		return Hit{}, false
	}

	return w.hit, true
}

// Parent returns the scripted parent.
func (w *fakeWorld) Parent(id ObjectID) (ObjectID, bool) {
	w.parentCalls++
	p, ok := w.parents[id]

	return p, ok
}

// FindByName returns the scripted id for name.
func (w *fakeWorld) FindByName(name string) (ObjectID, bool) {
	id, ok := w.names[name]

	return id, ok
}

// FindByPath returns the scripted id for path.
func (w *fakeWorld) FindByPath(path string) (ObjectID, bool) {
	id, ok := w.paths[path]

	return id, ok
}

// occlude makes the next casts hit object at point.
func (w *fakeWorld) occlude(object ObjectID, point geometry.Vec2) {
	w.hit = Hit{Point: point, Object: object}
	w.hasHit = true
}

// clear makes the next casts miss.
func (w *fakeWorld) clear() {
	w.hasHit = false
}

// chain links ids so that each one is the parent of the next.
func (w *fakeWorld) chain(ids ...ObjectID) {
	for i := 1; i < len(ids); i++ {
		w.parents[ids[i]] = ids[i-1]
	}
}
