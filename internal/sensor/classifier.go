package sensor

// IsMatch reports whether hit is the target or one of its descendants.
// An unresolved target never matches.
func IsMatch(h Hierarchy, hit, target ObjectID) bool {
	_, ok := ancestorDistance(h, hit, target)

	return ok
}

// ancestorDistance walks parent links from hit and returns how many steps it
// took to reach target. The walk ends at the root.
func ancestorDistance(h Hierarchy, hit, target ObjectID) (int, bool) {
	if !target.Valid() || !hit.Valid() {
		return 0, false
	}

	for steps, current := 0, hit; ; steps++ {
		if current == target {
			return steps, true
		}

		parent, ok := h.Parent(current)
		if !ok || !parent.Valid() {
			return steps, false
		}

		current = parent
	}
}
