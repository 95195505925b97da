package sensor

import (
	"context"

	"github.com/oshokin/tripwire/internal/logger"
)

// DefaultTargetName is the object name searched when no explicit path resolves.
const DefaultTargetName = "Player"

// ResolveTarget looks the target up once at composition time. The explicit
// path wins; when it is empty or does not resolve, the first object named name
// is used. If both fail the result is NoObject and the detector will never alert.
func ResolveTarget(ctx context.Context, finder Finder, path, name string) ObjectID {
	if path != "" {
		if id, ok := finder.FindByPath(path); ok {
			logger.InfoKV(ctx, "Target resolved by path", "path", path, "target", id)

			return id
		}

		logger.WarnKV(ctx, "Target path did not resolve, falling back to name search", "path", path)
	}

	if name == "" {
		name = DefaultTargetName
	}

	if id, ok := finder.FindByName(name); ok {
		logger.InfoKV(ctx, "Target resolved by name", "name", name, "target", id)

		return id
	}

	logger.WarnKV(ctx, "Target not found, sensor will stay idle", "path", path, "name", name)

	return NoObject
}
