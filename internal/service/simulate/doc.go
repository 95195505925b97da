// Package simulate runs a tripwire sensor offline for a fixed number of ticks
// against a scene file and prints a per-tick report.
//
// The run is deterministic: every tick advances the scene by the same step,
// so a scene file and a tick count always produce the same report.
package simulate
