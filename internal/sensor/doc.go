// Package sensor implements the tripwire pipeline: a bounded ray probe cast
// every tick, classification of the hit against a tracked target and its
// descendants, an edge-triggered Idle/Alert machine with a cooperative
// heartbeat, and the visual feedback signal derived from the machine.
//
// Everything here runs synchronously on the caller's goroutine. The scene
// (ray casting and hierarchy) is supplied by the caller through the Caster,
// Hierarchy and Finder interfaces.
package sensor
