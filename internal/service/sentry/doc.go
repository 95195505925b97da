// Package sentry runs a tripwire sensor as a long-lived process.
//
// Run loads the configuration and the scene, resolves the tracked target,
// drives the detector on a fixed-timestep loop, publishes a snapshot after
// every tick, keeps a bounded journal of notifications, persists the snapshot
// on every alarm transition and serves all of it over gRPC.
package sentry
