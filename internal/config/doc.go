// Package config defines the settings shared by the tripwire binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the gRPC address, file locations, loop timing and the
// sensor block (beam length, colors, heartbeat period, pose and target lookup).
package config
