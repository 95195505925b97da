// Package sensor implements the gRPC transport for the tripwire sensor.
//
// The service tripwire.v1.SensorService is described by hand with
// protobuf well-known types (Empty, Struct, ListValue), so no generated code
// is needed. Domain snapshots and events are converted by the wire package.
package sensor
