// Package wire converts sensor snapshots and events to and from protobuf
// well-known types (google.protobuf.Struct and ListValue).
//
// The same representation is used on the gRPC transport and, through
// protojson, in the persisted state file.
package wire
