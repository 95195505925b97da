// Package state implements persistence for the last sensor Snapshot.
//
// The FileRepository stores and loads the snapshot as JSON on disk and exposes
// a Repository interface that the sentry service depends on. Other processes
// (the checker, operators) can read the file to see the last known alarm state.
package state
