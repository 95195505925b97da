// Package alarm contains core domain types for the intrusion alarm.
//
// It defines State (Idle or Alert), Trigger (what set the alarm off) and
// Snapshot (the observable sensor status at a point in time) with Clone
// helpers to avoid leaking internal references.
package alarm
