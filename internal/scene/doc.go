// Package scene implements the 2D world the sensor looks into.
//
// A scene is a tree of named nodes loaded from YAML. Positions are relative to
// the parent, so moving a node moves its subtree. Nodes with a size are
// axis-aligned box colliders on a collision layer. The scene answers ray casts,
// parent lookups and name/path searches for the sensor package, and advances
// scripted patrols once per tick.
package scene
