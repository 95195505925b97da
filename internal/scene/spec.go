package scene

import (
	"github.com/oshokin/tripwire/internal/geometry"
)

// File is the on-disk scene description.
type File struct {
	// Nodes are the root nodes of the scene.
	Nodes []NodeSpec `yaml:"nodes"`
}

// NodeSpec describes one node and its subtree.
type NodeSpec struct {
	// Name must be unique among siblings and must not contain '/'.
	Name string `yaml:"name"`
	// Position is relative to the parent node.
	Position geometry.Vec2 `yaml:"position"`
	// Size makes the node a box collider of this width and height centred on the node.
	Size *geometry.Vec2 `yaml:"size,omitempty"`
	// Layer is the collision layer bitmask; colliders default to layer 1.
	Layer uint32 `yaml:"layer,omitempty"`
	// Patrol moves the node along waypoints.
	Patrol *PatrolSpec `yaml:"patrol,omitempty"`
	// Children are attached below this node.
	Children []NodeSpec `yaml:"children,omitempty"`
}

// PatrolSpec moves a node through Points (parent-relative) in a loop at Speed units per second.
type PatrolSpec struct {
	Speed  float64         `yaml:"speed"`
	Points []geometry.Vec2 `yaml:"points"`
}
