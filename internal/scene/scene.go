package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/tripwire/internal/geometry"
	"github.com/oshokin/tripwire/internal/sensor"
)

// defaultLayer is the collision layer of colliders that do not set one.
const defaultLayer uint32 = 1

var (
	// errEmptyName is returned for nodes without a name.
	errEmptyName = errors.New("node name is empty")
	// errBadName is returned for names containing the path separator.
	errBadName = errors.New("node name must not contain '/'")
	// errDuplicateSibling is returned when two siblings share a name.
	errDuplicateSibling = errors.New("duplicate sibling name")
	// errBadSize is returned for colliders with non-positive extents.
	errBadSize = errors.New("collider size must be positive")
	// errBadPatrol is returned for patrols without points or with a negative speed.
	errBadPatrol = errors.New("patrol needs at least one point and a non-negative speed")
)

// node is one scene object. Nodes are stored in depth-first pre-order, so a
// parent always precedes its children.
type node struct {
	id       sensor.ObjectID
	name     string
	parent   int
	local    geometry.Vec2
	collider bool
	half     geometry.Vec2
	layer    uint32
	patrol   *patrol
}

// Scene is an in-memory node tree. It is not safe for concurrent use.
type Scene struct {
	nodes []*node
	index map[sensor.ObjectID]int
}

// Load reads and builds a scene from a YAML file.
func Load(path string) (*Scene, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}

	return Parse(contents)
}

// Parse builds a scene from YAML bytes.
func Parse(contents []byte) (*Scene, error) {
	var file File
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}

	return Build(file.Nodes)
}

// Build creates a scene from node specs.
func Build(roots []NodeSpec) (*Scene, error) {
	s := &Scene{
		index: make(map[sensor.ObjectID]int),
	}

	if err := s.addSiblings(roots, -1, ""); err != nil {
		return nil, err
	}

	return s, nil
}

// addSiblings appends specs and their subtrees below parent.
func (s *Scene) addSiblings(specs []NodeSpec, parent int, prefix string) error {
	seen := make(map[string]struct{}, len(specs))

	for i := range specs {
		spec := &specs[i]

		if spec.Name == "" {
			return fmt.Errorf("child %d of %q: %w", i, prefix, errEmptyName)
		}

		if strings.Contains(spec.Name, "/") {
			return fmt.Errorf("%q: %w", spec.Name, errBadName)
		}

		if _, ok := seen[spec.Name]; ok {
			return fmt.Errorf("%q under %q: %w", spec.Name, prefix, errDuplicateSibling)
		}

		seen[spec.Name] = struct{}{}

		path := spec.Name
		if prefix != "" {
			path = prefix + "/" + spec.Name
		}

		n, err := newNode(spec, sensor.ObjectID(path), parent)
		if err != nil {
			return fmt.Errorf("node %q: %w", path, err)
		}

		s.index[n.id] = len(s.nodes)
		s.nodes = append(s.nodes, n)

		if err = s.addSiblings(spec.Children, s.index[n.id], path); err != nil {
			return err
		}
	}

	return nil
}

// newNode validates spec and converts it into a node.
func newNode(spec *NodeSpec, id sensor.ObjectID, parent int) (*node, error) {
	n := &node{
		id:     id,
		name:   spec.Name,
		parent: parent,
		local:  spec.Position,
	}

	if spec.Size != nil {
		if spec.Size.X <= 0 || spec.Size.Y <= 0 {
			return nil, errBadSize
		}

		n.collider = true
		n.half = spec.Size.Scale(0.5)

		n.layer = spec.Layer
		if n.layer == 0 {
			n.layer = defaultLayer
		}
	}

	if spec.Patrol != nil {
		if len(spec.Patrol.Points) == 0 || spec.Patrol.Speed < 0 {
			return nil, errBadPatrol
		}

		n.patrol = newPatrol(spec.Patrol)
		n.local = spec.Patrol.Points[0]
	}

	return n, nil
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Parent returns the parent of id. Root nodes have no parent.
func (s *Scene) Parent(id sensor.ObjectID) (sensor.ObjectID, bool) {
	i, ok := s.index[id]
	if !ok || s.nodes[i].parent < 0 {
		return sensor.NoObject, false
	}

	return s.nodes[s.nodes[i].parent].id, true
}

// FindByName returns the first node named name in depth-first declaration order.
func (s *Scene) FindByName(name string) (sensor.ObjectID, bool) {
	for _, n := range s.nodes {
		if n.name == name {
			return n.id, true
		}
	}

	return sensor.NoObject, false
}

// FindByPath resolves a slash-separated path from the scene root, e.g. "Level/Player".
// A leading slash is accepted.
func (s *Scene) FindByPath(path string) (sensor.ObjectID, bool) {
	id := sensor.ObjectID(strings.Trim(path, "/"))
	if _, ok := s.index[id]; !ok {
		return sensor.NoObject, false
	}

	return id, true
}

// WorldPosition returns the world position of id.
func (s *Scene) WorldPosition(id sensor.ObjectID) (geometry.Vec2, bool) {
	i, ok := s.index[id]
	if !ok {
		return geometry.Vec2{}, false
	}

	var pos geometry.Vec2
	for ; i >= 0; i = s.nodes[i].parent {
		pos = pos.Add(s.nodes[i].local)
	}

	return pos, true
}

// Step advances every patrol by dt.
func (s *Scene) Step(dt time.Duration) {
	for _, n := range s.nodes {
		if n.patrol != nil {
			n.local = n.patrol.advance(n.local, dt.Seconds())
		}
	}
}

// worldPositions computes every node's world position in one pass.
func (s *Scene) worldPositions() []geometry.Vec2 {
	out := make([]geometry.Vec2, len(s.nodes))

	for i, n := range s.nodes {
		out[i] = n.local
		if n.parent >= 0 {
			out[i] = out[i].Add(out[n.parent])
		}
	}

	return out
}
