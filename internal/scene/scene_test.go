package scene

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/tripwire/internal/geometry"
	"github.com/oshokin/tripwire/internal/sensor"
)

const testScene = `
nodes:
  - name: Level
    children:
      - name: Wall
        position: {x: 400, y: 0}
        size: {x: 20, y: 200}
      - name: Glass
        position: {x: 100, y: 0}
        size: {x: 4, y: 200}
        layer: 2
      - name: Player
        position: {x: 200, y: 0}
        children:
          - name: Body
            size: {x: 20, y: 40}
            children:
              - name: Arm
                position: {x: 0, y: 30}
                size: {x: 10, y: 10}
  - name: Props
    children:
      - name: Player
        position: {x: -500, y: 0}
        size: {x: 10, y: 10}
`

// TestParse_HierarchyAndLookup checks parent links, name search order and path lookup.
func TestParse_HierarchyAndLookup(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(testScene))
	require.NoError(t, err)
	require.Equal(t, 8, s.Len())

	parent, ok := s.Parent("Level/Player/Body/Arm")
	require.True(t, ok)
	require.Equal(t, sensor.ObjectID("Level/Player/Body"), parent)

	_, ok = s.Parent("Level")
	require.False(t, ok)

	// The first depth-first match wins over the later Props/Player.
	id, ok := s.FindByName("Player")
	require.True(t, ok)
	require.Equal(t, sensor.ObjectID("Level/Player"), id)

	id, ok = s.FindByPath("/Props/Player")
	require.True(t, ok)
	require.Equal(t, sensor.ObjectID("Props/Player"), id)

	_, ok = s.FindByPath("Level/Nobody")
	require.False(t, ok)

	pos, ok := s.WorldPosition("Level/Player/Body/Arm")
	require.True(t, ok)
	require.Equal(t, geometry.Vec2{X: 200, Y: 30}, pos)

	require.True(t, sensor.IsMatch(s, "Level/Player/Body/Arm", "Level/Player"))
	require.False(t, sensor.IsMatch(s, "Props/Player", "Level/Player"))
}

// TestCastRay_NearestOnMask verifies the nearest-hit rule and layer filtering.
func TestCastRay_NearestOnMask(t *testing.T) {
	t.Parallel()

	s, err := Parse([]byte(testScene))
	require.NoError(t, err)

	forward := geometry.Vec2{X: 1}

	// Layer 1 skips the glass on layer 2 and hits the body first.
	hit, ok := s.CastRay(geometry.Vec2{}, forward, 500, 1)
	require.True(t, ok)
	require.Equal(t, sensor.ObjectID("Level/Player/Body"), hit.Object)
	require.InDelta(t, 190, hit.Point.X, 1e-9)

	// Both layers: the glass is nearer.
	hit, ok = s.CastRay(geometry.Vec2{}, forward, 500, 1|2)
	require.True(t, ok)
	require.Equal(t, sensor.ObjectID("Level/Glass"), hit.Object)
	require.InDelta(t, 98, hit.Point.X, 1e-9)

	// Out of range.
	_, ok = s.CastRay(geometry.Vec2{}, forward, 150, 1)
	require.False(t, ok)

	// Pointing away.
	_, ok = s.CastRay(geometry.Vec2{X: 1000}, forward, 500, 1)
	require.False(t, ok)

	// Starting inside the wall hits it at the origin.
	hit, ok = s.CastRay(geometry.Vec2{X: 400, Y: 50}, forward, 500, 1)
	require.True(t, ok)
	require.Equal(t, sensor.ObjectID("Level/Wall"), hit.Object)
	require.Equal(t, geometry.Vec2{X: 400, Y: 50}, hit.Point)
}

// TestStep_PatrolMovesSubtree checks that patrols move the node and its children.
func TestStep_PatrolMovesSubtree(t *testing.T) {
	t.Parallel()

	s, err := Build([]NodeSpec{{
		Name: "Player",
		Patrol: &PatrolSpec{
			Speed:  100,
			Points: []geometry.Vec2{{X: 0, Y: -100}, {X: 0, Y: 100}},
		},
		Children: []NodeSpec{{
			Name:     "Body",
			Position: geometry.Vec2{X: 10},
			Size:     &geometry.Vec2{X: 10, Y: 10},
		}},
	}})
	require.NoError(t, err)

	pos, _ := s.WorldPosition("Player/Body")
	require.Equal(t, geometry.Vec2{X: 10, Y: -100}, pos)

	s.Step(time.Second)
	pos, _ = s.WorldPosition("Player/Body")
	require.True(t, pos.ApproxEqual(geometry.Vec2{X: 10, Y: 0}, 1e-9), "got %+v", pos)

	// 1.5s more: reach (0,100) after 1s, then head back 50 units.
	s.Step(1500 * time.Millisecond)
	pos, _ = s.WorldPosition("Player")
	require.True(t, pos.ApproxEqual(geometry.Vec2{X: 0, Y: 50}, 1e-9), "got %+v", pos)

	// A whole lap (400 units) leaves it in place.
	s.Step(4 * time.Second)
	pos, _ = s.WorldPosition("Player")
	require.True(t, pos.ApproxEqual(geometry.Vec2{X: 0, Y: 50}, 1e-6), "got %+v", pos)
}

// TestBuild_Validation rejects malformed node specs.
func TestBuild_Validation(t *testing.T) {
	t.Parallel()

	cases := map[string][]NodeSpec{
		"empty name":  {{Name: ""}},
		"slash":       {{Name: "a/b"}},
		"duplicate":   {{Name: "a"}, {Name: "a"}},
		"bad size":    {{Name: "a", Size: &geometry.Vec2{X: 0, Y: 1}}},
		"empty route": {{Name: "a", Patrol: &PatrolSpec{Speed: 1}}},
	}

	for name, specs := range cases {
		_, err := Build(specs)
		require.Error(t, err, name)
	}

	// Same names under different parents are fine.
	_, err := Build([]NodeSpec{
		{Name: "a", Children: []NodeSpec{{Name: "x"}}},
		{Name: "b", Children: []NodeSpec{{Name: "x"}}},
	})
	require.NoError(t, err)
}

// TestLoad reads a scene from disk.
func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testScene), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8, s.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestLoad_SampleScene keeps the shipped sample scene loadable and meaningful.
func TestLoad_SampleScene(t *testing.T) {
	t.Parallel()

	s, err := Load(filepath.Join("..", "..", "configs", "tripwire-scene.yaml"))
	require.NoError(t, err)
	require.Equal(t, 6, s.Len())

	forward := geometry.Vec2{X: 1}

	// The guard starts off the beam; the window is on another layer.
	hit, ok := s.CastRay(geometry.Vec2{}, forward, 500, sensor.DefaultCollisionMask)
	require.True(t, ok)
	require.Equal(t, sensor.ObjectID("Level/FarWall"), hit.Object)

	// After one second the guard is centred on the beam and the backpack blocks it first.
	s.Step(time.Second)

	hit, ok = s.CastRay(geometry.Vec2{}, forward, 500, sensor.DefaultCollisionMask)
	require.True(t, ok)
	require.Equal(t, sensor.ObjectID("Level/Player/Body/Backpack"), hit.Object)
	require.InDelta(t, 230, hit.Point.X, 1e-9)
	require.True(t, sensor.IsMatch(s, hit.Object, "Level/Player"))
}
