package grid

import (
	"errors"
	"gridweaver/internal/core"
	"testing"

	"github.com/paulmach/orb"
)

func newTestObstacleMap(t *testing.T) *ObstacleMap {
	t.Helper()
	om, err := NewObstacleMap(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{20, 10}}, 1.0)
	if err != nil {
		t.Fatalf("NewObstacleMap: %v", err)
	}
	return om
}

func TestObstacleMapDimensions(t *testing.T) {
	om := newTestObstacleMap(t)
	if got := om.Dimensions(); got != (core.Point{X: 20, Y: 10}) {
		t.Fatalf("Dimensions() = %v, want (20,10)", got)
	}

	if _, err := NewObstacleMap(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{5, 5}}, 0); !errors.Is(err, ErrInvalidDimensions) {
		t.Fatalf("zero cell size error = %v, want ErrInvalidDimensions", err)
	}
}

func TestObstacleMapBlocking(t *testing.T) {
	om := newTestObstacleMap(t)

	// Covers cells x 4..5, y 2..6
	if err := om.AddObstacle(orb.Bound{Min: orb.Point{4, 2}, Max: orb.Point{6, 7}}); err != nil {
		t.Fatalf("AddObstacle: %v", err)
	}

	tests := []struct {
		pt      core.Point
		blocked bool
	}{
		{core.Point{X: 4, Y: 2}, true},
		{core.Point{X: 5, Y: 6}, true},
		{core.Point{X: 3, Y: 4}, false}, // touches the left edge only
		{core.Point{X: 6, Y: 4}, false}, // touches the right edge only
		{core.Point{X: 4, Y: 7}, false},
	}
	for _, tt := range tests {
		idx := om.PointToIndex(tt.pt)
		if got := om.IsOpaque(idx); got != tt.blocked {
			t.Errorf("IsOpaque(%v) = %v, want %v", tt.pt, got, tt.blocked)
		}
	}

	if got := len(om.ObstaclesAt(core.Point{X: 5, Y: 5})); got != 1 {
		t.Fatalf("ObstaclesAt = %d obstacles, want 1", got)
	}
	if om.ObstacleCount() != 1 {
		t.Fatalf("ObstacleCount() = %d, want 1", om.ObstacleCount())
	}
}

func TestObstacleMapExitsAvoidObstacles(t *testing.T) {
	om := newTestObstacleMap(t)
	if err := om.AddObstacle(orb.Bound{Min: orb.Point{1, 0}, Max: orb.Point{2, 1}}); err != nil {
		t.Fatalf("AddObstacle: %v", err)
	}

	blocked := om.PointToIndex(core.Point{X: 1, Y: 0})
	for _, e := range om.GetAvailableExits(om.PointToIndex(core.Point{X: 0, Y: 0})) {
		if e.Index == blocked {
			t.Fatal("exit leads into an obstacle")
		}
	}
	if got := len(om.GetAvailableExits(om.PointToIndex(core.Point{X: 0, Y: 0}))); got != 2 {
		t.Fatalf("corner exits = %d, want 2", got)
	}
}

func TestObstacleMapRejectsEmptyObstacle(t *testing.T) {
	om := newTestObstacleMap(t)
	err := om.AddObstacle(orb.Bound{Min: orb.Point{3, 3}, Max: orb.Point{3, 8}})
	if !errors.Is(err, ErrEmptyObstacle) {
		t.Fatalf("AddObstacle error = %v, want ErrEmptyObstacle", err)
	}
}

func TestObstacleMapWorldConversion(t *testing.T) {
	om, err := NewObstacleMap(orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}}, 2.0)
	if err != nil {
		t.Fatalf("NewObstacleMap: %v", err)
	}
	cell := om.WorldToGrid(orb.Point{-9.5, 0.1})
	if cell != (core.Point{X: 0, Y: 5}) {
		t.Fatalf("WorldToGrid = %v, want (0,5)", cell)
	}
	if center := om.GridToWorld(cell); center != (orb.Point{-9, 1}) {
		t.Fatalf("GridToWorld = %v, want [-9 1]", center)
	}
}

func TestMovementRules(t *testing.T) {
	var _ core.GridMovement = (*ObstacleMap)(nil)
	var _ core.GridMovement = (*Map)(nil)

	om := newTestObstacleMap(t)
	if c, d := om.Costs(); c != DefaultCardinalCost || d != DefaultDiagonalCost || !om.AllowsDiagonal() {
		t.Fatalf("obstacle map rules = %v, %v, diagonal %v", c, d, om.AllowsDiagonal())
	}

	m, _ := NewMap(3, 3)
	m.SetAllowDiagonal(false)
	if m.AllowsDiagonal() || len(m.GetAvailableExits(4)) != 4 {
		t.Fatal("four-way map reports diagonal moves")
	}
}
