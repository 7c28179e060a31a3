package pathfinding

import (
	"gridweaver/internal/core"
	"gridweaver/internal/grid"
	"math"
	"math/rand"
	"testing"
)

func TestJPSStartEqualsEnd(t *testing.T) {
	m := grid.MustParseASCII("...", "...")
	path := JPSSearch(4, 4, m)
	if !path.Success || len(path.Steps) != 1 || path.Steps[0] != 4 {
		t.Fatalf("JPSSearch(4, 4) = %+v, want success with [4]", path)
	}
}

func TestJPSStraightLine(t *testing.T) {
	m := grid.MustParseASCII("..........")
	path := JPSSearch(0, 9, m)
	if !path.Success {
		t.Fatal("expected a path along the corridor")
	}
	if len(path.Steps) != 10 {
		t.Fatalf("path length = %d, want 10 interpolated cells", len(path.Steps))
	}
	for i, s := range path.Steps {
		if s != i {
			t.Fatalf("step %d = %d, want %d", i, s, i)
		}
	}
}

func TestJPSInterpolatesDiagonals(t *testing.T) {
	m, _ := grid.NewMap(6, 6)
	start := m.PointToIndex(core.Point{X: 0, Y: 0})
	goal := m.PointToIndex(core.Point{X: 5, Y: 5})

	path := JPSSearch(start, goal, m)
	if !path.Success {
		t.Fatal("expected a path")
	}
	if len(path.Steps) != 6 {
		t.Fatalf("path = %v, want 6 diagonal cells", toPoints(m, path.Steps))
	}
	if got := pathCost(t, m, path.Steps); math.Abs(got-7.0) > 1e-9 {
		t.Fatalf("path cost = %v, want 7.0", got)
	}
}

func TestJPSAroundWall(t *testing.T) {
	m := grid.MustParseASCII(
		"........",
		"...#....",
		"...#....",
		"...#....",
		"........",
	)
	start := m.PointToIndex(core.Point{X: 0, Y: 2})
	goal := m.PointToIndex(core.Point{X: 7, Y: 2})

	jps := JPSSearch(start, goal, m)
	astar := AStarSearch(start, goal, m)
	if !jps.Success || !astar.Success {
		t.Fatalf("jps success = %v, astar success = %v", jps.Success, astar.Success)
	}
	assertWalkable(t, m, jps.Steps)

	if got, want := pathCost(t, m, jps.Steps), pathCost(t, m, astar.Steps); math.Abs(got-want) > 1e-9 {
		t.Fatalf("JPS cost = %v, A* cost = %v", got, want)
	}
}

func TestJPSUnreachable(t *testing.T) {
	m := grid.MustParseASCII(
		"..#..",
		"..#..",
		"..#..",
	)
	path := JPSSearch(0, 4, m)
	if path.Success || len(path.Steps) != 0 {
		t.Fatalf("expected failure, got %+v", path)
	}
}

func TestJPSBorderGoals(t *testing.T) {
	// Every border cell is reachable; out-of-map probes must not alias to
	// cells on the opposite edge.
	m := grid.MustParseASCII(
		"......",
		".##...",
		"....#.",
		"......",
	)
	start := m.PointToIndex(core.Point{X: 0, Y: 0})
	for x := 0; x < 6; x++ {
		for _, y := range []int{0, 3} {
			goal := m.PointToIndex(core.Point{X: x, Y: y})
			jps := JPSSearch(start, goal, m)
			astar := AStarSearch(start, goal, m)
			if jps.Success != astar.Success {
				t.Fatalf("goal (%d,%d): jps success %v, astar success %v", x, y, jps.Success, astar.Success)
			}
			if math.Abs(pathCost(t, m, jps.Steps)-pathCost(t, m, astar.Steps)) > 1e-9 {
				t.Fatalf("goal (%d,%d): cost mismatch", x, y)
			}
		}
	}
}

func TestJPSMatchesAStarOnRandomMaps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 40; trial++ {
		m := randomMap(t, rng, 16, 12, 0.25)
		jps := NewJPSPathfinder()
		astar := NewAStarPathfinder()

		for q := 0; q < 10; q++ {
			start := rng.Intn(16 * 12)
			goal := rng.Intn(16 * 12)
			if !m.IsWalkable(start) || !m.IsWalkable(goal) {
				continue
			}

			jp := jps.FindPath(m, start, goal)
			ap := astar.FindPath(m, start, goal)
			if jp.Success != ap.Success {
				t.Fatalf("trial %d: %v -> %v: jps success %v, astar success %v\n%s",
					trial, m.IndexToPoint(start), m.IndexToPoint(goal), jp.Success, ap.Success, m)
			}
			if !jp.Success {
				continue
			}

			if jp.Steps[0] != start || jp.Steps[len(jp.Steps)-1] != goal {
				t.Fatalf("trial %d: jps path does not join start and goal", trial)
			}
			assertWalkable(t, m, jp.Steps)

			jc := pathCost(t, m, jp.Steps)
			ac := pathCost(t, m, ap.Steps)
			if math.Abs(jc-ac) > 1e-9 {
				t.Fatalf("trial %d: %v -> %v: jps cost %v, astar cost %v\n%s",
					trial, m.IndexToPoint(start), m.IndexToPoint(goal), jc, ac, m)
			}
		}
	}
}

func TestJPSFourWayMatchesAStar(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 40; trial++ {
		m := randomMap(t, rng, 14, 10, 0.3)
		m.SetAllowDiagonal(false)
		jps := NewJPSPathfinder()
		astar := NewAStarPathfinder()

		for q := 0; q < 10; q++ {
			start := rng.Intn(14 * 10)
			goal := rng.Intn(14 * 10)
			if !m.IsWalkable(start) || !m.IsWalkable(goal) {
				continue
			}

			jp := jps.FindPath(m, start, goal)
			ap := astar.FindPath(m, start, goal)
			if jp.Success != ap.Success {
				t.Fatalf("trial %d: %v -> %v: jps success %v, astar success %v\n%s",
					trial, m.IndexToPoint(start), m.IndexToPoint(goal), jp.Success, ap.Success, m)
			}
			if !jp.Success {
				continue
			}

			// pathCost fails on any step the map does not offer, diagonals included
			jc := pathCost(t, m, jp.Steps)
			ac := pathCost(t, m, ap.Steps)
			if math.Abs(jc-ac) > 1e-9 {
				t.Fatalf("trial %d: %v -> %v: jps cost %v, astar cost %v\n%s",
					trial, m.IndexToPoint(start), m.IndexToPoint(goal), jc, ac, m)
			}
		}
	}
}

func TestJPSFourWayOpenMap(t *testing.T) {
	m, _ := grid.NewMap(5, 5)
	m.SetAllowDiagonal(false)

	path := JPSSearch(0, 24, m)
	if !path.Success {
		t.Fatal("expected a path")
	}
	if len(path.Steps) != 9 {
		t.Fatalf("path length = %d, want 9: %v", len(path.Steps), toPoints(m, path.Steps))
	}
	if got := pathCost(t, m, path.Steps); got != 8 {
		t.Fatalf("path cost = %v, want 8", got)
	}
}

func TestJPSUsesMapCosts(t *testing.T) {
	m, _ := grid.NewMap(6, 6)
	m.SetCosts(2, 3)

	// The map's costs win over SetCosts
	j := NewJPSPathfinder()
	j.SetCosts(1, 1.4)
	start := m.PointToIndex(core.Point{X: 0, Y: 0})
	goal := m.PointToIndex(core.Point{X: 5, Y: 3})

	jp := j.FindPath(m, start, goal)
	ap := AStarSearch(start, goal, m)
	if !jp.Success || !ap.Success {
		t.Fatal("expected both searches to succeed")
	}
	if jc, ac := pathCost(t, m, jp.Steps), pathCost(t, m, ap.Steps); jc != ac || jc != 13 {
		t.Fatalf("jps cost %v, astar cost %v, want 13", jc, ac)
	}
}

func TestJPSCustomCosts(t *testing.T) {
	m, _ := grid.NewMap(5, 5)
	m.SetCosts(1, 1.5)

	j := NewJPSPathfinder()
	j.SetCosts(1, 1.5)
	start := m.PointToIndex(core.Point{X: 0, Y: 0})
	goal := m.PointToIndex(core.Point{X: 4, Y: 2})

	jp := j.FindPath(m, start, goal)
	ap := AStarSearch(start, goal, m)
	if !jp.Success || !ap.Success {
		t.Fatal("expected both searches to succeed")
	}
	if math.Abs(pathCost(t, m, jp.Steps)-pathCost(t, m, ap.Steps)) > 1e-9 {
		t.Fatal("cost mismatch with custom costs")
	}
}

func TestJPSRequiresMap2D(t *testing.T) {
	m3, _ := grid.NewMap3D(3, 3, 1, grid.MovementFlight)
	if path := NewJPSPathfinder().FindPath(m3, 0, 8); path.Success {
		t.Fatal("JPS should refuse maps without 2D coordinates")
	}
}

func TestJPSStepCap(t *testing.T) {
	m := grid.MustParseASCII(
		"..........",
		"#########.",
		"..........",
		".#########",
		"..........",
	)
	j := NewJPSPathfinder()
	j.SetMaxSteps(1)
	start := m.PointToIndex(core.Point{X: 0, Y: 0})
	goal := m.PointToIndex(core.Point{X: 9, Y: 4})
	if path := j.FindPath(m, start, goal); path.Success {
		t.Fatal("search should stop at the step cap")
	}
}

func randomMap(t *testing.T, rng *rand.Rand, width, height int, density float64) *grid.Map {
	t.Helper()
	m, err := grid.NewMap(width, height)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if rng.Float64() < density {
				_ = m.SetTile(core.Point{X: x, Y: y}, grid.TileWall)
			}
		}
	}
	return m
}
