package gridweaver

import (
	"gridweaver/internal/core"
	"gridweaver/internal/grid"
	"gridweaver/internal/influence"
	"gridweaver/internal/pathfinding"
	"log/slog"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Types shared with the engines
type (
	Point          = core.Point
	Point3D        = core.Point3D
	Exit           = core.Exit
	BaseMap        = core.BaseMap
	Map2D          = core.Map2D
	NavigationPath = core.NavigationPath
	DijkstraMap    = pathfinding.DijkstraMap
	WeightedStart  = pathfinding.WeightedStart

	Map         = grid.Map
	Map3D       = grid.Map3D
	ObstacleMap = grid.ObstacleMap
	TileType    = grid.TileType

	InfluenceMap    = influence.Map
	InfluenceSource = influence.Source
)

// Tile kinds for Map
const (
	TileFloor  = grid.TileFloor
	TileWall   = grid.TileWall
	TileDoor   = grid.TileDoor
	TileWindow = grid.TileWindow
)

// Movement kinds for Map3D
const (
	MovementGround = grid.MovementGround
	MovementFlight = grid.MovementFlight
)

// Influence decay kinds
const (
	DecayLinear      = influence.DecayLinear
	DecayQuadratic   = influence.DecayQuadratic
	DecayExponential = influence.DecayExponential
	DecayConstant    = influence.DecayConstant
)

// Map constructors

// NewMap creates an open width x height tile map
func NewMap(width, height int) (*Map, error) {
	return grid.NewMap(width, height)
}

// ParseASCII builds a tile map from rows of '.', '#', '+' and '=' runes
func ParseASCII(rows []string) (*Map, error) {
	return grid.ParseASCII(rows)
}

// NewMap3D creates an open layered map
func NewMap3D(width, height, depth int, movement grid.MovementType) (*Map3D, error) {
	return grid.NewMap3D(width, height, depth, movement)
}

// NewObstacleMap creates a grid over bounds whose blocked cells come from
// rectangles added with AddObstacle
func NewObstacleMap(bounds orb.Bound, cellSize float64) (*ObstacleMap, error) {
	return grid.NewObstacleMap(bounds, cellSize)
}

// NewInfluenceMap overlays danger penalties on base. Entering a cell costs
// its base cost plus weight times the cell's accumulated influence.
func NewInfluenceMap(base BaseMap, weight float64) (*InfluenceMap, error) {
	return influence.New(base, weight)
}

// SetLogger sets the logger used by every engine. Nil restores the silent
// default.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}

// Path utility functions

// PathCost sums the exit costs along steps. It reports false when two
// consecutive steps are not joined by an exit.
func PathCost(m BaseMap, steps []int) (float64, bool) {
	total := 0.0
	for i := 1; i < len(steps); i++ {
		cost, ok := exitCost(m, steps[i-1], steps[i])
		if !ok {
			return 0, false
		}
		total += cost
	}
	return total, true
}

func exitCost(m BaseMap, from, to int) (float64, bool) {
	for _, exit := range m.GetAvailableExits(from) {
		if exit.Index == to {
			return exit.Cost, true
		}
	}
	return 0, false
}

// StepsToPoints converts grid indices to coordinates
func StepsToPoints(m Map2D, steps []int) []Point {
	points := make([]Point, len(steps))
	for i, idx := range steps {
		points[i] = m.IndexToPoint(idx)
	}
	return points
}

// PointsToSteps converts coordinates to grid indices. It reports false if any
// point lies outside the map.
func PointsToSteps(m Map2D, points []Point) ([]int, bool) {
	steps := make([]int, len(points))
	for i, pt := range points {
		if !m.InBounds(pt) {
			return nil, false
		}
		steps[i] = m.PointToIndex(pt)
	}
	return steps, true
}

// SimplifyPath reduces a cell path to its turning points with the
// Douglas-Peucker algorithm. Points closer than epsilon to the simplified
// line are dropped; the first and last points are always kept.
func SimplifyPath(path []Point, epsilon float64) []Point {
	if len(path) < 3 {
		return path
	}

	line := make(orb.LineString, len(path))
	for i, pt := range path {
		line[i] = orb.Point{float64(pt.X), float64(pt.Y)}
	}

	simplified, ok := simplify.DouglasPeucker(epsilon).Simplify(line).(orb.LineString)
	if !ok {
		return path
	}

	result := make([]Point, len(simplified))
	for i, p := range simplified {
		result[i] = Point{X: int(math.Round(p[0])), Y: int(math.Round(p[1]))}
	}
	return result
}
