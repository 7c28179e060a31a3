package grid

import (
	"fmt"
	"gridweaver/internal/core"
	"gridweaver/internal/distance"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	bound orb.Bound
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial
func (o *obstacleEntry) Bounds() rtreego.Rect {
	return o.rect
}

// ObstacleMap is a grid laid over world space whose blocked cells come from
// rectangular obstacles. Obstacles are kept in an R-tree, so very large maps
// with few obstacles stay cheap. A cell is blocked (and opaque) when any
// obstacle overlaps its interior.
type ObstacleMap struct {
	width    int
	height   int
	cellSize float64
	origin   orb.Point
	tree     *rtreego.Rtree
	count    int

	cardinalCost float64
	diagonalCost float64
	metric       distance.Metric
}

// NewObstacleMap covers bounds with square cells of cellSize world units
func NewObstacleMap(bounds orb.Bound, cellSize float64) (*ObstacleMap, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("new obstacle map: cell size %v: %w", cellSize, ErrInvalidDimensions)
	}
	width := int(math.Ceil((bounds.Max.X() - bounds.Min.X()) / cellSize))
	height := int(math.Ceil((bounds.Max.Y() - bounds.Min.Y()) / cellSize))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new obstacle map %dx%d: %w", width, height, ErrInvalidDimensions)
	}

	return &ObstacleMap{
		width:        width,
		height:       height,
		cellSize:     cellSize,
		origin:       bounds.Min,
		tree:         rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		cardinalCost: DefaultCardinalCost,
		diagonalCost: DefaultDiagonalCost,
		metric:       distance.OctileMetric(DefaultCardinalCost, DefaultDiagonalCost),
	}, nil
}

// AddObstacle registers a rectangular obstacle in world coordinates
func (om *ObstacleMap) AddObstacle(bound orb.Bound) error {
	rect, err := rtreego.NewRect(
		rtreego.Point{bound.Min.X(), bound.Min.Y()},
		[]float64{bound.Max.X() - bound.Min.X(), bound.Max.Y() - bound.Min.Y()},
	)
	if err != nil {
		return fmt.Errorf("add obstacle %v: %w", bound, ErrEmptyObstacle)
	}
	if !bound.Intersects(om.worldBound()) {
		core.Logger().Warn("obstacle outside map", "obstacle", bound)
	}
	om.tree.Insert(&obstacleEntry{bound: bound, rect: rect})
	om.count++
	return nil
}

func (om *ObstacleMap) worldBound() orb.Bound {
	return orb.Bound{
		Min: om.origin,
		Max: orb.Point{
			om.origin.X() + float64(om.width)*om.cellSize,
			om.origin.Y() + float64(om.height)*om.cellSize,
		},
	}
}

// ObstacleCount returns the number of registered obstacles
func (om *ObstacleMap) ObstacleCount() int {
	return om.count
}

// ObstaclesAt returns the obstacles overlapping a cell
func (om *ObstacleMap) ObstaclesAt(pt core.Point) []orb.Bound {
	if !om.InBounds(pt) {
		return nil
	}
	results := om.tree.SearchIntersect(om.cellRect(pt))
	bounds := make([]orb.Bound, 0, len(results))
	for _, item := range results {
		bounds = append(bounds, item.(*obstacleEntry).bound)
	}
	return bounds
}

// WorldToGrid converts a world position to the cell containing it
func (om *ObstacleMap) WorldToGrid(pos orb.Point) core.Point {
	return core.Point{
		X: int(math.Floor((pos.X() - om.origin.X()) / om.cellSize)),
		Y: int(math.Floor((pos.Y() - om.origin.Y()) / om.cellSize)),
	}
}

// GridToWorld converts a cell to the world position of its center
func (om *ObstacleMap) GridToWorld(pt core.Point) orb.Point {
	return orb.Point{
		om.origin.X() + (float64(pt.X)+0.5)*om.cellSize,
		om.origin.Y() + (float64(pt.Y)+0.5)*om.cellSize,
	}
}

// cellRect is the cell interior, inset so obstacles that merely touch a
// cell edge do not block it
func (om *ObstacleMap) cellRect(pt core.Point) rtreego.Rect {
	inset := om.cellSize * 1e-6
	rect, _ := rtreego.NewRect(
		rtreego.Point{
			om.origin.X() + float64(pt.X)*om.cellSize + inset,
			om.origin.Y() + float64(pt.Y)*om.cellSize + inset,
		},
		[]float64{om.cellSize - 2*inset, om.cellSize - 2*inset},
	)
	return rect
}

func (om *ObstacleMap) blocked(pt core.Point) bool {
	if !om.InBounds(pt) {
		return true
	}
	return len(om.tree.SearchIntersect(om.cellRect(pt))) > 0
}

// Costs returns the cardinal and diagonal movement costs
func (om *ObstacleMap) Costs() (float64, float64) {
	return om.cardinalCost, om.diagonalCost
}

// AllowsDiagonal reports true; obstacle maps are always 8-connected
func (om *ObstacleMap) AllowsDiagonal() bool {
	return true
}

// IsOpaque reports whether an obstacle covers the cell
func (om *ObstacleMap) IsOpaque(idx int) bool {
	if idx < 0 || idx >= om.width*om.height {
		return true
	}
	return om.blocked(om.IndexToPoint(idx))
}

// GetAvailableExits returns the unobstructed 8-connected neighbours of a cell
func (om *ObstacleMap) GetAvailableExits(idx int) []core.Exit {
	if idx < 0 || idx >= om.width*om.height {
		return nil
	}
	pos := om.IndexToPoint(idx)
	exits := make([]core.Exit, 0, 8)
	for _, off := range cardinalOffsets {
		if next := pos.Add(off); !om.blocked(next) {
			exits = append(exits, core.Exit{Index: om.PointToIndex(next), Cost: om.cardinalCost})
		}
	}
	for _, off := range diagonalOffsets {
		if next := pos.Add(off); !om.blocked(next) {
			exits = append(exits, core.Exit{Index: om.PointToIndex(next), Cost: om.diagonalCost})
		}
	}
	return exits
}

// GetPathingDistance returns the octile distance between two cells
func (om *ObstacleMap) GetPathingDistance(a, b int) float64 {
	return om.metric.Distance2D(om.IndexToPoint(a), om.IndexToPoint(b))
}

// PointToIndex converts a coordinate to a cell index
func (om *ObstacleMap) PointToIndex(pt core.Point) int {
	return pt.Y*om.width + pt.X
}

// IndexToPoint converts a cell index to a coordinate
func (om *ObstacleMap) IndexToPoint(idx int) core.Point {
	return core.Point{X: idx % om.width, Y: idx / om.width}
}

// Dimensions returns the grid size in cells
func (om *ObstacleMap) Dimensions() core.Point {
	return core.Point{X: om.width, Y: om.height}
}

// InBounds reports whether a coordinate lies on the grid
func (om *ObstacleMap) InBounds(pt core.Point) bool {
	return pt.X >= 0 && pt.X < om.width && pt.Y >= 0 && pt.Y < om.height
}
