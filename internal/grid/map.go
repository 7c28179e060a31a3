package grid

import (
	"errors"
	"fmt"
	"gridweaver/internal/core"
	"gridweaver/internal/distance"
)

// Sentinel errors for map construction
var (
	ErrInvalidDimensions = errors.New("grid: dimensions must be positive")
	ErrRaggedRows        = errors.New("grid: rows have different lengths")
	ErrUnknownTile       = errors.New("grid: unknown tile rune")
	ErrEmptyObstacle     = errors.New("grid: obstacle has no area")
	ErrOutOfBounds       = errors.New("grid: coordinate out of bounds")
)

// Default step costs for 8-connected maps
const (
	DefaultCardinalCost = 1.0
	DefaultDiagonalCost = 1.4
)

// TileType describes how a cell affects movement and sight
type TileType uint8

const (
	TileFloor  TileType = iota // walkable, transparent
	TileWall                   // blocked, opaque
	TileDoor                   // walkable, opaque
	TileWindow                 // blocked, transparent
)

// Walkable reports whether units may stand on the tile
func (t TileType) Walkable() bool {
	return t == TileFloor || t == TileDoor
}

// Opaque reports whether the tile blocks sight
func (t TileType) Opaque() bool {
	return t == TileWall || t == TileDoor
}

// direction offsets, cardinals first
var (
	cardinalOffsets = []core.Point{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}
	diagonalOffsets = []core.Point{{X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// Map is a dense rectangular tile map implementing core.Map2D
type Map struct {
	width         int
	height        int
	tiles         []TileType
	cardinalCost  float64
	diagonalCost  float64
	allowDiagonal bool
	metric        distance.Metric
}

// NewMap creates an all-floor map
func NewMap(width, height int) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new map %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	return &Map{
		width:         width,
		height:        height,
		tiles:         make([]TileType, width*height),
		cardinalCost:  DefaultCardinalCost,
		diagonalCost:  DefaultDiagonalCost,
		allowDiagonal: true,
		metric:        distance.OctileMetric(DefaultCardinalCost, DefaultDiagonalCost),
	}, nil
}

// SetCosts sets the movement costs and keeps the octile heuristic in sync
func (m *Map) SetCosts(cardinal, diagonal float64) {
	m.cardinalCost = cardinal
	m.diagonalCost = diagonal
	if m.metric.Algorithm == distance.DiagonalWithCosts {
		m.metric = distance.OctileMetric(cardinal, diagonal)
	}
}

// Costs returns the cardinal and diagonal movement costs
func (m *Map) Costs() (float64, float64) {
	return m.cardinalCost, m.diagonalCost
}

// SetAllowDiagonal sets whether diagonal exits are generated
func (m *Map) SetAllowDiagonal(allow bool) {
	m.allowDiagonal = allow
}

// AllowsDiagonal reports whether diagonal exits are generated
func (m *Map) AllowsDiagonal() bool {
	return m.allowDiagonal
}

// SetMetric replaces the heuristic used by GetPathingDistance.
// Metrics that overestimate the movement costs make A* paths non-optimal.
func (m *Map) SetMetric(metric distance.Metric) {
	m.metric = metric
}

// SetTile sets the tile at a coordinate
func (m *Map) SetTile(pt core.Point, tile TileType) error {
	if !m.InBounds(pt) {
		return fmt.Errorf("set tile %v: %w", pt, ErrOutOfBounds)
	}
	m.tiles[m.PointToIndex(pt)] = tile
	return nil
}

// Tile returns the tile at a coordinate; out-of-bounds coordinates read as walls
func (m *Map) Tile(pt core.Point) TileType {
	if !m.InBounds(pt) {
		return TileWall
	}
	return m.tiles[m.PointToIndex(pt)]
}

// Fill sets every cell to the given tile
func (m *Map) Fill(tile TileType) {
	for i := range m.tiles {
		m.tiles[i] = tile
	}
}

// IsOpaque reports whether the cell blocks sight
func (m *Map) IsOpaque(idx int) bool {
	if idx < 0 || idx >= len(m.tiles) {
		return true
	}
	return m.tiles[idx].Opaque()
}

// IsWalkable reports whether the cell can be entered
func (m *Map) IsWalkable(idx int) bool {
	if idx < 0 || idx >= len(m.tiles) {
		return false
	}
	return m.tiles[idx].Walkable()
}

// GetAvailableExits returns the walkable neighbours of a cell.
// Diagonal moves only require the destination to be walkable.
func (m *Map) GetAvailableExits(idx int) []core.Exit {
	if idx < 0 || idx >= len(m.tiles) {
		return nil
	}
	pos := m.IndexToPoint(idx)
	exits := make([]core.Exit, 0, 8)
	exits = m.appendExits(exits, pos, cardinalOffsets, m.cardinalCost)
	if m.allowDiagonal {
		exits = m.appendExits(exits, pos, diagonalOffsets, m.diagonalCost)
	}
	return exits
}

func (m *Map) appendExits(exits []core.Exit, pos core.Point, offsets []core.Point, cost float64) []core.Exit {
	for _, off := range offsets {
		next := pos.Add(off)
		if !m.InBounds(next) {
			continue
		}
		nextIdx := m.PointToIndex(next)
		if m.tiles[nextIdx].Walkable() {
			exits = append(exits, core.Exit{Index: nextIdx, Cost: cost})
		}
	}
	return exits
}

// GetPathingDistance returns the heuristic distance between two cells
func (m *Map) GetPathingDistance(a, b int) float64 {
	return m.metric.Distance2D(m.IndexToPoint(a), m.IndexToPoint(b))
}

// PointToIndex converts a coordinate to a cell index
func (m *Map) PointToIndex(pt core.Point) int {
	return pt.Y*m.width + pt.X
}

// IndexToPoint converts a cell index to a coordinate
func (m *Map) IndexToPoint(idx int) core.Point {
	return core.Point{X: idx % m.width, Y: idx / m.width}
}

// Dimensions returns the map size as a point
func (m *Map) Dimensions() core.Point {
	return core.Point{X: m.width, Y: m.height}
}

// InBounds reports whether a coordinate lies on the map
func (m *Map) InBounds(pt core.Point) bool {
	return pt.X >= 0 && pt.X < m.width && pt.Y >= 0 && pt.Y < m.height
}

// Width returns the number of columns
func (m *Map) Width() int { return m.width }

// Height returns the number of rows
func (m *Map) Height() int { return m.height }
