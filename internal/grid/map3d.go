package grid

import (
	"fmt"
	"gridweaver/internal/core"
	"gridweaver/internal/distance"
	"math"
)

// MovementType defines how units change layers on a Map3D
type MovementType int

const (
	MovementGround MovementType = iota // layers change only on climbable cells
	MovementFlight                     // any open cell above or below can be entered
)

// Map3D is a stack of 2D layers implementing core.BaseMap and core.Algorithm3D.
// Within a layer movement is 8-connected; between layers it is vertical only.
type Map3D struct {
	width, height, depth int
	blocked              []bool
	climbable            []bool
	movement             MovementType
	cardinalCost         float64
	diagonalCost         float64
	verticalCost         float64
	metric               distance.Metric
}

// NewMap3D creates an open layered map
func NewMap3D(width, height, depth int, movement MovementType) (*Map3D, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("new map3d %dx%dx%d: %w", width, height, depth, ErrInvalidDimensions)
	}
	n := width * height * depth
	return &Map3D{
		width:        width,
		height:       height,
		depth:        depth,
		blocked:      make([]bool, n),
		climbable:    make([]bool, n),
		movement:     movement,
		cardinalCost: DefaultCardinalCost,
		diagonalCost: DefaultDiagonalCost,
		verticalCost: 1.0,
		metric:       distance.OctileMetric(DefaultCardinalCost, DefaultDiagonalCost),
	}, nil
}

// SetVerticalCost sets the cost of moving one layer up or down
func (m *Map3D) SetVerticalCost(cost float64) {
	m.verticalCost = cost
}

// SetMetric replaces the heuristic used by GetPathingDistance
func (m *Map3D) SetMetric(metric distance.Metric) {
	m.metric = metric
}

// SetBlocked marks a cell as solid or open
func (m *Map3D) SetBlocked(pt core.Point3D, blocked bool) error {
	if !m.InBounds3D(pt) {
		return fmt.Errorf("set blocked %v: %w", pt, ErrOutOfBounds)
	}
	m.blocked[m.Point3DToIndex(pt)] = blocked
	return nil
}

// SetClimbable marks a cell as a ladder or stair for ground movement
func (m *Map3D) SetClimbable(pt core.Point3D, climbable bool) error {
	if !m.InBounds3D(pt) {
		return fmt.Errorf("set climbable %v: %w", pt, ErrOutOfBounds)
	}
	m.climbable[m.Point3DToIndex(pt)] = climbable
	return nil
}

// FillLayer blocks or opens every cell of one layer
func (m *Map3D) FillLayer(z int, blocked bool) {
	if z < 0 || z >= m.depth {
		return
	}
	layer := m.width * m.height
	for i := z * layer; i < (z+1)*layer; i++ {
		m.blocked[i] = blocked
	}
}

// IsOpaque reports whether the cell is solid
func (m *Map3D) IsOpaque(idx int) bool {
	if idx < 0 || idx >= len(m.blocked) {
		return true
	}
	return m.blocked[idx]
}

// GetAvailableExits returns the open neighbours of a cell
func (m *Map3D) GetAvailableExits(idx int) []core.Exit {
	if idx < 0 || idx >= len(m.blocked) {
		return nil
	}
	pos := m.IndexToPoint3D(idx)
	exits := make([]core.Exit, 0, 10)

	for _, off := range cardinalOffsets {
		exits = m.appendExit(exits, pos.Add(core.Point3D{X: off.X, Y: off.Y}), m.cardinalCost)
	}
	for _, off := range diagonalOffsets {
		exits = m.appendExit(exits, pos.Add(core.Point3D{X: off.X, Y: off.Y}), m.diagonalCost)
	}

	for _, dz := range []int{1, -1} {
		next := pos.Add(core.Point3D{Z: dz})
		if m.movement == MovementGround && !m.canClimb(idx, next) {
			continue
		}
		exits = m.appendExit(exits, next, m.verticalCost)
	}

	return exits
}

func (m *Map3D) canClimb(from int, to core.Point3D) bool {
	if !m.InBounds3D(to) {
		return false
	}
	return m.climbable[from] && m.climbable[m.Point3DToIndex(to)]
}

func (m *Map3D) appendExit(exits []core.Exit, next core.Point3D, cost float64) []core.Exit {
	if !m.InBounds3D(next) {
		return exits
	}
	nextIdx := m.Point3DToIndex(next)
	if m.blocked[nextIdx] {
		return exits
	}
	return append(exits, core.Exit{Index: nextIdx, Cost: cost})
}

// GetPathingDistance returns the heuristic distance between two cells.
// With the default octile metric each layer crossed is charged at the cheaper
// of the cardinal and vertical costs, which keeps the estimate admissible.
func (m *Map3D) GetPathingDistance(a, b int) float64 {
	pa, pb := m.IndexToPoint3D(a), m.IndexToPoint3D(b)
	if m.metric.Algorithm != distance.DiagonalWithCosts {
		return m.metric.Distance3D(pa, pb)
	}
	planar := m.metric.Distance2D(core.Point{X: pa.X, Y: pa.Y}, core.Point{X: pb.X, Y: pb.Y})
	layers := math.Abs(float64(pa.Z - pb.Z))
	return planar + layers*math.Min(m.cardinalCost, m.verticalCost)
}

// Point3DToIndex converts a coordinate to a cell index
func (m *Map3D) Point3DToIndex(pt core.Point3D) int {
	return (pt.Z*m.height+pt.Y)*m.width + pt.X
}

// IndexToPoint3D converts a cell index to a coordinate
func (m *Map3D) IndexToPoint3D(idx int) core.Point3D {
	layer := m.width * m.height
	rem := idx % layer
	return core.Point3D{X: rem % m.width, Y: rem / m.width, Z: idx / layer}
}

// Dimensions3D returns the map size
func (m *Map3D) Dimensions3D() core.Point3D {
	return core.Point3D{X: m.width, Y: m.height, Z: m.depth}
}

// InBounds3D reports whether a coordinate lies inside the map
func (m *Map3D) InBounds3D(pt core.Point3D) bool {
	return pt.X >= 0 && pt.X < m.width &&
		pt.Y >= 0 && pt.Y < m.height &&
		pt.Z >= 0 && pt.Z < m.depth
}
