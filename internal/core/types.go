package core

// Point represents a 2D grid coordinate
type Point struct {
	X, Y int
}

// Point3D represents a 3D grid coordinate
type Point3D struct {
	X, Y, Z int
}

// Add returns the component-wise sum of two points
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the component-wise difference of two points
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Add returns the component-wise sum of two points
func (p Point3D) Add(o Point3D) Point3D {
	return Point3D{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Exit is a neighbouring cell reachable from a cell, with the cost of the move
type Exit struct {
	Index int
	Cost  float64
}

// BaseMap is the minimal capability a map must expose to the search engines
type BaseMap interface {
	// IsOpaque reports whether the cell blocks visibility (not necessarily movement)
	IsOpaque(idx int) bool
	// GetAvailableExits returns the cells reachable in one move from idx
	GetAvailableExits(idx int) []Exit
	// GetPathingDistance is the heuristic estimate between two cells.
	// It must never overestimate the true cost for A* to return optimal paths.
	GetPathingDistance(a, b int) float64
}

// Algorithm2D converts between grid indices and 2D coordinates
type Algorithm2D interface {
	PointToIndex(pt Point) int
	IndexToPoint(idx int) Point
	Dimensions() Point
	InBounds(pt Point) bool
}

// Algorithm3D converts between grid indices and 3D coordinates
type Algorithm3D interface {
	Point3DToIndex(pt Point3D) int
	IndexToPoint3D(idx int) Point3D
	Dimensions3D() Point3D
	InBounds3D(pt Point3D) bool
}

// Map2D is a 2D grid map usable by every engine
type Map2D interface {
	BaseMap
	Algorithm2D
}

// Walkable is implemented by maps that distinguish passable cells from
// transparent ones. Maps without it are treated as passable wherever they
// are not opaque.
type Walkable interface {
	IsWalkable(idx int) bool
}

// GridMovement is implemented by uniform-cost grids that can describe their
// exits: four cardinal steps, plus four diagonal steps when AllowsDiagonal
// reports true.
type GridMovement interface {
	AllowsDiagonal() bool
	Costs() (cardinal, diagonal float64)
}

// IndexCount returns the number of cells of a map that also implements
// Algorithm2D or Algorithm3D. ok is false when the size cannot be known.
func IndexCount(m BaseMap) (int, bool) {
	switch sized := m.(type) {
	case Algorithm3D:
		d := sized.Dimensions3D()
		return d.X * d.Y * d.Z, true
	case Algorithm2D:
		d := sized.Dimensions()
		return d.X * d.Y, true
	}
	return 0, false
}

// ValidIndex reports whether idx can address a cell of m
func ValidIndex(m BaseMap, idx int) bool {
	if idx < 0 {
		return false
	}
	if n, ok := IndexCount(m); ok {
		return idx < n
	}
	return true
}

// IsPassable reports whether a unit may stand on the cell
func IsPassable(m BaseMap, idx int) bool {
	if w, ok := m.(Walkable); ok {
		return w.IsWalkable(idx)
	}
	return !m.IsOpaque(idx)
}

// NavigationPath is the result of a single path search
type NavigationPath struct {
	Destination int
	Success     bool
	Steps       []int // includes the start index first when Success is true
}

// NewNavigationPath creates an empty, unsuccessful path
func NewNavigationPath() NavigationPath {
	return NavigationPath{}
}

// Pathfinder is implemented by the single-path search engines
type Pathfinder interface {
	FindPath(m BaseMap, start, end int) NavigationPath
	SetMaxSteps(maxSteps int)
}
