// Package fov computes visible cells with recursive shadowcasting.
package fov

import (
	"cmp"
	"gridweaver/internal/core"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// FOVMap is what a map must provide for visibility queries
type FOVMap interface {
	core.Algorithm2D
	IsOpaque(idx int) bool
}

// rays are the eight compass directions, clockwise from north
var rays = [8]core.Point{
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
}

// octant maps a scan offset (dx, dy) onto the map as
// (dx*xx + dy*xy, dx*yx + dy*yy). Row j of a scan has dy = -j and dx running
// from -j (the diagonal edge) to 0 (the axis).
type octant struct {
	xx, xy, yx, yy int
}

var octants = [8]octant{
	{xx: 1, xy: 0, yx: 0, yy: 1},   // north, west half
	{xx: -1, xy: 0, yx: 0, yy: 1},  // north, east half
	{xx: 0, xy: -1, yx: 1, yy: 0},  // east, north half
	{xx: 0, xy: -1, yx: -1, yy: 0}, // east, south half
	{xx: -1, xy: 0, yx: 0, yy: -1}, // south, east half
	{xx: 1, xy: 0, yx: 0, yy: -1},  // south, west half
	{xx: 0, xy: 1, yx: -1, yy: 0},  // west, south half
	{xx: 0, xy: 1, yx: 1, yy: 0},   // west, north half
}

// cardinal is the direction of the octant's axis
func (o octant) cardinal() core.Point {
	return core.Point{X: -o.xy, Y: -o.yy}
}

// diagonal is the direction of the octant's diagonal edge
func (o octant) diagonal() core.Point {
	return core.Point{X: -(o.xx + o.xy), Y: -(o.yx + o.yy)}
}

func (o octant) transform(center core.Point, col, row int) core.Point {
	return core.Point{
		X: center.X + col*o.xx + row*o.xy,
		Y: center.Y + col*o.yx + row*o.yy,
	}
}

// FieldOfViewSet returns every cell visible from center within radius.
// A cell is in range when its squared distance to center is at most
// radius*radius. Opaque cells are visible themselves but hide what lies
// behind them. Cells outside the map are never visible and never block.
func FieldOfViewSet(center core.Point, radius int, m FOVMap) mapset.Set[core.Point] {
	visible := mapset.New[core.Point]()
	if !m.InBounds(center) {
		core.Logger().Debug("fov: center out of bounds", "center", center)
		return visible
	}
	visible.Put(center)
	if radius <= 0 {
		return visible
	}

	s := scanner{
		center:   center,
		radius:   radius,
		radiusSq: radius * radius,
		m:        m,
		visible:  &visible,
	}

	var open [8]bool
	for i, dir := range rays {
		open[i] = s.castRay(dir)
	}

	for _, oct := range octants {
		if !open[rayIndex(oct.cardinal())] && !open[rayIndex(oct.diagonal())] {
			continue
		}
		s.castLight(oct, 1, 1.0, 0.0)
	}

	return visible
}

// FieldOfView returns the visible cells sorted by row, then column
func FieldOfView(center core.Point, radius int, m FOVMap) []core.Point {
	set := FieldOfViewSet(center, radius, m)

	points := make([]core.Point, 0, set.Size())
	set.Each(func(pt core.Point) {
		points = append(points, pt)
	})
	slices.SortFunc(points, func(a, b core.Point) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return points
}

type scanner struct {
	center   core.Point
	radius   int
	radiusSq int
	m        FOVMap
	visible  *mapset.Set[core.Point]
}

// castRay marks cells along dir up to and including the first opaque one.
// It reports whether the first cell along dir is in the map and transparent.
func (s *scanner) castRay(dir core.Point) bool {
	firstOpen := false
	for step := 1; ; step++ {
		pt := core.Point{X: s.center.X + dir.X*step, Y: s.center.Y + dir.Y*step}
		if !s.m.InBounds(pt) {
			break
		}
		dx, dy := dir.X*step, dir.Y*step
		if dx*dx+dy*dy > s.radiusSq {
			break
		}

		s.visible.Put(pt)
		opaque := s.m.IsOpaque(s.m.PointToIndex(pt))
		if step == 1 {
			firstOpen = !opaque
		}
		if opaque {
			break
		}
	}
	return firstOpen
}

// castLight scans rows of one octant between the start and end slopes,
// recursing past every opaque run with the narrowed interval. The scan stops
// at the radius or the map edge, whichever comes first.
func (s *scanner) castLight(oct octant, row int, start, end float64) {
	if start < end {
		return
	}

	newStart := 0.0
	for j := row; j <= s.radius; j++ {
		// Rows past the map edge along the axis hold no cells
		if !s.m.InBounds(oct.transform(s.center, 0, -j)) {
			break
		}
		blocked := false
		dy := -j

		for dx := -j; dx <= 0; dx++ {
			leftSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rightSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)
			if start < rightSlope {
				continue
			}
			if end > leftSlope {
				break
			}

			pt := oct.transform(s.center, dx, dy)
			inBounds := s.m.InBounds(pt)
			if inBounds && dx != 0 && dx*dx+dy*dy <= s.radiusSq {
				s.visible.Put(pt)
			}
			opaque := inBounds && s.m.IsOpaque(s.m.PointToIndex(pt))

			if blocked {
				if opaque {
					newStart = rightSlope
					continue
				}
				blocked = false
				start = newStart
			} else if opaque && j < s.radius {
				blocked = true
				s.castLight(oct, j+1, start, leftSlope)
				newStart = rightSlope
			}
		}

		if blocked {
			break
		}
	}
}

func rayIndex(dir core.Point) int {
	for i, r := range rays {
		if r == dir {
			return i
		}
	}
	return -1
}
