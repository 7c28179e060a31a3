package pathfinding

import (
	"gridweaver/internal/core"
	"math"
)

// JPSPathfinder implements Jump Point Search.
// JPS is an optimization of A* for uniform-cost 4- or 8-connected grids:
// straight runs are walked without expanding intermediate cells, and only
// cells with forced neighbours are added to the open list.
//
// GetAvailableExits is not consulted. Maps implementing core.GridMovement
// supply their own connectivity and step costs; any other map is searched
// 8-connected, with diagonal steps allowed whenever the destination is
// passable, at the costs given to SetCosts.
type JPSPathfinder struct {
	maxSteps     int
	cardinalCost float64
	diagonalCost float64
	rules        moveRules
	open         *openList
	parents      map[int]parentRecord
}

// moveRules are the step rules of the map being searched
type moveRules struct {
	diagonal     bool
	cardinalCost float64
	diagonalCost float64
}

// NewJPSPathfinder creates a new JPS pathfinder with cardinal cost 1.0 and
// diagonal cost 1.4
func NewJPSPathfinder() *JPSPathfinder {
	return &JPSPathfinder{
		maxSteps:     MaxAStarSteps,
		cardinalCost: 1.0,
		diagonalCost: 1.4,
		open:         newOpenList(),
		parents:      make(map[int]parentRecord),
	}
}

// SetMaxSteps sets the maximum number of jump points to expand
func (j *JPSPathfinder) SetMaxSteps(maxSteps int) {
	if maxSteps <= 0 {
		maxSteps = MaxAStarSteps
	}
	j.maxSteps = maxSteps
}

// SetCosts sets the cost of one cardinal and one diagonal step on maps that
// do not report their own
func (j *JPSPathfinder) SetCosts(cardinal, diagonal float64) {
	j.cardinalCost = cardinal
	j.diagonalCost = diagonal
}

// JPSSearch runs a single search with a fresh pathfinder
func JPSSearch(start, end int, m core.Map2D) core.NavigationPath {
	return NewJPSPathfinder().FindPath(m, start, end)
}

// FindPath finds a path using Jump Point Search. The map must implement
// core.Map2D; other maps yield an unsuccessful path.
func (j *JPSPathfinder) FindPath(bm core.BaseMap, start, end int) core.NavigationPath {
	result := core.NewNavigationPath()
	result.Destination = end

	m, ok := bm.(core.Map2D)
	if !ok {
		core.Logger().Debug("jps: map does not implement core.Map2D")
		return result
	}
	if !core.ValidIndex(m, start) || !core.ValidIndex(m, end) {
		core.Logger().Debug("jps: index out of range", "start", start, "end", end)
		return result
	}
	if start == end {
		result.Success = true
		result.Steps = []int{start}
		return result
	}

	j.reset()
	j.rules = j.rulesFor(m)

	goal := m.IndexToPoint(end)
	h := m.GetPathingDistance(start, end)
	j.open.push(searchNode{index: start, g: 0, h: h, f: h})
	j.parents[start] = parentRecord{parent: noParent, g: 0}

	expanded := 0
	for j.open.len() > 0 {
		if expanded >= j.maxSteps {
			core.Logger().Debug("jps: step cap reached", "start", start, "end", end, "steps", expanded)
			return result
		}

		current, _ := j.open.pop()
		if best := j.parents[current.index]; current.g > best.g {
			continue
		}

		if current.index == end {
			result.Success = true
			result.Steps = j.interpolatePath(m, reconstructPath(j.parents, start, end))
			return result
		}
		expanded++

		pos := m.IndexToPoint(current.index)
		for _, dir := range j.prunedDirections(m, current.index, pos) {
			var jumpPoint core.Point
			var found bool
			if j.rules.diagonal {
				jumpPoint, found = j.jump(m, pos, dir, goal)
			} else {
				jumpPoint, found = j.jumpCardinal(m, pos, dir, goal)
			}
			if !found {
				continue
			}

			idx := m.PointToIndex(jumpPoint)
			g := current.g + j.segmentCost(pos, jumpPoint)
			if rec, seen := j.parents[idx]; seen && rec.g <= g {
				continue
			}
			j.parents[idx] = parentRecord{parent: current.index, g: g}

			nh := m.GetPathingDistance(idx, end)
			j.open.push(searchNode{index: idx, g: g, h: nh, f: g + nh})
		}
	}

	return result
}

func (j *JPSPathfinder) reset() {
	j.open.reset()
	clear(j.parents)
}

func (j *JPSPathfinder) rulesFor(m core.Map2D) moveRules {
	if gm, ok := m.(core.GridMovement); ok {
		cardinal, diagonal := gm.Costs()
		return moveRules{diagonal: gm.AllowsDiagonal(), cardinalCost: cardinal, diagonalCost: diagonal}
	}
	return moveRules{diagonal: true, cardinalCost: j.cardinalCost, diagonalCost: j.diagonalCost}
}

// prunedDirections returns the directions worth jumping in from a node,
// based on the direction it was reached from
func (j *JPSPathfinder) prunedDirections(m core.Map2D, idx int, pos core.Point) []core.Point {
	// 4-connected searches jump every way from each jump point
	if !j.rules.diagonal {
		return cardinalDirections
	}

	parent := j.parents[idx].parent
	if parent == noParent {
		return allDirections
	}

	dir := direction(m.IndexToPoint(parent), pos)
	x, y := pos.X, pos.Y
	dx, dy := dir.X, dir.Y
	dirs := make([]core.Point, 0, 5)

	switch {
	case dx != 0 && dy != 0:
		// Natural neighbours: continue diagonally and along both components
		dirs = append(dirs, core.Point{X: 0, Y: dy}, core.Point{X: dx, Y: 0}, dir)
		if !walkable(m, x-dx, y) {
			dirs = append(dirs, core.Point{X: -dx, Y: dy})
		}
		if !walkable(m, x, y-dy) {
			dirs = append(dirs, core.Point{X: dx, Y: -dy})
		}
	case dx != 0:
		dirs = append(dirs, dir)
		if !walkable(m, x, y+1) {
			dirs = append(dirs, core.Point{X: dx, Y: 1})
		}
		if !walkable(m, x, y-1) {
			dirs = append(dirs, core.Point{X: dx, Y: -1})
		}
	default:
		dirs = append(dirs, dir)
		if !walkable(m, x+1, y) {
			dirs = append(dirs, core.Point{X: 1, Y: dy})
		}
		if !walkable(m, x-1, y) {
			dirs = append(dirs, core.Point{X: -1, Y: dy})
		}
	}

	return dirs
}

// jump walks from pos in dir until it reaches the goal, a cell with a forced
// neighbour, or a dead end. Dead ends report found=false.
func (j *JPSPathfinder) jump(m core.Map2D, pos, dir, goal core.Point) (core.Point, bool) {
	current := pos
	for {
		next := current.Add(dir)
		if !walkable(m, next.X, next.Y) {
			return core.Point{}, false
		}
		if next == goal {
			return next, true
		}
		if hasForced(m, next, dir) {
			return next, true
		}

		// Diagonal movement: a jump point along either component makes this one
		if dir.X != 0 && dir.Y != 0 {
			if _, ok := j.jump(m, next, core.Point{X: dir.X}, goal); ok {
				return next, true
			}
			if _, ok := j.jump(m, next, core.Point{Y: dir.Y}, goal); ok {
				return next, true
			}
		}

		current = next
	}
}

// jumpCardinal is jump for 4-connected maps. Horizontal runs stop at forced
// neighbours. Vertical runs also stop wherever a horizontal run would find a
// jump point, so every turn an optimal path needs is reachable.
func (j *JPSPathfinder) jumpCardinal(m core.Map2D, pos, dir, goal core.Point) (core.Point, bool) {
	current := pos
	for {
		next := current.Add(dir)
		if !walkable(m, next.X, next.Y) {
			return core.Point{}, false
		}
		if next == goal || hasForcedCardinal(m, next, dir) {
			return next, true
		}

		if dir.Y != 0 {
			if _, ok := j.jumpCardinal(m, next, core.Point{X: 1}, goal); ok {
				return next, true
			}
			if _, ok := j.jumpCardinal(m, next, core.Point{X: -1}, goal); ok {
				return next, true
			}
		}

		current = next
	}
}

// hasForcedCardinal reports whether a side cell of a 4-connected run is open
// while the side cell one step back is blocked
func hasForcedCardinal(m core.Map2D, pos, dir core.Point) bool {
	x, y := pos.X, pos.Y
	dx, dy := dir.X, dir.Y

	if dx != 0 {
		return (walkable(m, x, y-1) && !walkable(m, x-dx, y-1)) ||
			(walkable(m, x, y+1) && !walkable(m, x-dx, y+1))
	}
	return (walkable(m, x-1, y) && !walkable(m, x-1, y-dy)) ||
		(walkable(m, x+1, y) && !walkable(m, x+1, y-dy))
}

// hasForced reports whether a cell reached by moving in dir has a forced
// neighbour: an orthogonal cell is blocked while the cell diagonally ahead of
// it is open. Cells off the map count as blocked and never as open, so map
// borders cannot produce forced neighbours.
func hasForced(m core.Map2D, pos, dir core.Point) bool {
	x, y := pos.X, pos.Y
	dx, dy := dir.X, dir.Y

	switch {
	case dx != 0 && dy != 0:
		return (!walkable(m, x-dx, y) && walkable(m, x-dx, y+dy)) ||
			(!walkable(m, x, y-dy) && walkable(m, x+dx, y-dy))
	case dx != 0:
		return (!walkable(m, x, y+1) && walkable(m, x+dx, y+1)) ||
			(!walkable(m, x, y-1) && walkable(m, x+dx, y-1))
	default:
		return (!walkable(m, x+1, y) && walkable(m, x+1, y+dy)) ||
			(!walkable(m, x-1, y) && walkable(m, x-1, y+dy))
	}
}

// segmentCost is the cost of a straight or purely diagonal run
func (j *JPSPathfinder) segmentCost(from, to core.Point) float64 {
	dx := math.Abs(float64(to.X - from.X))
	dy := math.Abs(float64(to.Y - from.Y))
	diag := math.Min(dx, dy)
	return diag*j.rules.diagonalCost + (math.Max(dx, dy)-diag)*j.rules.cardinalCost
}

// interpolatePath fills in the cells between consecutive jump points
func (j *JPSPathfinder) interpolatePath(m core.Map2D, jumpPoints []int) []int {
	if len(jumpPoints) == 0 {
		return nil
	}

	steps := []int{jumpPoints[0]}
	for i := 1; i < len(jumpPoints); i++ {
		current := m.IndexToPoint(jumpPoints[i-1])
		target := m.IndexToPoint(jumpPoints[i])
		step := direction(current, target)
		for current != target {
			current = current.Add(step)
			steps = append(steps, m.PointToIndex(current))
		}
	}
	return steps
}

var (
	allDirections = []core.Point{
		{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0},
		{X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1},
	}
	cardinalDirections = allDirections[:4]
)

// direction returns the unit step from a towards b
func direction(a, b core.Point) core.Point {
	return core.Point{X: sign(b.X - a.X), Y: sign(b.Y - a.Y)}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func walkable(m core.Map2D, x, y int) bool {
	pt := core.Point{X: x, Y: y}
	if !m.InBounds(pt) {
		return false
	}
	return core.IsPassable(m, m.PointToIndex(pt))
}
