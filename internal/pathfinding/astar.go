package pathfinding

import (
	"gridweaver/internal/core"
)

// MaxAStarSteps bounds the number of node expansions of a single search
const MaxAStarSteps = 65536

// AStarPathfinder implements the A* pathfinding algorithm over any core.BaseMap.
// The open list and parent map are reused between calls, so a pathfinder
// must not be shared between goroutines.
type AStarPathfinder struct {
	maxSteps int
	open     *openList
	parents  map[int]parentRecord
}

// NewAStarPathfinder creates a new A* pathfinder
func NewAStarPathfinder() *AStarPathfinder {
	return &AStarPathfinder{
		maxSteps: MaxAStarSteps,
		open:     newOpenList(),
		parents:  make(map[int]parentRecord),
	}
}

// SetMaxSteps sets the maximum number of nodes to expand
func (a *AStarPathfinder) SetMaxSteps(maxSteps int) {
	if maxSteps <= 0 {
		maxSteps = MaxAStarSteps
	}
	a.maxSteps = maxSteps
}

// AStarSearch runs a single search with a fresh pathfinder
func AStarSearch(start, end int, m core.BaseMap) core.NavigationPath {
	return NewAStarPathfinder().FindPath(m, start, end)
}

// FindPath finds the cheapest path from start to end.
//
// A successor is admitted when it has no record yet or the new g is strictly
// lower than the recorded one. Entries made stale by a later improvement are
// skipped when popped, so every cell is expanded with its best known g.
func (a *AStarPathfinder) FindPath(m core.BaseMap, start, end int) core.NavigationPath {
	result := core.NewNavigationPath()
	result.Destination = end

	if !core.ValidIndex(m, start) || !core.ValidIndex(m, end) {
		core.Logger().Debug("astar: index out of range", "start", start, "end", end)
		return result
	}
	if start == end {
		result.Success = true
		result.Steps = []int{start}
		return result
	}

	a.reset()

	h := m.GetPathingDistance(start, end)
	a.open.push(searchNode{index: start, g: 0, h: h, f: h})
	a.parents[start] = parentRecord{parent: noParent, g: 0}

	expanded := 0
	for a.open.len() > 0 {
		if expanded >= a.maxSteps {
			core.Logger().Debug("astar: step cap reached", "start", start, "end", end, "steps", expanded)
			return result
		}

		current, _ := a.open.pop()
		if best := a.parents[current.index]; current.g > best.g {
			continue
		}

		if current.index == end {
			result.Success = true
			result.Steps = reconstructPath(a.parents, start, end)
			return result
		}
		expanded++

		for _, exit := range m.GetAvailableExits(current.index) {
			if exit.Cost < 0 {
				continue
			}
			g := current.g + exit.Cost
			if rec, seen := a.parents[exit.Index]; seen && rec.g <= g {
				continue
			}
			a.parents[exit.Index] = parentRecord{parent: current.index, g: g}

			nh := m.GetPathingDistance(exit.Index, end)
			a.open.push(searchNode{index: exit.Index, g: g, h: nh, f: g + nh})
		}
	}

	return result
}

// reset clears the buffers of the previous search
func (a *AStarPathfinder) reset() {
	a.open.reset()
	clear(a.parents)
}

// reconstructPath walks the parent map back from end and reverses it
func reconstructPath(parents map[int]parentRecord, start, end int) []int {
	var path []int
	current := end

	for current != noParent && len(path) <= len(parents) {
		path = append(path, current)
		if current == start {
			break
		}
		current = parents[current].parent
	}

	// Reverse path to go from start to goal
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
