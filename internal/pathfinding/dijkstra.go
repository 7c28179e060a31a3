package pathfinding

import (
	"context"
	"gridweaver/internal/core"
	"math"
	"runtime"
)

// Unreached is the value of cells no source reached
var Unreached = math.Inf(1)

// DijkstraMap is a dense distance field: each cell holds the cost of the
// cheapest route to the nearest source. Cells are addressed by the map's own
// index, so Map has SizeX*SizeY entries.
//
// A DijkstraMap is meant to be kept and rebuilt; Clear resets it in place.
type DijkstraMap struct {
	Map      []float64
	SizeX    int
	SizeY    int
	MaxDepth float64

	workers int
}

// WeightedStart is a source that seeds the field at a depth other than zero.
// Lower depths make a source more attractive.
type WeightedStart struct {
	Index int
	Depth float64
}

// NewDijkstraMap creates a field and builds it from starts
func NewDijkstraMap(sizeX, sizeY int, starts []int, m core.BaseMap, maxDepth float64) *DijkstraMap {
	d := NewEmptyDijkstraMap(sizeX, sizeY, maxDepth)
	d.Build(starts, m)
	return d
}

// NewEmptyDijkstraMap creates a field with every cell unreached
func NewEmptyDijkstraMap(sizeX, sizeY int, maxDepth float64) *DijkstraMap {
	if sizeX < 0 {
		sizeX = 0
	}
	if sizeY < 0 {
		sizeY = 0
	}
	d := &DijkstraMap{
		Map:      make([]float64, sizeX*sizeY),
		SizeX:    sizeX,
		SizeY:    sizeY,
		MaxDepth: maxDepth,
		workers:  runtime.GOMAXPROCS(0),
	}
	d.Clear()
	return d
}

// SetWorkers sets how many goroutines a build may use. Values below one
// restore the default of GOMAXPROCS.
func (d *DijkstraMap) SetWorkers(n int) {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	d.workers = n
}

// Workers returns the configured worker count
func (d *DijkstraMap) Workers() int {
	return d.workers
}

// Clear resets every cell to Unreached
func (d *DijkstraMap) Clear() {
	fillUnreached(d.Map)
}

// Build adds the given sources to the field. Call Clear first to build from
// scratch. When there are more sources than workers the build is split
// across goroutines with BuildParallel; the result is the same either way.
func (d *DijkstraMap) Build(starts []int, m core.BaseMap) {
	if d.workers > 1 && len(starts) > d.workers {
		// Background is never cancelled
		_ = d.BuildParallel(context.Background(), starts, m, d.workers)
		return
	}
	d.BuildSequential(starts, m)
}

// BuildSequential relaxes every source on the calling goroutine
func (d *DijkstraMap) BuildSequential(starts []int, m core.BaseMap) {
	seeds := make([]WeightedStart, len(starts))
	for i, s := range starts {
		seeds[i] = WeightedStart{Index: s}
	}
	// Background is never cancelled
	_ = d.relax(context.Background(), d.Map, seeds, m)
}

// BuildWeighted adds sources that each start at their own depth. Seeds
// deeper than MaxDepth are ignored.
func (d *DijkstraMap) BuildWeighted(starts []WeightedStart, m core.BaseMap) {
	// Background is never cancelled
	_ = d.relax(context.Background(), d.Map, starts, m)
}

// ValueAt returns the field value at idx, or Unreached when idx is outside
// the field
func (d *DijkstraMap) ValueAt(idx int) float64 {
	if idx < 0 || idx >= len(d.Map) {
		return Unreached
	}
	return d.Map[idx]
}

// Reachable reports whether some source reached idx
func (d *DijkstraMap) Reachable(idx int) bool {
	return !math.IsInf(d.ValueAt(idx), 1)
}

// FindLowestExit returns the exit of position with the lowest field value.
// It reports false when position is outside the field or has no exits.
func (d *DijkstraMap) FindLowestExit(position int, m core.BaseMap) (int, bool) {
	return d.bestExit(position, m, func(candidate, best float64) bool {
		return candidate < best
	})
}

// FindHighestExit returns the exit of position with the highest field value.
// It reports false when position is outside the field or has no exits.
func (d *DijkstraMap) FindHighestExit(position int, m core.BaseMap) (int, bool) {
	return d.bestExit(position, m, func(candidate, best float64) bool {
		return candidate > best
	})
}

// bestExit scans exits in the order the map returns them; on equal values
// the first one wins
func (d *DijkstraMap) bestExit(position int, m core.BaseMap, better func(candidate, best float64) bool) (int, bool) {
	if position < 0 || position >= len(d.Map) {
		return 0, false
	}

	found := false
	bestIdx := 0
	bestVal := 0.0
	for _, exit := range m.GetAvailableExits(position) {
		v := d.ValueAt(exit.Index)
		if !found || better(v, bestVal) {
			found = true
			bestIdx = exit.Index
			bestVal = v
		}
	}
	return bestIdx, found
}

// DescendPath follows the lowest exit from start while the field value keeps
// dropping, stopping at a source, a local minimum, or after maxSteps moves.
// The returned steps begin with start. An unreached or out-of-range start
// yields nil.
func (d *DijkstraMap) DescendPath(start int, m core.BaseMap, maxSteps int) []int {
	if !d.Reachable(start) {
		return nil
	}

	path := []int{start}
	current := start
	for i := 0; i < maxSteps; i++ {
		next, ok := d.FindLowestExit(current, m)
		if !ok || d.ValueAt(next) >= d.ValueAt(current) {
			break
		}
		path = append(path, next)
		current = next
	}
	return path
}

// queueEntry is a cell waiting to relax its exits at the given depth
type queueEntry struct {
	index int
	depth float64
}

// cancelCheckInterval is how many pops happen between context checks
const cancelCheckInterval = 1024

// relax spreads the seeds through field. A cell is requeued every time its
// value strictly drops, so the result is the cheapest depth from any seed no
// matter in which order seeds and cells are processed.
func (d *DijkstraMap) relax(ctx context.Context, field []float64, seeds []WeightedStart, m core.BaseMap) error {
	var queue []queueEntry

	for _, seed := range seeds {
		if seed.Index < 0 || seed.Index >= len(field) {
			core.Logger().Debug("dijkstra: source out of range", "index", seed.Index)
			continue
		}
		if seed.Depth > d.MaxDepth || seed.Depth >= field[seed.Index] {
			continue
		}
		field[seed.Index] = seed.Depth

		queue = append(queue[:0], queueEntry{index: seed.Index, depth: seed.Depth})
		for head := 0; head < len(queue); head++ {
			if head%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			entry := queue[head]
			if entry.depth > field[entry.index] {
				// Superseded by a cheaper route queued later
				continue
			}

			for _, exit := range m.GetAvailableExits(entry.index) {
				if exit.Cost < 0 || exit.Index < 0 || exit.Index >= len(field) {
					continue
				}
				depth := entry.depth + exit.Cost
				if depth > d.MaxDepth || depth >= field[exit.Index] {
					continue
				}
				field[exit.Index] = depth
				queue = append(queue, queueEntry{index: exit.Index, depth: depth})
			}
		}
	}

	return nil
}

func fillUnreached(field []float64) {
	for i := range field {
		field[i] = Unreached
	}
}
