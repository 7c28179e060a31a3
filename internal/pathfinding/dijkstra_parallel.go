package pathfinding

import (
	"context"
	"gridweaver/internal/core"

	"golang.org/x/sync/errgroup"
)

// BuildParallel adds starts to the field using up to workers goroutines.
//
// Sources are dealt round-robin into one group per worker. Each group relaxes
// into its own private field, and the private fields are folded into d.Map by
// elementwise minimum once every group has finished. Edge costs are never
// negative, so the folded field matches BuildSequential exactly.
//
// On cancellation d.Map is left untouched and the context error is returned.
func (d *DijkstraMap) BuildParallel(ctx context.Context, starts []int, m core.BaseMap, workers int) error {
	if workers < 1 {
		workers = 1
	}
	if workers > len(starts) {
		workers = len(starts)
	}
	if workers <= 1 {
		seeds := make([]WeightedStart, len(starts))
		for i, s := range starts {
			seeds[i] = WeightedStart{Index: s}
		}
		scratch := make([]float64, len(d.Map))
		fillUnreached(scratch)
		if err := d.relax(ctx, scratch, seeds, m); err != nil {
			return err
		}
		mergeMin(d.Map, scratch)
		return nil
	}

	groups := partitionStarts(starts, workers)
	fields := make([][]float64, len(groups))

	core.Logger().Debug("dijkstra: parallel build", "sources", len(starts), "groups", len(groups))

	g, ctx := errgroup.WithContext(ctx)
	for i, group := range groups {
		i, group := i, group
		g.Go(func() error {
			field := make([]float64, len(d.Map))
			fillUnreached(field)
			if err := d.relax(ctx, field, group, m); err != nil {
				return err
			}
			fields[i] = field
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, field := range fields {
		mergeMin(d.Map, field)
	}
	return nil
}

// partitionStarts deals starts round-robin into n groups
func partitionStarts(starts []int, n int) [][]WeightedStart {
	groups := make([][]WeightedStart, n)
	for i, s := range starts {
		groups[i%n] = append(groups[i%n], WeightedStart{Index: s})
	}
	return groups
}

// mergeMin folds src into dst keeping the lower value of each cell
func mergeMin(dst, src []float64) {
	for i, v := range src {
		if v < dst[i] {
			dst[i] = v
		}
	}
}
