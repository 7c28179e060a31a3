// Package gridweaver is the public entry point for grid pathfinding, flow
// fields and field of view.
package gridweaver

import (
	"fmt"
	"gridweaver/internal/core"
	"gridweaver/internal/fov"
	"gridweaver/internal/pathfinding"
	"sync"
)

// Engine runs path, flow-field and visibility queries with one configuration.
// It is safe for concurrent use; path searches are serialized because the
// search buffers are shared.
type Engine struct {
	mu         sync.Mutex
	pathfinder core.Pathfinder
	astar      *pathfinding.AStarPathfinder
	config     *Config
	stats      Stats
}

// NewEngine creates a new engine. A nil config uses DefaultConfig.
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	cp := *config
	config = &cp

	astar := pathfinding.NewAStarPathfinder()
	astar.SetMaxSteps(config.MaxSteps)

	// Create pathfinder based on configuration
	var pathfinder core.Pathfinder
	switch config.PathfindingType {
	case PathfindingJPS:
		jps := pathfinding.NewJPSPathfinder()
		jps.SetCosts(config.CardinalCost, config.DiagonalCost)
		jps.SetMaxSteps(config.MaxSteps)
		pathfinder = jps
	default: // PathfindingAStar
		pathfinder = astar
	}

	return &Engine{
		pathfinder: pathfinder,
		astar:      astar,
		config:     config,
	}, nil
}

// Pathfinding

// FindPath finds a path from start to goal using the configured algorithm.
// JPS needs 2D coordinates; maps without them are searched with A*. Maps that
// report their movement rules (core.GridMovement) are searched with their own
// connectivity and costs; the configured costs apply to the rest.
func (e *Engine) FindPath(m BaseMap, start, goal int) NavigationPath {
	e.mu.Lock()
	defer e.mu.Unlock()

	var pathfinder core.Pathfinder = e.astar
	if _, is2D := m.(core.Map2D); is2D {
		pathfinder = e.pathfinder
	}

	path := pathfinder.FindPath(m, start, goal)
	e.stats.Searches++
	if path.Success {
		e.stats.PathsFound++
	}
	return path
}

// FindPathPoints is FindPath with coordinates in and out. It reports false
// when either point is outside the map or no path exists.
func (e *Engine) FindPathPoints(m Map2D, start, goal Point) ([]Point, bool) {
	if !m.InBounds(start) || !m.InBounds(goal) {
		return nil, false
	}
	path := e.FindPath(m, m.PointToIndex(start), m.PointToIndex(goal))
	if !path.Success {
		return nil, false
	}
	return StepsToPoints(m, path.Steps), true
}

// Flow fields

// BuildFlowField builds a distance field of width*height cells from starts,
// using the configured depth limit and worker count
func (e *Engine) BuildFlowField(m BaseMap, width, height int, starts []int) *pathfinding.DijkstraMap {
	d := pathfinding.NewEmptyDijkstraMap(width, height, e.config.FlowFieldMaxDepth)
	d.SetWorkers(e.config.FlowFieldWorkers)
	d.Build(starts, m)

	e.mu.Lock()
	e.stats.FlowFieldBuilds++
	e.mu.Unlock()
	return d
}

// Visibility

// FieldOfView returns the cells visible from center, sorted by row then
// column. A negative radius uses the configured default.
func (e *Engine) FieldOfView(m fov.FOVMap, center Point, radius int) []Point {
	if radius < 0 {
		radius = e.config.FOVRadius
	}
	return fov.FieldOfView(center, radius, m)
}

// Performance and Debugging

// GetConfig returns a copy of the engine configuration
func (e *Engine) GetConfig() *Config {
	cp := *e.config
	return &cp
}

// GetStats returns query counters
func (e *Engine) GetStats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Stats counts the queries an engine has answered
type Stats struct {
	Searches        int
	PathsFound      int
	FlowFieldBuilds int
}
