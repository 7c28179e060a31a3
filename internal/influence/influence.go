// Package influence overlays per-cell penalties on a map so searches avoid
// dangerous areas.
package influence

import (
	"errors"
	"fmt"
	"gridweaver/internal/core"
	"gridweaver/internal/pathfinding"
	"math"
	"sync"
)

// ErrUnsized is returned for base maps that do not report their size
var ErrUnsized = errors.New("influence: base map has no dimensions")

// DecayType defines how influence decays with walking distance
type DecayType int

const (
	DecayLinear DecayType = iota
	DecayQuadratic
	DecayExponential
	DecayConstant
)

// Source spreads Strength to every cell within Range walking distance of
// Index. Negative strengths lower the penalty again.
type Source struct {
	Index    int
	Strength float64
	Range    float64
	Decay    DecayType
}

// Map wraps a base map and adds weight*penalty to the cost of entering each
// cell. Distances spread through the base map's own exits, so influence does
// not leak through walls.
//
// Map deliberately implements only core.BaseMap: its exit costs are not
// uniform, so jump point search must not be used on it.
type Map struct {
	mu      sync.RWMutex
	base    core.BaseMap
	weight  float64
	penalty []float64
}

// New creates an overlay with no influence. The base map must implement
// core.Algorithm2D or core.Algorithm3D.
func New(base core.BaseMap, weight float64) (*Map, error) {
	n, ok := core.IndexCount(base)
	if !ok {
		return nil, ErrUnsized
	}
	if weight < 0 {
		return nil, fmt.Errorf("influence weight %v is negative", weight)
	}
	return &Map{
		base:    base,
		weight:  weight,
		penalty: make([]float64, n),
	}, nil
}

// AddSource spreads a source over the map
func (m *Map) AddSource(s Source) {
	if !core.ValidIndex(m.base, s.Index) || s.Range <= 0 {
		core.Logger().Debug("influence: source ignored", "index", s.Index, "range", s.Range)
		return
	}

	field := pathfinding.NewEmptyDijkstraMap(len(m.penalty), 1, s.Range)
	field.BuildSequential([]int{s.Index}, m.base)

	m.mu.Lock()
	defer m.mu.Unlock()
	for idx, dist := range field.Map {
		if math.IsInf(dist, 1) {
			continue
		}
		m.penalty[idx] += decay(s.Strength, dist, s.Range, s.Decay)
	}
}

// RemoveSource takes back what AddSource added for s
func (m *Map) RemoveSource(s Source) {
	s.Strength = -s.Strength
	m.AddSource(s)
}

// Clear drops all influence
func (m *Map) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.penalty)
}

// PenaltyAt returns the accumulated influence at idx
func (m *Map) PenaltyAt(idx int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if idx < 0 || idx >= len(m.penalty) {
		return 0
	}
	return m.penalty[idx]
}

// Base returns the wrapped map
func (m *Map) Base() core.BaseMap {
	return m.base
}

// IsOpaque implements core.BaseMap
func (m *Map) IsOpaque(idx int) bool {
	return m.base.IsOpaque(idx)
}

// GetAvailableExits returns the base exits with the penalty of the
// destination added. Negative penalties never make an exit cheaper than
// the base cost.
func (m *Map) GetAvailableExits(idx int) []core.Exit {
	// Copy so a base map that reuses its exit slice is never modified
	exits := append([]core.Exit(nil), m.base.GetAvailableExits(idx)...)

	m.mu.RLock()
	defer m.mu.RUnlock()
	for i, exit := range exits {
		if exit.Index < 0 || exit.Index >= len(m.penalty) {
			continue
		}
		if p := m.penalty[exit.Index]; p > 0 {
			exits[i].Cost += m.weight * p
		}
	}
	return exits
}

// GetPathingDistance uses the base heuristic, which stays admissible
// because penalties only raise costs
func (m *Map) GetPathingDistance(a, b int) float64 {
	return m.base.GetPathingDistance(a, b)
}

func decay(strength, distance, maxRange float64, decayType DecayType) float64 {
	if distance > maxRange {
		return 0
	}

	ratio := distance / maxRange

	switch decayType {
	case DecayQuadratic:
		return strength * (1.0 - ratio*ratio)
	case DecayExponential:
		return strength * math.Exp(-ratio*3.0)
	case DecayConstant:
		return strength
	default: // DecayLinear
		return strength * (1.0 - ratio)
	}
}
