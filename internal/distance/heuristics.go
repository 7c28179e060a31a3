package distance

import (
	"gridweaver/internal/core"
	"math"
)

// Algorithm selects a distance metric
type Algorithm int

const (
	Pythagoras        Algorithm = iota // straight-line distance
	PythagorasSquared                  // straight-line distance without the square root
	Manhattan                          // sum of axis distances
	Chebyshev                          // largest axis distance
	Diagonal                           // octile: cardinal steps cost 1, diagonal steps sqrt2
	DiagonalWithCosts                  // octile with the costs carried by a Metric
)

// String returns a readable name for the algorithm
func (a Algorithm) String() string {
	switch a {
	case Pythagoras:
		return "pythagoras"
	case PythagorasSquared:
		return "pythagoras_squared"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	case Diagonal:
		return "diagonal"
	case DiagonalWithCosts:
		return "diagonal_with_costs"
	default:
		return "unknown"
	}
}

// Metric is an algorithm together with the step costs used by DiagonalWithCosts
type Metric struct {
	Algorithm Algorithm
	Cardinal  float64
	Diagonal  float64
}

// NewMetric returns a metric with unit cardinal cost and sqrt2 diagonal cost
func NewMetric(alg Algorithm) Metric {
	return Metric{Algorithm: alg, Cardinal: 1, Diagonal: math.Sqrt2}
}

// OctileMetric returns a DiagonalWithCosts metric for the given step costs
func OctileMetric(cardinal, diagonal float64) Metric {
	return Metric{Algorithm: DiagonalWithCosts, Cardinal: cardinal, Diagonal: diagonal}
}

// Distance2D measures the distance between two points with this metric
func (m Metric) Distance2D(a, b core.Point) float64 {
	if m.Algorithm == DiagonalWithCosts {
		dx, dy := axisDeltas(a, b)
		return octile(dx, dy, m.Cardinal, m.Diagonal)
	}
	return Distance2D(m.Algorithm, a, b)
}

// Distance3D measures the distance between two 3D points with this metric
func (m Metric) Distance3D(a, b core.Point3D) float64 {
	if m.Algorithm == DiagonalWithCosts {
		return octile3D(a, b, m.Cardinal, m.Diagonal)
	}
	return Distance3D(m.Algorithm, a, b)
}

// Distance2D measures the distance between two points.
// Unknown algorithms fall back to Pythagoras.
func Distance2D(alg Algorithm, a, b core.Point) float64 {
	switch alg {
	case PythagorasSquared:
		return PythagorasSquared2D(a, b)
	case Manhattan:
		return Manhattan2D(a, b)
	case Chebyshev:
		return Chebyshev2D(a, b)
	case Diagonal, DiagonalWithCosts:
		return Octile2D(a, b)
	default:
		return Pythagoras2D(a, b)
	}
}

// Pythagoras2D calculates the Euclidean distance between two points
func Pythagoras2D(a, b core.Point) float64 {
	return math.Sqrt(PythagorasSquared2D(a, b))
}

// PythagorasSquared2D calculates the squared Euclidean distance
func PythagorasSquared2D(a, b core.Point) float64 {
	dx, dy := axisDeltas(a, b)
	return dx*dx + dy*dy
}

// Manhattan2D calculates the Manhattan distance between two points
func Manhattan2D(a, b core.Point) float64 {
	dx, dy := axisDeltas(a, b)
	return dx + dy
}

// Chebyshev2D calculates the Chebyshev (chessboard) distance
func Chebyshev2D(a, b core.Point) float64 {
	dx, dy := axisDeltas(a, b)
	return math.Max(dx, dy)
}

// Octile2D calculates the octile distance for 8-directional movement
func Octile2D(a, b core.Point) float64 {
	dx, dy := axisDeltas(a, b)
	return octile(dx, dy, 1, math.Sqrt2)
}

func octile(dx, dy, cardinal, diagonal float64) float64 {
	lo, hi := math.Min(dx, dy), math.Max(dx, dy)
	return diagonal*lo + cardinal*(hi-lo)
}

func axisDeltas(a, b core.Point) (float64, float64) {
	return math.Abs(float64(a.X - b.X)), math.Abs(float64(a.Y - b.Y))
}
