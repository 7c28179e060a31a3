package distance

import (
	"gridweaver/internal/core"
	"math"
)

// Distance3D measures the distance between two 3D points.
// Unknown algorithms fall back to Pythagoras.
func Distance3D(alg Algorithm, a, b core.Point3D) float64 {
	switch alg {
	case PythagorasSquared:
		return PythagorasSquared3D(a, b)
	case Manhattan:
		return Manhattan3D(a, b)
	case Chebyshev:
		return Chebyshev3D(a, b)
	case Diagonal, DiagonalWithCosts:
		return Octile3D(a, b)
	default:
		return Pythagoras3D(a, b)
	}
}

// Pythagoras3D calculates the Euclidean distance between two 3D points
func Pythagoras3D(a, b core.Point3D) float64 {
	return math.Sqrt(PythagorasSquared3D(a, b))
}

// PythagorasSquared3D calculates the squared Euclidean distance
func PythagorasSquared3D(a, b core.Point3D) float64 {
	dx, dy, dz := axisDeltas3D(a, b)
	return dx*dx + dy*dy + dz*dz
}

// Manhattan3D calculates the Manhattan distance between two 3D points
func Manhattan3D(a, b core.Point3D) float64 {
	dx, dy, dz := axisDeltas3D(a, b)
	return dx + dy + dz
}

// Chebyshev3D calculates the Chebyshev distance (max of axis distances)
func Chebyshev3D(a, b core.Point3D) float64 {
	dx, dy, dz := axisDeltas3D(a, b)
	return math.Max(dx, math.Max(dy, dz))
}

// Octile3D treats each layer as an octile plane and adds unit cost per layer
// crossed, which matches grids that only move diagonally within a layer
func Octile3D(a, b core.Point3D) float64 {
	return octile3D(a, b, 1, math.Sqrt2)
}

func octile3D(a, b core.Point3D, cardinal, diagonal float64) float64 {
	dx, dy, dz := axisDeltas3D(a, b)
	return octile(dx, dy, cardinal, diagonal) + cardinal*dz
}

func axisDeltas3D(a, b core.Point3D) (float64, float64, float64) {
	return math.Abs(float64(a.X - b.X)), math.Abs(float64(a.Y - b.Y)), math.Abs(float64(a.Z - b.Z))
}
