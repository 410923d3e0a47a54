package orbital

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	twoπ = 2 * math.Pi
	// singularityε is the eccentricity (and tan(i/2)) below which an angle of the COE set is undefined.
	singularityε = 1e-12
)

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := norm(a)
	if scalar.EqualWithinAbs(n, 0, 1e-15) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// dot performs the inner product of two 3x1 vectors.
func dot(a, b []float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// cross performs the cross product.
func cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// wrap2π returns the angle in [0, 2π).
func wrap2π(a float64) float64 {
	a = math.Mod(a, twoπ)
	if a < 0 {
		a += twoπ
	}
	if a >= twoπ {
		// math.Mod of a tiny negative angle rounds back up to 2π.
		a = 0
	}
	return a
}

// wrapπ returns the angle in (-π, π].
func wrapπ(a float64) float64 {
	a = wrap2π(a)
	if a > math.Pi {
		a -= twoπ
	}
	return a
}

// Deg2rad converts degrees to radians.
func Deg2rad(a float64) float64 {
	return a * math.Pi / 180
}

// Rad2deg converts radians to degrees.
func Rad2deg(a float64) float64 {
	return a * 180 / math.Pi
}
