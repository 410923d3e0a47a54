package orbital

import (
	"math"
)

const (
	keplerε       = 1e-15
	keplerMaxIter = 64
)

// EccentricAnomaly returns the eccentric anomaly matching the true anomaly ν. The result
// keeps the revolution count of ν, i.e. it lies within π of ν.
func EccentricAnomaly(ν, e float64) float64 {
	sinν2, cosν2 := math.Sincos(ν / 2)
	E := 2 * math.Atan2(math.Sqrt(1-e)*sinν2, math.Sqrt(1+e)*cosν2)
	return ν + wrapπ(E-ν)
}

// TrueAnomaly returns the true anomaly matching the eccentric anomaly E, with the revolution count of E.
func TrueAnomaly(E, e float64) float64 {
	sinE2, cosE2 := math.Sincos(E / 2)
	ν := 2 * math.Atan2(math.Sqrt(1+e)*sinE2, math.Sqrt(1-e)*cosE2)
	return E + wrapπ(ν-E)
}

// MeanAnomaly returns M = E - e sin E.
func MeanAnomaly(E, e float64) float64 {
	return E - e*math.Sin(E)
}

// SolveKepler returns the eccentric anomaly E such that M = E - e sin E, for 0 <= e < 1.
// Whole revolutions of M are carried over to E.
func SolveKepler(M, e float64) float64 {
	revs := math.Floor((M + math.Pi) / twoπ)
	Mp := M - revs*twoπ // in [-π, π)
	// Danby's starting guess.
	E := Mp + 0.85*e*math.Copysign(1, math.Sin(Mp))
	for i := 0; i < keplerMaxIter; i++ {
		sinE, cosE := math.Sincos(E)
		δ := (E - e*sinE - Mp) / (1 - e*cosE)
		E -= δ
		if math.Abs(δ) < keplerε {
			break
		}
	}
	return E + revs*twoπ
}
