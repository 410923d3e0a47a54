package orbital

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSolveKepler(t *testing.T) {
	for _, e := range []float64{0, 1e-6, 0.1, 0.5, 0.9, 0.99} {
		for M := -20.; M <= 20; M += 0.37 {
			E := SolveKepler(M, e)
			if got := MeanAnomaly(E, e); !scalar.EqualWithinAbs(got, M, 1e-12) {
				t.Fatalf("e=%g M=%f: E=%f yields M=%f", e, M, E, got)
			}
		}
	}
	// Vallado example 2-1.
	if E := SolveKepler(Deg2rad(235.4), 0.4); !scalar.EqualWithinAbs(E, Deg2rad(220.512074767522), 1e-9) {
		t.Fatalf("E=%f deg", Rad2deg(E))
	}
}

func TestAnomalies(t *testing.T) {
	for _, e := range []float64{0, 0.2, 0.8} {
		for ν := -10.; ν <= 10; ν += 0.25 {
			E := EccentricAnomaly(ν, e)
			if math.Abs(E-ν) > math.Pi {
				t.Fatalf("e=%g ν=%f: E=%f lost the revolution", e, ν, E)
			}
			if got := TrueAnomaly(E, e); !scalar.EqualWithinAbs(got, ν, 1e-12) {
				t.Fatalf("e=%g ν=%f: round trip yields %f", e, ν, got)
			}
		}
	}
	if E := EccentricAnomaly(1+6*math.Pi, 0.3); !scalar.EqualWithinAbs(E, EccentricAnomaly(1, 0.3)+6*math.Pi, 1e-12) {
		t.Fatal("revolutions are not preserved")
	}
	// At apoapsis and periapsis all anomalies agree.
	for _, ν := range []float64{0, math.Pi, 2 * math.Pi} {
		if E := EccentricAnomaly(ν, 0.6); !scalar.EqualWithinAbs(E, ν, 1e-12) || !scalar.EqualWithinAbs(MeanAnomaly(E, 0.6), ν, 1e-12) {
			t.Fatalf("anomalies differ at ν=%f", ν)
		}
	}
}
