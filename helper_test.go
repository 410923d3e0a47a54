package orbital

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

const angleε = 1e-9

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !scalar.EqualWithinAbsOrRel(a[i], b[i], 1e-9, 1e-9) {
			return false
		}
	}
	return true
}

//anglesEqual returns whether two angles in Radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < angleε || 2*math.Pi-diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Abs(Rad2deg(diff)))
}

// single returns a one row batch at t.
func single(t float64, x ...float64) ([]float64, *mat.Dense) {
	return []float64{t}, NewBatch(x)
}

// mustConvert converts one state or fails the test.
func mustConvert(t *testing.T, x []float64, from, to Representation, μ float64) []float64 {
	T, X := single(0, x...)
	Y, err := Convert(T, X, from, to, μ)
	if err != nil {
		t.Fatalf("%s to %s of %v: %s", from, to, x, err)
	}
	return Y.RawRowView(0)
}

// mulVec returns m·v.
func mulVec(m mat.Matrix, v []float64) []float64 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(len(v), v))
	return out.RawVector().Data
}
