package orbital

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// KeplerianDynamics defines the two body time derivatives of states in one representation.
type KeplerianDynamics struct {
	Rep Representation
	Mu  float64
}

// Representation implements the Dynamics interface.
func (k KeplerianDynamics) Representation() Representation {
	return k.Rep
}

// Rates implements the Dynamics interface. Only the fast variable moves, except in RV; in MEEMl0
// every element is constant.
func (k KeplerianDynamics) Rates(T []float64, X *mat.Dense) (*Rates, error) {
	m, err := checkBatch(T, X, StateWidth)
	if err != nil {
		return nil, err
	}
	μ := k.Mu
	if err := checkMu(μ); err != nil {
		return nil, err
	}
	Xdot := mat.NewDense(m, StateWidth, nil)
	for row := 0; row < m; row++ {
		x := X.RawRowView(row)
		switch k.Rep {
		case RV:
			r := norm(x[0:3])
			if r == 0 {
				return nil, degenerate(row, "zero position vector")
			}
			bodyAcc := -μ / (r * r * r)
			Xdot.SetRow(row, []float64{x[3], x[4], x[5], bodyAcc * x[0], bodyAcc * x[1], bodyAcc * x[2]})
		case COE:
			a, e, ν := x[0], x[1], x[5]
			if a <= 0 || e < 0 || e >= 1 {
				return nil, degenerate(row, "a=%g e=%g (only elliptical orbits are supported)", a, e)
			}
			p := a * (1 - e*e)
			w := 1 + e*math.Cos(ν)
			Xdot.Set(row, 5, math.Sqrt(μ*p)*w*w/(p*p))
		case MEE:
			p, f, g, L := x[0], x[1], x[2], x[5]
			if err := checkMEE(row, p, f, g); err != nil {
				return nil, err
			}
			w := 1 + f*math.Cos(L) + g*math.Sin(L)
			Xdot.Set(row, 5, math.Sqrt(μ*p)*w*w/(p*p))
		case MEEMl0:
			if err := checkMEE(row, x[0], x[1], x[2]); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("no Keplerian dynamics for representation %d", k.Rep)
		}
	}
	return &Rates{Xdot: Xdot}, nil
}

// KeplerianSolution returns the two body solution at every time of T for the state x0 known at t0.
// The state is propagated through its MEEMl0 equivalent, which is constant under two body dynamics.
func KeplerianSolution(T []float64, x0 []float64, t0 float64, rep Representation, μ float64) (*mat.Dense, error) {
	if len(T) == 0 || len(x0) != StateWidth {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d times and an initial state of %d elements", len(T), len(x0))
	}
	meeMl0, err := Convert([]float64{t0}, NewBatch(x0), rep, MEEMl0, μ)
	if err != nil {
		return nil, err
	}
	X := mat.NewDense(len(T), StateWidth, nil)
	for i := range T {
		X.SetRow(i, meeMl0.RawRowView(0))
	}
	return Convert(T, X, MEEMl0, rep, μ)
}
