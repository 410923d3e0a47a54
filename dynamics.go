package orbital

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Rates are the outputs of a rate generator for one batch.
type Rates struct {
	Xdot  *mat.Dense // m×6 time derivatives of the state, in the representation of the state
	Accel *mat.Dense // m×3 LVLH perturbing acceleration that produced Xdot (nil for Keplerian rates)
}

// Dynamics defines a rate generator for states in one representation.
type Dynamics interface {
	Rates(T []float64, X *mat.Dense) (*Rates, error)
	Representation() Representation
}

// AccelerationModel computes a perturbing acceleration in the LVLH frame of each position-velocity sample.
type AccelerationModel interface {
	Acceleration(T []float64, rv *mat.Dense) (*mat.Dense, error)
}

// Perturbed maps any acceleration model through the GVE of a representation.
type Perturbed struct {
	Model AccelerationModel
	Rep   Representation
	Mu    float64
}

// Representation implements the Dynamics interface.
func (d Perturbed) Representation() Representation {
	return d.Rep
}

// Rates implements the Dynamics interface. The state is converted to RV to evaluate the
// acceleration, and the GVE is evaluated on the original state.
func (d Perturbed) Rates(T []float64, X *mat.Dense) (*Rates, error) {
	gve, err := GVEFor(d.Rep)
	if err != nil {
		return nil, err
	}
	rv := X
	if d.Rep != RV {
		if rv, err = Convert(T, X, d.Rep, RV, d.Mu); err != nil {
			return nil, err
		}
	}
	U, err := d.Model.Acceleration(T, rv)
	if err != nil {
		return nil, err
	}
	return mapAcceleration(gve, T, X, U, d.Mu)
}

func mapAcceleration(gve GVEFunc, T []float64, X, U *mat.Dense, μ float64) (*Rates, error) {
	G, err := gve(T, X, μ)
	if err != nil {
		return nil, err
	}
	Xdot, err := ApplyGVE(G, U)
	if err != nil {
		return nil, err
	}
	return &Rates{Xdot: Xdot, Accel: U}, nil
}

// Sum combines rate generators of the same representation: rates and accelerations add up.
type Sum []Dynamics

// Representation implements the Dynamics interface.
func (s Sum) Representation() Representation {
	if len(s) == 0 {
		return 0
	}
	return s[0].Representation()
}

// Rates implements the Dynamics interface.
func (s Sum) Rates(T []float64, X *mat.Dense) (*Rates, error) {
	m, err := checkBatch(T, X, StateWidth)
	if err != nil {
		return nil, err
	}
	total := &Rates{Xdot: mat.NewDense(m, StateWidth, nil)}
	for _, d := range s {
		if d.Representation() != s.Representation() {
			return nil, errors.Errorf("cannot sum %s and %s dynamics", s.Representation(), d.Representation())
		}
		r, err := d.Rates(T, X)
		if err != nil {
			return nil, err
		}
		total.Xdot.Add(total.Xdot, r.Xdot)
		if r.Accel != nil {
			if total.Accel == nil {
				total.Accel = mat.NewDense(m, 3, nil)
			}
			total.Accel.Add(total.Accel, r.Accel)
		}
	}
	return total, nil
}
