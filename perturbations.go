package orbital

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ZonalAcceleration is the LVLH perturbing acceleration of the zonal harmonics J2 up to J_order.
type ZonalAcceleration struct {
	Params
}

// Acceleration implements the AccelerationModel interface.
// With U_n = J_n μ R^n r^-(n+1) P_n(sin φ) the perturbing potential, the acceleration is
// Σ (n+1) U_n/r r̂ - J_n μ R^n r^-(n+2) P_n'(sin φ) (ẑ·θ̂ θ̂ + ẑ·ĥ ĥ), where sin φ = ẑ·r̂.
func (z ZonalAcceleration) Acceleration(T []float64, rv *mat.Dense) (*mat.Dense, error) {
	if err := z.Params.Validate(); err != nil {
		return nil, err
	}
	m, err := checkBatch(T, rv, StateWidth)
	if err != nil {
		return nil, err
	}
	U := mat.NewDense(m, 3, nil)
	J := z.J()
	for row := 0; row < m; row++ {
		x := rv.RawRowView(row)
		dcm, ok := LVLH(x[0:3], x[3:6])
		if !ok {
			return nil, degenerate(row, "LVLH frame undefined for rectilinear motion")
		}
		r := norm(x[0:3])
		sinφ := dcm.At(2, 0) // ẑ·r̂
		zθ := dcm.At(2, 1)
		zh := dcm.At(2, 2)
		var aR, aLat float64
		Rr := z.REarth / r
		Rrn := Rr
		for idx, Jn := range J {
			n := idx + 2
			Rrn *= Rr
			Pn, dPn := legendre(n, sinφ)
			c := Jn * z.Mu / r * Rrn // J_n μ/r (R/r)^n
			aR += float64(n+1) * c * Pn / r
			aLat -= c * dPn / r
		}
		U.SetRow(row, []float64{aR, aLat * zθ, aLat * zh})
	}
	return U, nil
}

// legendre returns the Legendre polynomial P_n(s) and its derivative, for n in [2, 6].
func legendre(n int, s float64) (Pn, dPn float64) {
	s2 := s * s
	switch n {
	case 2:
		return (3*s2 - 1) / 2, 3 * s
	case 3:
		return (5*s2 - 3) * s / 2, (15*s2 - 3) / 2
	case 4:
		return (35*s2*s2 - 30*s2 + 3) / 8, (35*s2 - 15) * s / 2
	case 5:
		return (63*s2*s2 - 70*s2 + 15) * s / 8, (315*s2*s2 - 210*s2 + 15) / 8
	case 6:
		return (231*s2*s2*s2 - 315*s2*s2 + 105*s2 - 5) / 16, (693*s2*s2 - 630*s2 + 105) * s / 8
	}
	panic("unsupported Legendre degree")
}

// ZonalGravity defines the zonal gravity perturbations as the time derivatives of states in one representation.
type ZonalGravity struct {
	Params
	Rep Representation
}

// NewZonalGravity returns the zonal gravity dynamics for the provided representation.
func NewZonalGravity(rep Representation, params Params) ZonalGravity {
	return ZonalGravity{params, rep}
}

// Representation implements the Dynamics interface.
func (z ZonalGravity) Representation() Representation {
	return z.Rep
}

// Rates implements the Dynamics interface. Order 1 is two body dynamics and yields zero rates.
func (z ZonalGravity) Rates(T []float64, X *mat.Dense) (*Rates, error) {
	if err := z.Params.Validate(); err != nil {
		return nil, err
	}
	if !z.Rep.valid() {
		return nil, fmt.Errorf("no zonal gravity for representation %d", z.Rep)
	}
	m, err := checkBatch(T, X, StateWidth)
	if err != nil {
		return nil, err
	}
	if z.Order == 1 {
		return &Rates{Xdot: mat.NewDense(m, StateWidth, nil), Accel: mat.NewDense(m, 3, nil)}, nil
	}
	return Perturbed{ZonalAcceleration{z.Params}, z.Rep, z.Mu}.Rates(T, X)
}
