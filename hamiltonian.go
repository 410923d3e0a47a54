package orbital

import (
	"gonum.org/v1/gonum/mat"
)

// Hamiltonian returns the specific mechanical energy of each position-velocity sample, including the
// zonal potential terms J2 up to J_order: ½v² - μ/r + Σ J_n μ/r (R/r)^n P_n(sin φ), with sin φ = z/r.
func Hamiltonian(T []float64, rv *mat.Dense, params Params) ([]float64, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	m, err := checkBatch(T, rv, StateWidth)
	if err != nil {
		return nil, err
	}
	H := make([]float64, m)
	J := params.J()
	for row := 0; row < m; row++ {
		x := rv.RawRowView(row)
		r := norm(x[0:3])
		if r == 0 {
			return nil, degenerate(row, "zero position vector")
		}
		v := norm(x[3:6])
		sinφ := x[2] / r
		V := -params.Mu / r
		Rr := params.REarth / r
		Rrn := Rr
		for idx, Jn := range J {
			Rrn *= Rr
			Pn, _ := legendre(idx+2, sinφ)
			V += Jn * params.Mu / r * Rrn * Pn
		}
		H[row] = .5*v*v + V
	}
	return H, nil
}

// HamiltonianOf returns the Hamiltonian of states in any representation, converting them to RV first.
func HamiltonianOf(T []float64, X *mat.Dense, rep Representation, params Params) ([]float64, error) {
	rv, err := Convert(T, X, rep, RV, params.Mu)
	if err != nil {
		return nil, err
	}
	return Hamiltonian(T, rv, params)
}
