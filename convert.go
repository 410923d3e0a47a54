package orbital

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Conversions between representations. MEE is the hub: every other conversion is
// composed from the four MEE edges, so the e=0 and i=0 conventions of the COE set
// live in exactly one place (coeFromMEE).
//
// COE singularity conventions:
//   - e < 1e-12: the argument of perigee is undefined and fixed to 0, ν is measured from the node.
//   - tan(i/2) < 1e-12: the right ascension of the ascending node is undefined and fixed to 0.
//   - both: Ω = ω = 0 and ν is the true longitude L.

// rowFunc converts one sample x at time t.
type rowFunc func(row int, t float64, x []float64, μ float64) ([]float64, error)

func mapRows(T []float64, X *mat.Dense, μ float64, fn rowFunc) (*mat.Dense, error) {
	m, err := checkBatch(T, X, StateWidth)
	if err != nil {
		return nil, err
	}
	if err := checkMu(μ); err != nil {
		return nil, err
	}
	out := mat.NewDense(m, StateWidth, nil)
	for i := 0; i < m; i++ {
		y, err := fn(i, T[i], X.RawRowView(i), μ)
		if err != nil {
			return nil, err
		}
		out.SetRow(i, y)
	}
	return out, nil
}

// MEEFromCOE converts classical orbital elements to modified equinoctial elements.
func MEEFromCOE(T []float64, coe *mat.Dense, μ float64) (*mat.Dense, error) {
	return mapRows(T, coe, μ, meeFromCOE)
}

// COEFromMEE converts modified equinoctial elements to classical orbital elements.
func COEFromMEE(T []float64, mee *mat.Dense, μ float64) (*mat.Dense, error) {
	return mapRows(T, mee, μ, coeFromMEE)
}

// MEEFromRV converts position-velocity states to modified equinoctial elements.
func MEEFromRV(T []float64, rv *mat.Dense, μ float64) (*mat.Dense, error) {
	return mapRows(T, rv, μ, meeFromRV)
}

// RVFromMEE converts modified equinoctial elements to position-velocity states.
func RVFromMEE(T []float64, mee *mat.Dense, μ float64) (*mat.Dense, error) {
	return mapRows(T, mee, μ, rvFromMEE)
}

// MEEMl0FromMEE converts modified equinoctial elements to MEEs with mean longitude at epoch.
func MEEMl0FromMEE(T []float64, mee *mat.Dense, μ float64) (*mat.Dense, error) {
	return mapRows(T, mee, μ, meeMl0FromMEE)
}

// MEEFromMEEMl0 converts MEEs with mean longitude at epoch to modified equinoctial elements.
func MEEFromMEEMl0(T []float64, meeMl0 *mat.Dense, μ float64) (*mat.Dense, error) {
	return mapRows(T, meeMl0, μ, meeFromMEEMl0)
}

// COEFromRV converts position-velocity states to classical orbital elements.
func COEFromRV(T []float64, rv *mat.Dense, μ float64) (*mat.Dense, error) {
	return Convert(T, rv, RV, COE, μ)
}

// RVFromCOE converts classical orbital elements to position-velocity states.
func RVFromCOE(T []float64, coe *mat.Dense, μ float64) (*mat.Dense, error) {
	return Convert(T, coe, COE, RV, μ)
}

// MEEMl0FromRV converts position-velocity states to MEEs with mean longitude at epoch.
func MEEMl0FromRV(T []float64, rv *mat.Dense, μ float64) (*mat.Dense, error) {
	return Convert(T, rv, RV, MEEMl0, μ)
}

// RVFromMEEMl0 converts MEEs with mean longitude at epoch to position-velocity states.
func RVFromMEEMl0(T []float64, meeMl0 *mat.Dense, μ float64) (*mat.Dense, error) {
	return Convert(T, meeMl0, MEEMl0, RV, μ)
}

// MEEMl0FromCOE converts classical orbital elements to MEEs with mean longitude at epoch.
func MEEMl0FromCOE(T []float64, coe *mat.Dense, μ float64) (*mat.Dense, error) {
	return Convert(T, coe, COE, MEEMl0, μ)
}

// COEFromMEEMl0 converts MEEs with mean longitude at epoch to classical orbital elements.
func COEFromMEEMl0(T []float64, meeMl0 *mat.Dense, μ float64) (*mat.Dense, error) {
	return Convert(T, meeMl0, MEEMl0, COE, μ)
}

var (
	toMEE = map[Representation]rowFunc{
		RV:     meeFromRV,
		COE:    meeFromCOE,
		MEEMl0: meeFromMEEMl0,
	}
	fromMEE = map[Representation]rowFunc{
		RV:     rvFromMEE,
		COE:    coeFromMEE,
		MEEMl0: meeMl0FromMEE,
	}
)

// Convert converts the batch X from one representation to another through MEE.
// Converting to the same representation returns a copy.
func Convert(T []float64, X *mat.Dense, from, to Representation, μ float64) (*mat.Dense, error) {
	if !from.valid() || !to.valid() {
		return nil, fmt.Errorf("cannot convert from %d to %d: unknown representation", from, to)
	}
	if from == to {
		if _, err := checkBatch(T, X, StateWidth); err != nil {
			return nil, err
		}
		if err := checkMu(μ); err != nil {
			return nil, err
		}
		return mat.DenseCopyOf(X), nil
	}
	return mapRows(T, X, μ, func(row int, t float64, x []float64, μ float64) ([]float64, error) {
		mee := x
		if from != MEE {
			var err error
			if mee, err = toMEE[from](row, t, x, μ); err != nil {
				return nil, err
			}
		}
		if to == MEE {
			return mee, nil
		}
		return fromMEE[to](row, t, mee, μ)
	})
}

func meeFromCOE(row int, _ float64, x []float64, _ float64) ([]float64, error) {
	a, e, i, Ω, ω, ν := x[0], x[1], x[2], x[3], x[4], x[5]
	if a <= 0 {
		return nil, degenerate(row, "semi-major axis a=%g (only elliptical orbits are supported)", a)
	}
	if e < 0 || e >= 1 {
		return nil, degenerate(row, "eccentricity e=%g (only elliptical orbits are supported)", e)
	}
	if math.Abs(math.Cos(i/2)) < singularityε {
		return nil, degenerate(row, "retrograde equatorial orbit i=%g", i)
	}
	ϖ := Ω + ω
	sinϖ, cosϖ := math.Sincos(ϖ)
	sinΩ, cosΩ := math.Sincos(Ω)
	tanHalfi := math.Tan(i / 2)
	return []float64{
		a * (1 - e*e),
		e * cosϖ,
		e * sinϖ,
		tanHalfi * cosΩ,
		tanHalfi * sinΩ,
		ϖ + ν,
	}, nil
}

func checkMEE(row int, p, f, g float64) error {
	if !(p > 0) {
		return degenerate(row, "semi-latus rectum p=%g", p)
	}
	if e2 := f*f + g*g; !(e2 < 1) {
		return degenerate(row, "eccentricity e=%g (only elliptical orbits are supported)", math.Sqrt(e2))
	}
	return nil
}

func coeFromMEE(row int, _ float64, x []float64, _ float64) ([]float64, error) {
	p, f, g, h, k, L := x[0], x[1], x[2], x[3], x[4], x[5]
	if err := checkMEE(row, p, f, g); err != nil {
		return nil, err
	}
	e := math.Hypot(f, g)
	tanHalfi := math.Hypot(h, k)
	Ω := 0.
	if tanHalfi >= singularityε {
		Ω = math.Atan2(k, h)
	}
	ϖ := Ω // circular: perigee fixed at the node
	if e >= singularityε {
		ϖ = math.Atan2(g, f)
	}
	return []float64{
		p / (1 - e*e),
		e,
		2 * math.Atan(tanHalfi),
		wrap2π(Ω),
		wrap2π(ϖ - Ω),
		wrap2π(L - ϖ),
	}, nil
}

func meeFromRV(row int, _ float64, x []float64, μ float64) ([]float64, error) {
	R := x[0:3]
	V := x[3:6]
	H := cross(R, V)
	r := norm(R)
	hNorm := norm(H)
	if r == 0 || hNorm == 0 {
		return nil, degenerate(row, "rectilinear motion |r|=%g |h|=%g", r, hNorm)
	}
	hHat := unit(H)
	// 1+cos(i), without cancellation for retrograde orbits.
	onePlusCosi := 1 + hHat[2]
	if H[2] < 0 {
		onePlusCosi = (H[0]*H[0] + H[1]*H[1]) / (hNorm * (hNorm - H[2]))
	}
	if math.Sqrt(onePlusCosi/2) < singularityε { // cos(i/2), as in meeFromCOE
		return nil, degenerate(row, "retrograde equatorial orbit")
	}
	h := -hHat[1] / onePlusCosi
	k := hHat[0] / onePlusCosi
	s2 := 1 + h*h + k*k
	fHat := []float64{(1 - k*k + h*h) / s2, 2 * h * k / s2, -2 * k / s2}
	gHat := []float64{2 * h * k / s2, (1 + k*k - h*h) / s2, 2 * h / s2}
	vxh := cross(V, H)
	eVec := make([]float64, 3)
	for j := 0; j < 3; j++ {
		eVec[j] = vxh[j]/μ - R[j]/r
	}
	f := dot(eVec, fHat)
	g := dot(eVec, gHat)
	p := hNorm * hNorm / μ
	if err := checkMEE(row, p, f, g); err != nil {
		return nil, err
	}
	return []float64{p, f, g, h, k, wrap2π(math.Atan2(dot(R, gHat), dot(R, fHat)))}, nil
}

func rvFromMEE(row int, _ float64, x []float64, μ float64) ([]float64, error) {
	p, f, g, h, k, L := x[0], x[1], x[2], x[3], x[4], x[5]
	if err := checkMEE(row, p, f, g); err != nil {
		return nil, err
	}
	sinL, cosL := math.Sincos(L)
	α2 := h*h - k*k
	s2 := 1 + h*h + k*k
	w := 1 + f*cosL + g*sinL
	r := p / w
	hk2 := 2 * h * k
	sqrtμp := math.Sqrt(μ/p) / s2
	return []float64{
		r / s2 * (cosL + α2*cosL + hk2*sinL),
		r / s2 * (sinL - α2*sinL + hk2*cosL),
		2 * r / s2 * (h*sinL - k*cosL),
		-sqrtμp * (sinL + α2*sinL - hk2*cosL + g - f*hk2 + α2*g),
		-sqrtμp * (-cosL + α2*cosL + hk2*sinL - f + g*hk2 + α2*f),
		2 * sqrtμp * (h*cosL + k*sinL + f*h + g*k),
	}, nil
}

// meanMotion returns n = μ^½ p^(-3/2) (1-f²-g²)^(3/2).
func meanMotion(p, f, g, μ float64) float64 {
	return math.Sqrt(μ/(p*p*p)) * math.Pow(1-f*f-g*g, 1.5)
}

func meeMl0FromMEE(row int, t float64, x []float64, μ float64) ([]float64, error) {
	p, f, g, L := x[0], x[1], x[2], x[5]
	if err := checkMEE(row, p, f, g); err != nil {
		return nil, err
	}
	e := math.Hypot(f, g)
	ϖ := math.Atan2(g, f)
	M := MeanAnomaly(EccentricAnomaly(L-ϖ, e), e)
	return []float64{p, f, g, x[3], x[4], ϖ + M - meanMotion(p, f, g, μ)*t}, nil
}

func meeFromMEEMl0(row int, t float64, x []float64, μ float64) ([]float64, error) {
	p, f, g, Ml0 := x[0], x[1], x[2], x[5]
	if err := checkMEE(row, p, f, g); err != nil {
		return nil, err
	}
	e := math.Hypot(f, g)
	ϖ := math.Atan2(g, f)
	M := Ml0 + meanMotion(p, f, g, μ)*t - ϖ
	return []float64{p, f, g, x[3], x[4], ϖ + TrueAnomaly(SolveKepler(M, e), e)}, nil
}
