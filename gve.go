package orbital

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// GVEFunc returns, for every sample of X, the 6×3 Gauss Variational Equations matrix
// mapping an LVLH perturbing acceleration (radial, transverse, normal) to the time
// derivative of the elements of X. The Keplerian drift is not included (cf. KeplerianDynamics).
type GVEFunc func(T []float64, X *mat.Dense, μ float64) ([]*mat.Dense, error)

// GVEFor returns the GVE of the provided representation.
func GVEFor(r Representation) (GVEFunc, error) {
	switch r {
	case RV:
		return RVGVE, nil
	case COE:
		return COEGVE, nil
	case MEE:
		return MEEGVE, nil
	case MEEMl0:
		return MEEMl0GVE, nil
	}
	return nil, fmt.Errorf("no GVE for representation %d", r)
}

type gveRowFunc func(row int, t float64, x []float64, μ float64) (*mat.Dense, error)

func gveRows(T []float64, X *mat.Dense, μ float64, fn gveRowFunc) ([]*mat.Dense, error) {
	m, err := checkBatch(T, X, StateWidth)
	if err != nil {
		return nil, err
	}
	if err := checkMu(μ); err != nil {
		return nil, err
	}
	G := make([]*mat.Dense, m)
	for i := 0; i < m; i++ {
		if G[i], err = fn(i, T[i], X.RawRowView(i), μ); err != nil {
			return nil, err
		}
	}
	return G, nil
}

// RVGVE returns the GVE for position-velocity states: the position rate block is zero and the
// velocity rate block is the LVLH to inertial DCM.
func RVGVE(T []float64, rv *mat.Dense, μ float64) ([]*mat.Dense, error) {
	return gveRows(T, rv, μ, func(row int, _ float64, x []float64, _ float64) (*mat.Dense, error) {
		dcm, ok := LVLH(x[0:3], x[3:6])
		if !ok {
			return nil, degenerate(row, "LVLH frame undefined for rectilinear motion")
		}
		G := mat.NewDense(6, 3, nil)
		G.Slice(3, 6, 0, 3).(*mat.Dense).Copy(dcm)
		return G, nil
	})
}

// COEGVE returns the GVE for classical orbital elements.
// The matrix is undefined for circular (1/e) and equatorial (1/sin i) orbits: such samples fail
// with ErrDegenerateOrbit, use MEEGVE instead.
func COEGVE(T []float64, coe *mat.Dense, μ float64) ([]*mat.Dense, error) {
	return gveRows(T, coe, μ, func(row int, _ float64, x []float64, μ float64) (*mat.Dense, error) {
		a, e, i, ω, ν := x[0], x[1], x[2], x[4], x[5]
		if a <= 0 || e < 0 || e >= 1 {
			return nil, degenerate(row, "a=%g e=%g (only elliptical orbits are supported)", a, e)
		}
		sini, cosi := math.Sincos(i)
		if e < singularityε || math.Abs(sini) < singularityε {
			return nil, degenerate(row, "classical GVE undefined for e=%g i=%g", e, i)
		}
		p := a * (1 - e*e)
		h := math.Sqrt(μ * p)
		sinν, cosν := math.Sincos(ν)
		r := p / (1 + e*cosν)
		sinu, cosu := math.Sincos(ω + ν)
		he := h * e
		return mat.NewDense(6, 3, []float64{
			// da/dt
			2 * a * a * e * sinν / h, 2 * a * a * p / (h * r), 0,
			// de/dt
			p * sinν / h, ((p+r)*cosν + r*e) / h, 0,
			// di/dt
			0, 0, r * cosu / h,
			// dΩ/dt
			0, 0, r * sinu / (h * sini),
			// dω/dt
			-p * cosν / he, (p + r) * sinν / he, -r * sinu * cosi / (h * sini),
			// dν/dt
			p * cosν / he, -(p + r) * sinν / he, 0,
		}), nil
	})
}

// MEEGVE returns the GVE for modified equinoctial elements. It has no singularity for bound orbits.
func MEEGVE(T []float64, mee *mat.Dense, μ float64) ([]*mat.Dense, error) {
	return gveRows(T, mee, μ, meeGVE)
}

func meeGVE(row int, _ float64, x []float64, μ float64) (*mat.Dense, error) {
	p, f, g, h, k, L := x[0], x[1], x[2], x[3], x[4], x[5]
	if err := checkMEE(row, p, f, g); err != nil {
		return nil, err
	}
	q := math.Sqrt(p / μ)
	sinL, cosL := math.Sincos(L)
	w := 1 + f*cosL + g*sinL
	s2 := 1 + h*h + k*k
	hsk := h*sinL - k*cosL
	return mat.NewDense(6, 3, []float64{
		0, 2 * p * q / w, 0,
		q * sinL, q * ((w+1)*cosL + f) / w, -q * g * hsk / w,
		-q * cosL, q * ((w+1)*sinL + g) / w, q * f * hsk / w,
		0, 0, q * s2 * cosL / (2 * w),
		0, 0, q * s2 * sinL / (2 * w),
		0, 0, q * hsk / w,
	}), nil
}

// MEEMl0GVE returns the GVE for modified equinoctial elements with mean longitude at epoch.
// The first five rows are those of MEEGVE; the last one is the mean longitude rate minus the
// epoch correction t·dn/dt.
func MEEMl0GVE(T []float64, meeMl0 *mat.Dense, μ float64) ([]*mat.Dense, error) {
	return gveRows(T, meeMl0, μ, func(row int, t float64, x []float64, μ float64) (*mat.Dense, error) {
		mee, err := meeFromMEEMl0(row, t, x, μ)
		if err != nil {
			return nil, err
		}
		G, err := meeGVE(row, t, mee, μ)
		if err != nil {
			return nil, err
		}
		p, f, g, h, k, L := mee[0], mee[1], mee[2], mee[3], mee[4], mee[5]
		sinL, cosL := math.Sincos(L)
		w := 1 + f*cosL + g*sinL
		r := p / w
		hm := math.Sqrt(μ * p)
		η2 := 1 - f*f - g*g
		η := math.Sqrt(η2)
		hsk := h*sinL - k*cosL
		// dMl/dt, singularity free (e cos ν = w-1, e sin ν = f sinL - g cosL).
		Ml := []float64{
			-(p*(w-1)/(1+η) + 2*r*η) / hm,
			(p + r) * (f*sinL - g*cosL) / ((1 + η) * hm),
			r * hsk / hm,
		}
		// dn/dt = -3n/(2p) dp/dt - 3nf/η² df/dt - 3ng/η² dg/dt
		n := meanMotion(p, f, g, μ)
		dndp, dndf, dndg := -1.5*n/p, -3*n*f/η2, -3*n*g/η2
		for j := 0; j < 3; j++ {
			dn := dndp*G.At(0, j) + dndf*G.At(1, j) + dndg*G.At(2, j)
			G.Set(5, j, Ml[j]-t*dn)
		}
		return G, nil
	})
}

// ApplyGVE returns the m×6 rates G·U for each sample, where U is an m×3 LVLH acceleration batch.
func ApplyGVE(G []*mat.Dense, U *mat.Dense) (*mat.Dense, error) {
	m, c := U.Dims()
	if m != len(G) || c != 3 {
		return nil, errors.Wrapf(ErrShapeMismatch, "%d GVE matrices for a %d×%d acceleration batch", len(G), m, c)
	}
	Xdot := mat.NewDense(m, StateWidth, nil)
	var rate mat.VecDense
	for i := 0; i < m; i++ {
		rate.MulVec(G[i], U.RowView(i))
		for j := 0; j < StateWidth; j++ {
			Xdot.Set(i, j, rate.AtVec(j))
		}
	}
	return Xdot, nil
}
