package propagate

import (
	"bytes"
	"math"
	"strings"
	"testing"

	kitlog "github.com/go-kit/kit/log"
	orbital "github.com/lasr/orbital-elements"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

var coe0 = []float64{1, 0.1, 0.5, 0.3, 0.2, 0}

func initial(t *testing.T, rep orbital.Representation, coe []float64) []float64 {
	x0, err := orbital.Convert([]float64{0}, orbital.NewBatch(coe), orbital.COE, rep, 1)
	if err != nil {
		t.Fatal(err)
	}
	return x0.RawRowView(0)
}

func run(t *testing.T, dyn orbital.Dynamics, x0 []float64, step float64, steps uint64) ([]float64, *mat.Dense) {
	p, err := New(dyn, x0, 0, step, steps, nil)
	if err != nil {
		t.Fatal(err)
	}
	T, X, err := p.Propagate()
	if err != nil {
		t.Fatal(err)
	}
	if len(T) != int(steps)+1 {
		t.Fatalf("expected %d samples, got %d", steps+1, len(T))
	}
	return T, X
}

func TestPropagateTwoBodyEnergy(t *testing.T) {
	params := orbital.Params{Mu: 1, Order: 1, REarth: 1}
	dyn := WithKeplerian(orbital.NewZonalGravity(orbital.RV, params), 1)
	x0 := initial(t, orbital.RV, coe0)
	T, X := run(t, dyn, x0, 2*math.Pi/1000, 1000)
	H, err := orbital.Hamiltonian(T, X, params)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(H[0], -0.5, 1e-12) {
		t.Fatalf("initial energy %f != -0.5", H[0])
	}
	for i, h := range H {
		if !scalar.EqualWithinAbs(h, H[0], 1e-8) {
			t.Fatalf("energy drifted at t=%f: %.12f != %.12f", T[i], h, H[0])
		}
	}
	// One period later, the state is back to the initial one.
	if !floats.EqualApprox(X.RawRowView(1000), x0, 1e-6) {
		t.Fatalf("after one period x=%+v\nexpected %+v", X.RawRowView(1000), x0)
	}
}

func TestPropagateZonalEnergy(t *testing.T) {
	for _, order := range []int{2, 6} {
		params := orbital.Params{Mu: 1, Order: order, REarth: 1}
		dyn := WithKeplerian(orbital.NewZonalGravity(orbital.RV, params), 1)
		x0 := initial(t, orbital.RV, []float64{2, 0.05, 0.7, 0.1, 0.2, 0.3})
		period := 2 * math.Pi * math.Pow(2, 1.5)
		T, X := run(t, dyn, x0, period/2000, 2000)
		H, err := orbital.Hamiltonian(T, X, params)
		if err != nil {
			t.Fatal(err)
		}
		for i, h := range H {
			if !scalar.EqualWithinAbs(h, H[0], 1e-8) {
				t.Fatalf("order %d: energy drifted at t=%f: %.12f != %.12f", order, T[i], h, H[0])
			}
		}
		// The zonal potential does change the orbit.
		kep, err := orbital.KeplerianSolution(T[len(T)-1:], x0, 0, orbital.RV, 1)
		if err != nil {
			t.Fatal(err)
		}
		if floats.EqualApprox(X.RawRowView(2000), kep.RawRowView(0), 1e-6) {
			t.Fatalf("order %d: no perturbation visible", order)
		}
	}
}

func TestPropagateAgreesWithKeplerianSolution(t *testing.T) {
	for _, rep := range []orbital.Representation{orbital.RV, orbital.COE, orbital.MEE} {
		x0 := initial(t, rep, coe0)
		T, X := run(t, orbital.KeplerianDynamics{Rep: rep, Mu: 1}, x0, 0.01, 500)
		kep, err := orbital.KeplerianSolution(T, x0, 0, rep, 1)
		if err != nil {
			t.Fatal(err)
		}
		// Compare positions since angles may differ by whole revolutions.
		rvProp, err := orbital.Convert(T, X, rep, orbital.RV, 1)
		if err != nil {
			t.Fatal(err)
		}
		rvKep, err := orbital.Convert(T, kep, rep, orbital.RV, 1)
		if err != nil {
			t.Fatal(err)
		}
		for i := range T {
			if !floats.EqualApprox(rvProp.RawRowView(i), rvKep.RawRowView(i), 1e-8) {
				t.Fatalf("%s at t=%f: %+v != %+v", rep, T[i], rvProp.RawRowView(i), rvKep.RawRowView(i))
			}
		}
	}
}

func TestPropagateMEEMl0Constant(t *testing.T) {
	x0 := initial(t, orbital.MEEMl0, coe0)
	_, X := run(t, orbital.KeplerianDynamics{Rep: orbital.MEEMl0, Mu: 1}, x0, 0.1, 50)
	for i := 0; i < 51; i++ {
		if !floats.Equal(X.RawRowView(i), x0) {
			t.Fatalf("MEEMl0 changed under two body dynamics: %+v", X.RawRowView(i))
		}
	}
}

func TestPropagateThrustAcrossRepresentations(t *testing.T) {
	const (
		steps = 800
		step  = math.Pi / steps
	)
	var ref *mat.Dense
	for _, rep := range []orbital.Representation{orbital.RV, orbital.COE, orbital.MEE, orbital.MEEMl0} {
		dyn := WithKeplerian(orbital.NewConstantThrust(1e-3, 2e-3, -1e-3, rep, 1), 1)
		x0 := initial(t, rep, coe0)
		T, X := run(t, dyn, x0, step, steps)
		rv, err := orbital.Convert(T[steps:], mat.NewDense(1, 6, X.RawRowView(steps)), rep, orbital.RV, 1)
		if err != nil {
			t.Fatal(err)
		}
		if ref == nil {
			ref = rv
			continue
		}
		if !floats.EqualApprox(rv.RawRowView(0), ref.RawRowView(0), 1e-7) {
			t.Fatalf("%s propagation ended at %+v\nRV ended at %+v", rep, rv.RawRowView(0), ref.RawRowView(0))
		}
	}
}

func TestPropagateLogs(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(orbital.KeplerianDynamics{Rep: orbital.MEE, Mu: 1}, initial(t, orbital.MEE, coe0), 0, 0.1, 10, kitlog.NewLogfmtLogger(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Propagate(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, exp := range []string{"subsys=prop", "rep=mee", "status=finished", "iter=10"} {
		if !strings.Contains(out, exp) {
			t.Fatalf("log %q does not contain %q", out, exp)
		}
	}
}

func TestPropagateNoSteps(t *testing.T) {
	x0 := initial(t, orbital.RV, coe0)
	T, X := run(t, orbital.KeplerianDynamics{Rep: orbital.RV, Mu: 1}, x0, 1, 0)
	if T[0] != 0 || !floats.Equal(X.RawRowView(0), x0) {
		t.Fatalf("unexpected history %v %+v", T, X.RawRowView(0))
	}
}

func TestPropagateErrors(t *testing.T) {
	kep := orbital.KeplerianDynamics{Rep: orbital.MEE, Mu: 1}
	if _, err := New(kep, []float64{1, 0, 0}, 0, 1, 1, nil); !errors.Is(err, orbital.ErrShapeMismatch) {
		t.Fatalf("expected a shape mismatch, got %v", err)
	}
	if _, err := New(kep, make([]float64, 6), 0, 0, 1, nil); err == nil {
		t.Fatal("zero step size accepted")
	}
	if _, err := New(nil, make([]float64, 6), 0, 1, 1, nil); err == nil {
		t.Fatal("nil dynamics accepted")
	}
	if _, err := New(orbital.Sum{}, make([]float64, 6), 0, 1, 1, nil); err == nil {
		t.Fatal("dynamics without representation accepted")
	}
	// p = 0 is not an orbit.
	p, err := New(kep, make([]float64, 6), 0, 1, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Propagate(); !errors.Is(err, orbital.ErrDegenerateOrbit) {
		t.Fatalf("expected a degenerate orbit, got %v", err)
	}
}

// ramp has dx/dt = t on its first element, which RK4 integrates exactly.
type ramp struct {
	failAfter float64
}

var errRamp = errors.New("ramp ended")

func (ramp) Representation() orbital.Representation {
	return orbital.RV
}

func (r ramp) Rates(T []float64, X *mat.Dense) (*orbital.Rates, error) {
	if r.failAfter > 0 && T[0] > r.failAfter {
		return nil, errRamp
	}
	Xdot := mat.NewDense(1, orbital.StateWidth, nil)
	Xdot.Set(0, 0, T[0])
	return &orbital.Rates{Xdot: Xdot}, nil
}

func TestPropagateTimeDependent(t *testing.T) {
	p, err := New(ramp{}, make([]float64, 6), 1, 0.5, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	T, X, err := p.Propagate()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(T, []float64{1, 1.5, 2, 2.5, 3}) {
		t.Fatalf("unexpected times %v", T)
	}
	// x(3) = (3² - 1²)/2
	if !scalar.EqualWithinAbs(X.At(4, 0), 4, 1e-12) {
		t.Fatalf("x(3)=%f", X.At(4, 0))
	}
}

func TestPropagateRatesError(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(ramp{failAfter: 1.2}, make([]float64, 6), 0, 0.5, 10, kitlog.NewLogfmtLogger(&buf))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.Propagate(); !errors.Is(err, errRamp) {
		t.Fatalf("expected the rates error, got %v", err)
	}
	// The step from t=1 evaluates the rates at t=1.25 and is discarded.
	T, _ := p.History()
	if !floats.Equal(T, []float64{0, 0.5, 1}) {
		t.Fatalf("unexpected history %v", T)
	}
	if !strings.Contains(buf.String(), "level=critical") {
		t.Fatalf("failure not logged: %q", buf.String())
	}
}
