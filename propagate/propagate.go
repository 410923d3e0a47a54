package propagate

import (
	"math"

	"github.com/ChristopherRabotin/ode"
	kitlog "github.com/go-kit/kit/log"
	orbital "github.com/lasr/orbital-elements"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// clock is the index of the time in the integrated state: the integrator sees the autonomous
// system (x, t) with dt/dt = 1, so every RK4 stage is evaluated at its own time.
const clock = orbital.StateWidth

// Propagator integrates one state under any rate generator with a fixed step RK4.
// The whole history is kept in memory.
type Propagator struct {
	Dynamics orbital.Dynamics
	T0, Step float64
	Steps    uint64 // number of steps to take
	logger   kitlog.Logger
	state    []float64 // x followed by t
	err      error     // first rates error, stops the integration
	T        []float64
	X        [][]float64
}

// New returns a Propagator of x0, known at t0, taking steps of the provided size.
// A nil logger disables logging.
func New(dyn orbital.Dynamics, x0 []float64, t0, step float64, steps uint64, logger kitlog.Logger) (*Propagator, error) {
	if dyn == nil {
		return nil, errors.New("no dynamics to propagate")
	}
	if rep := dyn.Representation(); rep < orbital.RV || rep > orbital.MEEMl0 {
		return nil, errors.Errorf("no representation %d", rep)
	}
	if len(x0) != orbital.StateWidth {
		return nil, errors.Wrapf(orbital.ErrShapeMismatch, "initial state of %d elements", len(x0))
	}
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, errors.Errorf("step size must be positive and finite, got %g", step)
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	s := make([]float64, orbital.StateWidth+1)
	copy(s, x0)
	s[clock] = t0
	p := &Propagator{Dynamics: dyn, T0: t0, Step: step, Steps: steps, logger: logger, state: s}
	p.record(s)
	return p, nil
}

// WithKeplerian adds the two body drift to perturbation-only dynamics, such as the zonal gravity rates.
func WithKeplerian(dyn orbital.Dynamics, μ float64) orbital.Dynamics {
	return orbital.Sum{dyn, orbital.KeplerianDynamics{Rep: dyn.Representation(), Mu: μ}}
}

// Propagate runs the integration and returns the sampled times and states, initial state included.
func (p *Propagator) Propagate() ([]float64, *mat.Dense, error) {
	rep := p.Dynamics.Representation()
	p.logger.Log("level", "info", "subsys", "prop", "rep", rep, "t0", p.T0, "step", p.Step, "steps", p.Steps)
	ode.NewRK4(p.T0, p.Step, p).Solve() // Blocking.
	iters, tf := len(p.T)-1, p.T[len(p.T)-1]
	if p.err != nil {
		p.logger.Log("level", "critical", "subsys", "prop", "iter", iters, "t", tf, "err", p.err)
		return nil, nil, errors.Wrapf(p.err, "propagating %s state", rep)
	}
	p.logger.Log("level", "notice", "subsys", "prop", "status", "finished", "iter", iters, "tf", tf)
	T, X := p.History()
	return T, X, nil
}

// History returns the states recorded so far as a batch.
func (p *Propagator) History() ([]float64, *mat.Dense) {
	T := make([]float64, len(p.T))
	copy(T, p.T)
	return T, orbital.NewBatch(p.X...)
}

// record appends s to the history. Recorded times are t0 + n·step, not the integrated clock.
func (p *Propagator) record(s []float64) {
	x := make([]float64, orbital.StateWidth)
	copy(x, s)
	p.T = append(p.T, p.T0+float64(len(p.T))*p.Step)
	p.X = append(p.X, x)
}

// GetState implements the ode.Integrable interface.
func (p *Propagator) GetState() []float64 {
	return p.state
}

// SetState implements the ode.Integrable interface.
func (p *Propagator) SetState(t float64, s []float64) {
	if p.err != nil {
		// That step was computed from zero rates.
		return
	}
	p.state = s
	p.record(s)
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			p.logger.Log("level", "warning", "subsys", "prop", "t", p.T[len(p.T)-1], "state", "not finite")
			break
		}
	}
}

// Stop implements the ode.Integrable interface.
func (p *Propagator) Stop(t float64) bool {
	return p.err != nil || uint64(len(p.T)-1) >= p.Steps
}

// Func implements the ode.Integrable interface. The time is read from the state.
func (p *Propagator) Func(t float64, s []float64) []float64 {
	f := make([]float64, orbital.StateWidth+1)
	if p.err != nil {
		return f
	}
	r, err := p.Dynamics.Rates([]float64{s[clock]}, orbital.NewBatch(s[:orbital.StateWidth]))
	if err != nil {
		p.err = err
		return f
	}
	copy(f, r.Xdot.RawRowView(0))
	f[clock] = 1
	return f
}
