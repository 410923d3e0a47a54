package orbital

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// MaxOrder is the highest zonal harmonic supported (J6).
	MaxOrder = 6
)

// j2to6 are Earth's zonal harmonic coefficients, J2 first.
var j2to6 = [...]float64{1082.63e-6, -2.52e-6, -1.61e-6, -.15e-6, .57e-6}

// Params is the immutable configuration carried alongside every call.
type Params struct {
	Mu     float64 `mapstructure:"mu"`      // Standard gravitational parameter
	Order  int     `mapstructure:"order"`   // Zonal gravity order, 1 is two body dynamics
	REarth float64 `mapstructure:"r_earth"` // Equatorial radius
}

// DefaultParams returns the parameters in canonical units with J2 perturbations.
func DefaultParams() Params {
	return Params{Mu: 1.0, Order: 2, REarth: 1.0}
}

// Validate returns an error if these parameters cannot be used.
func (p Params) Validate() error {
	if err := checkOrder(p.Order); err != nil {
		return err
	}
	if err := checkMu(p.Mu); err != nil {
		return err
	}
	if p.REarth <= 0 {
		return fmt.Errorf("equatorial radius must be positive, got %g", p.REarth)
	}
	return nil
}

// J returns a copy of the zonal coefficients J2..J_order used by these parameters,
// or nil if the order is not supported.
func (p Params) J() []float64 {
	if checkOrder(p.Order) != nil {
		return nil
	}
	return append([]float64(nil), j2to6[:p.Order-1]...)
}

func (p Params) String() string {
	return fmt.Sprintf("μ=%g order=%d r_earth=%g", p.Mu, p.Order, p.REarth)
}

func checkOrder(order int) error {
	if order < 1 || order > MaxOrder {
		return errors.Wrapf(ErrUnsupportedOrder, "order %d not in [1, %d]", order, MaxOrder)
	}
	return nil
}
