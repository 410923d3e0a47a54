package orbital

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrDegenerateOrbit is returned when a sample is not a bound, well defined orbit
	// in the requested representation (p <= 0, e >= 1, rectilinear, ...).
	ErrDegenerateOrbit = errors.New("degenerate orbit")
	// ErrUnsupportedOrder is returned when the zonal harmonic order is outside [1, 6].
	ErrUnsupportedOrder = errors.New("unsupported zonal harmonic order")
	// ErrShapeMismatch is returned when the time and state batches disagree in size,
	// or when a batch does not have the column count of its representation.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidMu is returned when the gravitational parameter is not a positive finite number.
	ErrInvalidMu = errors.New("invalid gravitational parameter")
)

func degenerate(row int, format string, args ...interface{}) error {
	return errors.Wrapf(ErrDegenerateOrbit, "row %d: "+format, append([]interface{}{row}, args...)...)
}

func checkMu(μ float64) error {
	if !(μ > 0) || math.IsInf(μ, 1) {
		return errors.Wrapf(ErrInvalidMu, "μ=%g", μ)
	}
	return nil
}
