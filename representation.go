package orbital

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Representation defines an enum of state parameterizations.
type Representation uint8

const (
	// RV is the inertial position-velocity state (rx, ry, rz, vx, vy, vz).
	RV Representation = iota + 1
	// COE are the classical orbital elements (a, e, i, Ω, ω, ν).
	COE
	// MEE are the modified equinoctial elements (p, f, g, h, k, L).
	MEE
	// MEEMl0 are the modified equinoctial elements with the mean longitude at epoch (p, f, g, h, k, Ml0).
	MEEMl0
)

// StateWidth is the number of columns of any state batch.
const StateWidth = 6

func (r Representation) String() string {
	switch r {
	case RV:
		return "rv"
	case COE:
		return "coe"
	case MEE:
		return "mee"
	case MEEMl0:
		return "meeMl0"
	}
	panic("cannot stringify unknown representation")
}

func (r Representation) valid() bool {
	return r >= RV && r <= MEEMl0
}

// Columns returns the name of each state column.
func (r Representation) Columns() []string {
	switch r {
	case RV:
		return []string{"rx", "ry", "rz", "vx", "vy", "vz"}
	case COE:
		return []string{"a", "e", "i", "W", "w", "nu"}
	case MEE:
		return []string{"p", "f", "g", "h", "k", "L"}
	case MEEMl0:
		return []string{"p", "f", "g", "h", "k", "Ml0"}
	}
	panic("unknown representation")
}

// ParseRepresentation returns the representation named s (as returned by String).
func ParseRepresentation(s string) (Representation, error) {
	for _, r := range []Representation{RV, COE, MEE, MEEMl0} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown representation %q", s)
}

// checkBatch ensures that T and X describe the same samples and that X has the expected width.
func checkBatch(T []float64, X *mat.Dense, cols int) (m int, err error) {
	if X == nil {
		return 0, errors.Wrap(ErrShapeMismatch, "nil batch")
	}
	rows, c := X.Dims()
	if rows != len(T) {
		return 0, errors.Wrapf(ErrShapeMismatch, "%d times for %d samples", len(T), rows)
	}
	if c != cols {
		return 0, errors.Wrapf(ErrShapeMismatch, "expected %d columns, got %d", cols, c)
	}
	return rows, nil
}

// NewBatch returns an m×6 state batch from rows of six elements.
func NewBatch(rows ...[]float64) *mat.Dense {
	data := make([]float64, 0, len(rows)*StateWidth)
	for _, row := range rows {
		if len(row) != StateWidth {
			panic(fmt.Errorf("state row has %d elements", len(row)))
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), StateWidth, data)
}
