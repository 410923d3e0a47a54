package orbital

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ConstantThrust defines a constant LVLH acceleration as time derivatives of states in one representation,
// used for continuous low-thrust modeling.
type ConstantThrust struct {
	Vector [3]float64 // LVLH acceleration in the radial, transverse and normal directions
	Rep    Representation
	Mu     float64
}

// NewConstantThrust returns a constant thrust in the provided representation.
func NewConstantThrust(radial, transverse, normal float64, rep Representation, μ float64) ConstantThrust {
	return ConstantThrust{[3]float64{radial, transverse, normal}, rep, μ}
}

func (c ConstantThrust) String() string {
	return fmt.Sprintf("constant thrust %v in %s", c.Vector, c.Rep)
}

// Acceleration implements the AccelerationModel interface: the vector is broadcast to every sample.
func (c ConstantThrust) Acceleration(T []float64, X *mat.Dense) (*mat.Dense, error) {
	m, err := checkBatch(T, X, StateWidth)
	if err != nil {
		return nil, err
	}
	U := mat.NewDense(m, 3, nil)
	for i := 0; i < m; i++ {
		U.SetRow(i, c.Vector[:])
	}
	return U, nil
}

// Representation implements the Dynamics interface.
func (c ConstantThrust) Representation() Representation {
	return c.Rep
}

// Rates implements the Dynamics interface. No conversion is performed since the vector is
// already expressed in the LVLH frame of each sample.
func (c ConstantThrust) Rates(T []float64, X *mat.Dense) (*Rates, error) {
	gve, err := GVEFor(c.Rep)
	if err != nil {
		return nil, err
	}
	U, err := c.Acceleration(T, X)
	if err != nil {
		return nil, err
	}
	return mapAcceleration(gve, T, X, U, c.Mu)
}
