package orbital

import "gonum.org/v1/gonum/mat"

// LVLH returns the DCM from the local radial/transverse/normal frame to the inertial frame,
// i.e. the matrix whose columns are r̂, θ̂ and ĥ. It is built from the vectors only so it has no
// angle singularity; it fails for rectilinear states (R parallel to V).
func LVLH(R, V []float64) (*mat.Dense, bool) {
	H := cross(R, V)
	if norm(R) == 0 || norm(H) == 0 {
		return nil, false
	}
	rHat := unit(R)
	hHat := unit(H)
	θHat := cross(hHat, rHat)
	return mat.NewDense(3, 3, []float64{
		rHat[0], θHat[0], hHat[0],
		rHat[1], θHat[1], hHat[1],
		rHat[2], θHat[2], hHat[2]}), true
}
