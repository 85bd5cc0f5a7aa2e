package cartsim

import "gonum.org/v1/gonum/mat"

// StateDims is the number of features in a simulation state
const StateDims int = 6

// State is a snapshot of the full physical state of the cart. The cart
// is constrained to the track y = x², so Y, and the accelerations
// derived from the track geometry, are functions of X rather than
// independently integrated quantities.
type State struct {
	X, Y   float64 // Position
	VX, VY float64 // Velocity
	AX, AY float64 // Acceleration
}

// Vector returns the state as a newly allocated 6-vector
// (x, y, vx, vy, ax, ay). Mutating the returned vector does not affect
// the simulation.
func (s State) Vector() *mat.VecDense {
	return mat.NewVecDense(StateDims, []float64{
		s.X, s.Y, s.VX, s.VY, s.AX, s.AY,
	})
}
