package cartpole

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/gocart-rl/gocart/environment"
	ts "github.com/gocart-rl/gocart/timestep"
	"github.com/gocart-rl/gocart/utils/floatutils"
)

// Continuous implements the Cartpole environment with continuous
// actions.
//
// Actions are 1-dimensional and continuous in [-1, 1], determining the
// fraction of the maximum force to apply to the cart and in which
// direction. Actions outside this range are clipped to stay within it.
//
// Continuous implements the environment.Environment interface
type Continuous struct {
	*base
}

// NewContinuous constructs a new Cartpole environment with continuous
// actions
func NewContinuous(t env.Task, discount float64) (env.Environment,
	ts.TimeStep, error) {
	base, firstStep, err := newBase(t, discount)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newContinuous: %v", err)
	}

	return &Continuous{base}, firstStep, nil
}

// ActionSpec returns the action specification of the environment
func (c *Continuous) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{MinContinuousAction})
	upperBound := mat.NewVecDense(ActionDims, []float64{MaxContinuousAction})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Continuous)
}

// Step takes one environmental step given action a and returns the
// next state as a timestep.TimeStep and a bool indicating whether or
// not the episode has ended
func (c *Continuous) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional, got %v dimensions", ActionDims, a.Len())
	}

	// Clip the action to its legal range, then scale the force
	direction := floatutils.Clip(a.AtVec(0), MinContinuousAction,
		MaxContinuousAction)
	force := direction * c.forceMag

	nextStep, last := c.update(a, c.nextState(force))
	return nextStep, last, nil
}
