package mountaincart

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gocart-rl/gocart/cartsim"
	env "github.com/gocart-rl/gocart/environment"
	ts "github.com/gocart-rl/gocart/timestep"
)

const (
	// Commonly used goal height on the track y = x²
	GoalHeight float64 = 0.81
)

// Climb implements the task of driving the cart as high up the track
// as possible. Rewards follow the simulator's height watermark
// protocol: whenever the cart exceeds its best height so far this
// episode, the reward is the new best height; otherwise the reward is
// 0. Rewards are therefore non-negative and each height value is paid
// out at most once per episode.
//
// Episodes end only at the step limit. The track has no failure
// states, so no terminal-state ender exists for this task.
type Climb struct {
	cart       *cartsim.Cart
	stepLimit  *env.StepLimit
	goalHeight float64
}

// NewClimb returns a new Climb task ending episodes after episodeSteps
// steps, with the goal of reaching goalHeight on the track
func NewClimb(episodeSteps int, goalHeight float64) *Climb {
	return &Climb{
		stepLimit:  env.NewStepLimit(episodeSteps),
		goalHeight: goalHeight,
	}
}

// register gives the task access to the simulator whose watermark
// protocol computes the rewards. Called by the environment during
// construction.
func (c *Climb) register(cart *cartsim.Cart) {
	c.cart = cart
}

// Start returns the starting state of the current episode. The
// cart-on-curve simulator draws its own starting state when it is
// reset, so the task reads the start back from the simulator rather
// than sampling one itself.
func (c *Climb) Start() *mat.VecDense {
	return c.cart.State().Vector()
}

// GetReward returns the reward for transitioning to nextState. The
// reward is the simulator's watermark payout for the most recent
// advance, so the arguments are unused.
func (c *Climb) GetReward(_, _, _ mat.Vector) float64 {
	return c.cart.Reward()
}

// AtGoal returns whether the argument state is at the goal height
func (c *Climb) AtGoal(state mat.Matrix) bool {
	return state.At(1, 0) >= c.goalHeight
}

// Min returns the minimum attainable reward over all timesteps
func (c *Climb) Min() float64 { return 0.0 }

// Max returns the maximum attainable reward over all timesteps. The
// watermark can reach any height the cart's energy allows, so the
// rewards are unbounded above.
func (c *Climb) Max() float64 { return math.Inf(1) }

// RewardSpec returns the reward specification of the Task
func (c *Climb) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{c.Min()})
	upperBound := mat.NewVecDense(1, []float64{c.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}

// End determines if a timestep is the last in the episode, adjusting
// its StepType and EndType if so
func (c *Climb) End(t *ts.TimeStep) bool {
	return c.stepLimit.End(t)
}
