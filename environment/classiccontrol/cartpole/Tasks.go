package cartpole

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/gocart-rl/gocart/environment"
	ts "github.com/gocart-rl/gocart/timestep"
)

const (
	// FailAngle is the pole angle beyond which the Balance task fails
	FailAngle float64 = 12 * 2 * math.Pi / 360
)

// Balance implements the classic control Cartpole Balance task. In
// this task, the goal of the agent is to keep the pole upright on the
// cart for as long as possible. Goal positions consist of the pole
// within some angle threshold θ of vertical.
//
// The rewards are +1 for every timestep the pole is within the angle
// threshold and -1 once it has fallen outside it.
//
// Episodes end after a step limit or after the pole has fallen outside
// the angle threshold θ.
type Balance struct {
	env.Starter
	stepLimiter  env.Ender
	angleLimiter env.Ender
	failAngle    float64
}

// NewBalance creates and returns a new Balance task
func NewBalance(s env.Starter, episodeSteps int,
	failAngle float64) (*Balance, error) {
	stepLimiter := env.NewStepLimit(episodeSteps)

	legalAngles := []r1.Interval{{Min: -failAngle, Max: failAngle}}
	angleFeatureIndex := []int{2}
	angleLimiter, err := env.NewIntervalLimit(legalAngles, angleFeatureIndex,
		ts.TerminalStateReached)
	if err != nil {
		return nil, err
	}

	return &Balance{s, stepLimiter, angleLimiter, failAngle}, nil
}

// End checks if a TimeStep is the last in an episode. If so, it
// adjusts the TimeStep's StepType to timestep.Last with the
// appropriate EndType and returns true. Otherwise, the function does
// not adjust the TimeStep and returns false.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.angleLimiter.End(t); end {
		return true
	}
	if end := b.stepLimiter.End(t); end {
		return true
	}
	return false
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState
func (b *Balance) GetReward(_ mat.Vector, _ mat.Vector,
	nextState mat.Vector) float64 {
	angle := math.Abs(nextState.AtVec(2))

	// Angle of 0 is pointing straight up, so the pole is balanced
	// while the angle is less than the fail angle
	if angle < b.failAngle {
		return 1.0
	}
	return -1.0
}

// AtGoal returns whether or not the argument state is a goal state
func (b *Balance) AtGoal(state mat.Matrix) bool {
	return math.Abs(state.At(2, 0)) < b.failAngle
}

// Min returns the minimum attainable reward over all timesteps
func (b *Balance) Min() float64 { return -1.0 }

// Max returns the maximum attainable reward over all timesteps
func (b *Balance) Max() float64 { return 1.0 }

// RewardSpec returns the reward specification of the Task
func (b *Balance) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{b.Min()})
	upperBound := mat.NewVecDense(1, []float64{b.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
