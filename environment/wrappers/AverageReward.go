// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/gocart-rl/gocart/environment"
	"github.com/gocart-rl/gocart/timestep"
)

// AverageReward wraps an environment and alters rewards so that the
// differential reward is returned for each action. The wrapper keeps
// an exponential moving average of the rewards seen so far:
//
//	avgReward <- avgReward + learningRate * (reward - avgReward)
//
// and each timestep's reward is replaced by reward - avgReward. The
// average reward setting does not use discounting, so the discount on
// every timestep is set to 1.
//
// AverageReward itself implements the environment.Environment
// interface, and is therefore itself an Environment.
type AverageReward struct {
	env.Environment
	avgReward    float64
	learningRate float64

	// The last timestep holds the reward whose moving average update
	// has not happened yet
	lastStep timestep.TimeStep
}

// NewAverageReward creates and returns a new AverageReward environment
// wrapper. The init parameter is the initial value for the average
// reward, usually 0.
func NewAverageReward(e env.Environment, init,
	learningRate float64) (*AverageReward, timestep.TimeStep, error) {
	step, err := e.Reset()
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("newAverageReward: "+
			"could not reset environment: %v", err)
	}
	step.Discount = 1.0

	wrapped := &AverageReward{e, init, learningRate, step}
	return wrapped, step, nil
}

// AverageReward returns the current estimate of the average reward
func (a *AverageReward) AverageReward() float64 {
	return a.avgReward
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (a *AverageReward) Reset() (timestep.TimeStep, error) {
	step, err := a.Environment.Reset()
	if err != nil {
		return timestep.TimeStep{}, err
	}
	step.Discount = 1.0

	a.lastStep = step
	return step, nil
}

// Step takes one environmental step given some action and returns the
// next timestep with its reward replaced by the differential reward
func (a *AverageReward) Step(action *mat.VecDense) (timestep.TimeStep,
	bool, error) {
	step, _, err := a.Environment.Step(action)
	if err != nil {
		return timestep.TimeStep{}, true, err
	}

	a.avgReward += a.learningRate * (a.lastStep.Reward - a.avgReward)
	step.Reward -= a.avgReward
	step.Discount = 1.0

	a.lastStep = step
	return step, step.Last(), nil
}

// RewardSpec returns the reward specification for the environment.
// Differential rewards depend on the changing average reward estimate,
// so no bounds can be given.
func (a *AverageReward) RewardSpec() env.Spec {
	rewardSpec := a.Environment.RewardSpec()
	rewardSpec.LowerBound = nil
	rewardSpec.UpperBound = nil
	return rewardSpec
}

// DiscountSpec returns the discount specification for the environment.
// The average reward setting does not use discounting, so the discount
// value is always 1.
func (a *AverageReward) DiscountSpec() env.Spec {
	discountSpec := a.Environment.DiscountSpec()

	bounds := make([]float64, discountSpec.Shape.Len())
	for i := range bounds {
		bounds[i] = 1.0
	}
	vecBounds := mat.NewVecDense(len(bounds), bounds)
	discountSpec.LowerBound = vecBounds
	discountSpec.UpperBound = vecBounds

	return discountSpec
}

// String returns a string representation of the AverageReward
// environment
func (a *AverageReward) String() string {
	return fmt.Sprintf("Average Reward: %v", a.Environment)
}
