// Package fixed implements non-learning agents. These agents follow a
// fixed behaviour policy and ignore everything they observe. They are
// useful as experiment drivers and as baselines: for example, the
// cart-on-curve environment is traditionally smoke-tested by applying
// a constant force for a full episode and summing the rewards.
package fixed

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/gocart-rl/gocart/agent"
	"github.com/gocart-rl/gocart/timestep"
)

// Constant is an agent that selects the same action on every timestep
type Constant struct {
	action *mat.VecDense
	eval   bool
}

// NewConstant returns an agent that always selects the argument action
func NewConstant(action *mat.VecDense) (agent.Agent, error) {
	if action == nil || action.Len() == 0 {
		return nil, fmt.Errorf("newConstant: action must be non-empty")
	}
	return &Constant{action: action}, nil
}

// SelectAction returns the constant action. The returned vector is a
// copy, so callers cannot change the agent's behaviour by mutating it.
func (c *Constant) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	return mat.VecDenseCopyOf(c.action)
}

// ObserveFirst is a no-op: constant agents do not learn
func (c *Constant) ObserveFirst(_ timestep.TimeStep) error { return nil }

// Observe is a no-op: constant agents do not learn
func (c *Constant) Observe(_ mat.Vector, _ timestep.TimeStep) error {
	return nil
}

// Step is a no-op: constant agents do not learn
func (c *Constant) Step() error { return nil }

// EndEpisode is a no-op: constant agents do not learn
func (c *Constant) EndEpisode() {}

// Eval sets the agent to evaluation mode
func (c *Constant) Eval() { c.eval = true }

// Train sets the agent to training mode
func (c *Constant) Train() { c.eval = false }

// IsEval indicates whether the agent is in evaluation mode
func (c *Constant) IsEval() bool { return c.eval }
