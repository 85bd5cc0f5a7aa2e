package fixed

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/gocart-rl/gocart/agent"
	env "github.com/gocart-rl/gocart/environment"
	"github.com/gocart-rl/gocart/timestep"
)

// Random is an agent that samples an action uniformly from an action
// specification on every timestep, ignoring the state. Continuous
// action spaces are sampled uniformly within their bounds; discrete
// action spaces are sampled uniformly over their legal values.
//
// Each Random agent owns its own random source, so concurrently
// running experiments do not share random state.
type Random struct {
	sampler env.Starter
	eval    bool
}

// NewRandom returns an agent sampling actions uniformly from the
// argument action specification
func NewRandom(actionSpec env.Spec, seed uint64) (agent.Agent, error) {
	if actionSpec.Type != env.Action {
		return nil, fmt.Errorf("newRandom: spec should describe actions, "+
			"describes %v", actionSpec.Type)
	}

	dims := actionSpec.Shape.Len()

	var sampler env.Starter
	switch actionSpec.Cardinality {
	case env.Discrete:
		counts := make([]int, dims)
		for i := range counts {
			counts[i] = int(actionSpec.UpperBound.AtVec(i)) + 1
		}
		sampler = env.NewCategoricalStarter(counts, seed)

	case env.Continuous:
		bounds := make([]r1.Interval, dims)
		for i := range bounds {
			min := actionSpec.LowerBound.AtVec(i)
			max := actionSpec.UpperBound.AtVec(i)
			if math.IsInf(min, 0) || math.IsInf(max, 0) {
				return nil, fmt.Errorf("newRandom: cannot sample "+
					"unbounded action dimension %v", i)
			}
			bounds[i] = r1.Interval{Min: min, Max: max}
		}
		sampler = env.NewUniformStarter(bounds, seed)

	default:
		return nil, fmt.Errorf("newRandom: unknown action cardinality %v",
			actionSpec.Cardinality)
	}

	return &Random{sampler: sampler}, nil
}

// SelectAction samples and returns an action
func (r *Random) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	return r.sampler.Start()
}

// ObserveFirst is a no-op: random agents do not learn
func (r *Random) ObserveFirst(_ timestep.TimeStep) error { return nil }

// Observe is a no-op: random agents do not learn
func (r *Random) Observe(_ mat.Vector, _ timestep.TimeStep) error {
	return nil
}

// Step is a no-op: random agents do not learn
func (r *Random) Step() error { return nil }

// EndEpisode is a no-op: random agents do not learn
func (r *Random) EndEpisode() {}

// Eval sets the agent to evaluation mode
func (r *Random) Eval() { r.eval = true }

// Train sets the agent to training mode
func (r *Random) Train() { r.eval = false }

// IsEval indicates whether the agent is in evaluation mode
func (r *Random) IsEval() bool { return r.eval }
