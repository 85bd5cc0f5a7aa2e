// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"gonum.org/v1/gonum/mat"

	"github.com/gocart-rl/gocart/agent"
	"github.com/gocart-rl/gocart/agent/fixed"
	env "github.com/gocart-rl/gocart/environment"
	"github.com/gocart-rl/gocart/environment/envconfig"
	"github.com/gocart-rl/gocart/environment/wrappers"
	"github.com/gocart-rl/gocart/experiment/trackers"
	ts "github.com/gocart-rl/gocart/timestep"
)

// Experiment outlines structs that can run experiments. Experiments
// track environment TimeSteps, sending each TimeStep to their
// registered Trackers, which cache data in RAM. The Save() function
// then takes all cached data and saves it to disk, and is usually
// called after an experiment has run. The Run() method runs all
// episodes until the maximum timestep limit is reached. The
// RunEpisode() method runs a single episode.
//
// New Trackers can be registered with an Experiment through the
// constructor or through an Experiment's Register() function.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Whether the step limit has been reached

	// Save all tracked data to disk
	Save() error

	// Register adds a Tracker to the (possibly already running)
	// experiment. Useful to track data only after a specified event.
	Register(t trackers.Tracker)
}

// Type describes the kinds of experiments that can be configured
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// AgentType describes the kinds of (non-learning) agents that can
// drive a configured experiment
type AgentType string

const (
	// ConstantAgent applies a fixed action on every timestep
	ConstantAgent AgentType = "Constant"

	// RandomAgent samples actions uniformly from the environment's
	// action specification
	RandomAgent AgentType = "Random"
)

// AgentConfig describes the agent driving a configured experiment
type AgentConfig struct {
	Type AgentType `yaml:"type"`

	// Action is the fixed action of a Constant agent; ignored for
	// other agent types
	Action []float64 `yaml:"action,omitempty"`
}

// CreateAgent creates the agent described by the AgentConfig for the
// argument environment
func (a AgentConfig) CreateAgent(e env.Environment,
	seed uint64) (agent.Agent, error) {
	switch a.Type {
	case ConstantAgent:
		dims := e.ActionSpec().Shape.Len()
		if len(a.Action) != dims {
			return nil, fmt.Errorf("createAgent: constant action has %v "+
				"dimensions, environment expects %v", len(a.Action), dims)
		}
		action := mat.NewVecDense(dims, append([]float64(nil), a.Action...))
		return fixed.NewConstant(action)

	case RandomAgent:
		return fixed.NewRandom(e.ActionSpec(), seed)
	}

	return nil, fmt.Errorf("createAgent: no such agent type %v", a.Type)
}

// DefaultRewardStepSize is the step size of the average reward
// estimate when an experiment uses differential rewards but does not
// configure one
const DefaultRewardStepSize float64 = 0.01

// Config represents a configuration of an experiment. Configs are YAML
// serializable so that experiments can be fully described by
// configuration files.
type Config struct {
	Type     Type             `yaml:"type"`
	MaxSteps uint             `yaml:"max_steps"`
	Env      envconfig.Config `yaml:"environment"`
	Agent    AgentConfig      `yaml:"agent"`

	// DifferentialReward wraps the environment so that trackers record
	// differential rewards relative to a running average reward
	// estimate instead of the raw environmental rewards
	DifferentialReward bool `yaml:"differential_reward,omitempty"`

	// RewardStepSize is the step size of the average reward estimate;
	// ignored unless DifferentialReward is set. Non-positive values
	// fall back to DefaultRewardStepSize.
	RewardStepSize float64 `yaml:"reward_step_size,omitempty"`
}

// ParseConfig parses a Config from YAML data. Fields the data omits
// keep their default values.
func ParseConfig(data []byte) (Config, error) {
	config := Config{
		Type:     OnlineExp,
		MaxSteps: 1000,
		Env: envconfig.Config{
			Environment:       envconfig.MountainCart,
			Task:              envconfig.Climb,
			ContinuousActions: true,
			EpisodeCutoff:     200,
			Discount:          1.0,
		},
		Agent: AgentConfig{Type: RandomAgent},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parseConfig: could not parse "+
			"config: %w", err)
	}
	return config, nil
}

// Create creates the Experiment the Config describes, with the
// argument seed and trackers
func (c Config) Create(seed uint64, t ...trackers.Tracker) (Experiment,
	error) {
	environment, _, err := c.Env.Create(seed)
	if err != nil {
		return nil, fmt.Errorf("create: could not create environment: %w",
			err)
	}

	if c.DifferentialReward {
		stepSize := c.RewardStepSize
		if stepSize <= 0 {
			stepSize = DefaultRewardStepSize
		}

		wrapped, _, err := wrappers.NewAverageReward(environment, 0,
			stepSize)
		if err != nil {
			return nil, fmt.Errorf("create: could not wrap environment: %w",
				err)
		}
		environment = wrapped
	}

	a, err := c.Agent.CreateAgent(environment, seed)
	if err != nil {
		return nil, fmt.Errorf("create: could not create agent: %w", err)
	}

	switch c.Type {
	case OnlineExp:
		return NewOnline(environment, a, c.MaxSteps, t...), nil
	}

	return nil, fmt.Errorf("create: no such experiment type %v", c.Type)
}

// firstStep resets an environment and informs the agent of the first
// timestep, returning that timestep
func firstStep(e env.Environment, a agent.Agent) (ts.TimeStep, error) {
	step, err := e.Reset()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("could not reset environment: %w",
			err)
	}
	if err := a.ObserveFirst(step); err != nil {
		return ts.TimeStep{}, fmt.Errorf("agent could not observe first "+
			"timestep: %w", err)
	}
	return step, nil
}
