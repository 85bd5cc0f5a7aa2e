// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are YAML serializable, so experiments
// can be described fully by configuration files.
package envconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gonum.org/v1/gonum/spatial/r1"

	"github.com/gocart-rl/gocart/cartsim"
	env "github.com/gocart-rl/gocart/environment"
	"github.com/gocart-rl/gocart/environment/classiccontrol/cartpole"
	"github.com/gocart-rl/gocart/environment/classiccontrol/mountaincart"
	ts "github.com/gocart-rl/gocart/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	MountainCart EnvName = "MountainCart"
	Cartpole     EnvName = "Cartpole"
)

// TaskName stores the tasks that can be configured with this package.
// Note that not all tasks can be used with all environments. The tasks
// that can be used with each environment are as follows:
//
//	Environment			Task
//	MountainCart		Climb
//	Cartpole			Balance
type TaskName string

// Tasks available for configuration
const (
	Climb   TaskName = "Climb"
	Balance TaskName = "Balance"
)

// Config implements a specific configuration of a specific environment
// and specific task. Not all environments can have all tasks.
type Config struct {
	Environment       EnvName  `yaml:"environment"`
	Task              TaskName `yaml:"task"`
	ContinuousActions bool     `yaml:"continuous_actions"`
	EpisodeCutoff     uint     `yaml:"episode_cutoff"`
	Discount          float64  `yaml:"discount"`
}

// Load reads a Config from a YAML file
func Load(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("load: could not parse config: %w", err)
	}
	return config, nil
}

// Save writes the Config to a YAML file
func (c Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("save: could not marshal config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("save: could not write config: %w", err)
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	switch c.Environment {
	case MountainCart:
		return CreateMountainCart(c.ContinuousActions, c.Task,
			int(c.EpisodeCutoff), seed, c.Discount)

	case Cartpole:
		return CreateCartpole(c.ContinuousActions, c.Task,
			int(c.EpisodeCutoff), seed, c.Discount)
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: no such environment %v",
		c.Environment)
}

// CreateMountainCart is a factory for creating the MountainCart
// environment with default physical parameters and default task
// parameters
func CreateMountainCart(continuousActions bool, taskName TaskName,
	cutoff int, seed uint64, discount float64) (env.Environment,
	ts.TimeStep, error) {
	if !continuousActions {
		return nil, ts.TimeStep{}, fmt.Errorf("createMountainCart: " +
			"MountainCart has no discrete-action version")
	}

	var task env.Task
	switch taskName {
	case Climb:
		task = mountaincart.NewClimb(cutoff, mountaincart.GoalHeight)

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createMountainCart: "+
			"MountainCart environment has no task %v", taskName)
	}

	config := cartsim.DefaultConfig()
	if cutoff > config.MaxSteps {
		config.MaxSteps = cutoff
	}

	return mountaincart.New(task, config, discount, seed)
}

// CreateCartpole is a factory for creating the Cartpole environment
// with default physical parameters and default task parameters
func CreateCartpole(continuousActions bool, taskName TaskName, cutoff int,
	seed uint64, discount float64) (env.Environment, ts.TimeStep, error) {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s := env.NewUniformStarter([]r1.Interval{
		bounds,
		bounds,
		bounds,
		bounds,
	}, seed)

	var task env.Task
	switch taskName {
	case Balance:
		balance, err := cartpole.NewBalance(s, cutoff, cartpole.FailAngle)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: %v", err)
		}
		task = balance

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createCartpole: Cartpole "+
			"environment has no task %v", taskName)
	}

	if continuousActions {
		return cartpole.NewContinuous(task, discount)
	}
	return cartpole.NewDiscrete(task, discount)
}
