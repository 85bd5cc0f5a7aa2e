package experiment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gocart-rl/gocart/agent"
	env "github.com/gocart-rl/gocart/environment"
	"github.com/gocart-rl/gocart/experiment/trackers"
	"github.com/gocart-rl/gocart/timestep"
	"github.com/gocart-rl/gocart/utils/progressbar"
)

// progressBarWidth is the character width of the terminal progress bar
// drawn while an Online experiment runs
const progressBarWidth int = 40

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps     uint
	currentSteps uint
	trackers     []trackers.Tracker

	runID       uuid.UUID
	logger      *zap.Logger
	progressBar bool
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter is a
// list of Trackers which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
		runID:       uuid.New(),
		logger:      zap.NewNop(),
		progressBar: true,
	}
}

// WithoutProgressBar disables the terminal progress bar during Run and
// returns the experiment. Use when several experiments share one
// terminal, since their bars would interleave.
func (o *Online) WithoutProgressBar() *Online {
	o.progressBar = false
	return o
}

// WithLogger sets the logger the experiment reports progress to and
// returns the experiment
func (o *Online) WithLogger(logger *zap.Logger) *Online {
	o.logger = logger
	return o
}

// RunID returns the unique identifier of this experiment run
func (o *Online) RunID() uuid.UUID {
	return o.runID
}

// Register registers a Tracker with the Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment, returning
// whether the experiment's timestep limit has been reached
func (o *Online) RunEpisode() (bool, error) {
	step, err := firstStep(o.Environment, o.Agent)
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select an action and step in the environment
		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not step "+
				"environment: %w", err)
		}

		o.track(step)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: agent could not "+
				"observe: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: could not step agent: %w",
				err)
		}
	}
	o.Agent.EndEpisode()

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	o.logger.Info("starting online experiment",
		zap.String("run_id", o.runID.String()),
		zap.Uint("max_steps", o.maxSteps),
		zap.String("environment", o.Environment.String()),
	)

	var bar *progressbar.ProgressBar
	if o.progressBar {
		bar = progressbar.NewProgressBar(progressBarWidth, int(o.maxSteps),
			time.Second, false)
		bar.Display()
		defer bar.Close()
	}

	ended := false
	episodes := 0
	for !ended {
		stepsBefore := o.currentSteps

		var err error
		ended, err = o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		episodes++

		if bar != nil {
			for i := stepsBefore; i < o.currentSteps; i++ {
				bar.Increment()
			}
		}
	}

	o.logger.Info("online experiment finished",
		zap.String("run_id", o.runID.String()),
		zap.Int("episodes", episodes),
		zap.Uint("steps", o.currentSteps),
	)
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each
// registered Tracker
func (o *Online) track(t timestep.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
