// Command gocart runs cart-on-curve simulations and configured
// experiments from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gocart-rl/gocart/cartsim"
	"github.com/gocart-rl/gocart/experiment"
	"github.com/gocart-rl/gocart/experiment/trackers"
	"github.com/gocart-rl/gocart/utils/progressbar"
)

func main() {
	root := &cobra.Command{
		Use:          "gocart",
		Short:        "Cart-on-curve physics simulation and experiments",
		SilenceUsage: true,
	}
	root.AddCommand(rolloutCommand())
	root.AddCommand(runCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// rolloutCommand simulates the cart directly with a fixed applied
// force and plots the height profile of the rollout
func rolloutCommand() *cobra.Command {
	var (
		seed  uint64
		force float64
		steps int
		plot  bool
	)

	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Simulate the cart with a fixed applied force",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := cartsim.DefaultConfig()
			if steps > config.MaxSteps {
				config.MaxSteps = steps
			}

			cart, err := cartsim.New(config)
			if err != nil {
				return err
			}
			cart.Reset(seed)

			bar := progressbar.NewManualProgressBar(40, steps)
			total := 0.0
			for i := 0; i < steps; i++ {
				if _, err := cart.Advance([]float64{force}); err != nil {
					return err
				}
				total += cart.Reward()

				bar.Increment()
				bar.Display()
			}
			fmt.Println()

			state := cart.State()
			fmt.Printf("steps:        %v\n", cart.Step())
			fmt.Printf("total reward: %v\n", total)
			fmt.Printf("position:     (%v, %v)\n", state.X, state.Y)

			if plot {
				heights := make([]float64, 0, steps)
				for _, p := range cart.Positions() {
					heights = append(heights, p.Y)
				}
				fmt.Println(asciigraph.Plot(heights,
					asciigraph.Height(15),
					asciigraph.Caption("cart height"),
				))
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0xC0FF33, "simulation seed")
	cmd.Flags().Float64Var(&force, "force", 0.5, "applied force")
	cmd.Flags().IntVar(&steps, "steps", 200, "number of steps to simulate")
	cmd.Flags().BoolVar(&plot, "plot", true, "plot the height profile")
	return cmd
}

// runCommand runs an experiment described by a YAML configuration file
func runCommand() *cobra.Command {
	var (
		seed     uint64
		runs     int
		saveFile string
	)

	cmd := &cobra.Command{
		Use:   "run CONFIG",
		Short: "Run an experiment from a YAML configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()

			config, err := loadExperimentConfig(args[0])
			if err != nil {
				return err
			}

			if runs > 1 {
				seeds := make([]uint64, runs)
				for i := range seeds {
					seeds[i] = seed + uint64(i)
				}

				results, err := experiment.RunParallel(config, seeds)
				if err != nil {
					return err
				}
				for _, result := range results {
					logger.Info("run finished",
						zap.Uint64("seed", result.Seed),
						zap.Int("episodes", len(result.EpisodeReturns)),
						zap.Float64s("returns", result.EpisodeReturns),
					)
				}
				return nil
			}

			returns := trackers.NewReturn(saveFile)
			exp, err := config.Create(seed, returns)
			if err != nil {
				return err
			}

			if err := exp.Run(); err != nil {
				return err
			}
			logger.Info("run finished",
				zap.Uint64("seed", seed),
				zap.Int("episodes", len(returns.EpisodeReturns())),
				zap.Float64s("returns", returns.EpisodeReturns()),
			)

			if saveFile != "" {
				return exp.Save()
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 1, "experiment seed")
	cmd.Flags().IntVar(&runs, "runs", 1,
		"number of concurrent runs with consecutive seeds")
	cmd.Flags().StringVar(&saveFile, "save", "",
		"file to save episodic returns to")
	return cmd
}

// loadExperimentConfig reads an experiment configuration, filling in
// a default environment when the file omits one
func loadExperimentConfig(filename string) (experiment.Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("could not read config: %w",
			err)
	}
	return experiment.ParseConfig(data)
}
