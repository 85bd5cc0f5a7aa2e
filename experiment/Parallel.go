package experiment

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gocart-rl/gocart/experiment/trackers"
)

// Result holds the data generated by a single run of a parallel
// experiment
type Result struct {
	Seed           uint64
	EpisodeReturns []float64
	EpisodeLengths []int
}

// RunParallel runs the experiment described by config once per seed,
// with all runs proceeding concurrently. Each run constructs its own
// environment and agent so that no state is shared between runs.
// Results are returned in the same order as the seeds.
func RunParallel(config Config, seeds []uint64) ([]Result, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("runParallel: no seeds given")
	}

	results := make([]Result, len(seeds))
	var mu sync.Mutex

	var group errgroup.Group
	for i, seed := range seeds {
		i, seed := i, seed
		group.Go(func() error {
			returns := trackers.NewReturn("")
			lengths := trackers.NewEpisodeLength("")

			exp, err := config.Create(seed, returns, lengths)
			if err != nil {
				return fmt.Errorf("runParallel: could not create "+
					"experiment for seed %v: %w", seed, err)
			}

			// Concurrent runs share the terminal, so per-run progress
			// bars would interleave
			if online, ok := exp.(*Online); ok {
				online.WithoutProgressBar()
			}

			if err := exp.Run(); err != nil {
				return fmt.Errorf("runParallel: run with seed %v "+
					"failed: %w", seed, err)
			}

			mu.Lock()
			results[i] = Result{
				Seed:           seed,
				EpisodeReturns: returns.EpisodeReturns(),
				EpisodeLengths: lengths.EpisodeLengths(),
			}
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
