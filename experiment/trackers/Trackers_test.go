package trackers_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/mat"

	"github.com/gocart-rl/gocart/experiment/trackers"
	ts "github.com/gocart-rl/gocart/timestep"
)

// episode feeds a tracker one episode, with the argument rewards on
// its Mid steps and the final reward on its Last step
func episode(tr trackers.Tracker, rewards []float64) {
	obs := mat.NewVecDense(1, nil)

	tr.Track(ts.New(ts.First, 0, 1, obs, 0))
	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		step := ts.New(stepType, r, 1, obs, i+1)
		tr.Track(step)
	}
}

func TestReturnAccumulatesEpisodes(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.bin")
	tr := trackers.NewReturn(filename)

	episode(tr, []float64{1, 2, 3})
	episode(tr, []float64{-1, -1})

	assert.Equal(t, []float64{6, -2}, tr.EpisodeReturns())

	require.NoError(t, tr.Save())
	loaded, err := trackers.LoadData(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, -2}, loaded)
}

func TestReturnPanicsOnNonSequentialSteps(t *testing.T) {
	tr := trackers.NewReturn(filepath.Join(t.TempDir(), "returns.bin"))

	obs := mat.NewVecDense(1, nil)
	tr.Track(ts.New(ts.First, 0, 1, obs, 0))

	assert.Panics(t, func() {
		tr.Track(ts.New(ts.Mid, 1, 1, obs, 5))
	})
}

func TestEpisodeLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths.bin")
	tr := trackers.NewEpisodeLength(filename)

	episode(tr, []float64{0, 0, 0, 0}) // 4 steps
	episode(tr, []float64{0})          // 1 step

	assert.Equal(t, []int{4, 1}, tr.EpisodeLengths())

	require.NoError(t, tr.Save())
	loaded, err := trackers.LoadIntData(filename)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1}, loaded)
}
