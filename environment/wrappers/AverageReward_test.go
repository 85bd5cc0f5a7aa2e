package wrappers

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gocart-rl/gocart/cartsim"
	env "github.com/gocart-rl/gocart/environment"
	"github.com/gocart-rl/gocart/environment/classiccontrol/mountaincart"
)

func newTestEnv(t *testing.T) env.Environment {
	t.Helper()

	config := cartsim.DefaultConfig()
	config.MaxSteps = 50

	task := mountaincart.NewClimb(25, mountaincart.GoalHeight)
	e, _, err := mountaincart.New(task, config, 1.0, 1)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestAverageRewardTracksRewards(t *testing.T) {
	const learningRate = 0.5

	wrapped, first, err := NewAverageReward(newTestEnv(t), 0, learningRate)
	if err != nil {
		t.Fatal(err)
	}
	if first.Discount != 1.0 {
		t.Errorf("got discount %v, want 1", first.Discount)
	}

	avgReward := 0.0
	lastReward := first.Reward
	action := mat.NewVecDense(1, []float64{0.5})
	for i := 0; i < 10; i++ {
		step, _, err := wrapped.Step(action)
		if err != nil {
			t.Fatal(err)
		}

		avgReward += learningRate * (lastReward - avgReward)
		if got := wrapped.AverageReward(); got != avgReward {
			t.Errorf("step %v: got average reward %v, want %v", i, got,
				avgReward)
		}
		if step.Discount != 1.0 {
			t.Errorf("step %v: got discount %v, want 1", i, step.Discount)
		}

		// Step rewards are differential: the unwrapped reward is
		// recovered by adding back the average
		lastReward = step.Reward + avgReward
	}
}

func TestAverageRewardResetClearsState(t *testing.T) {
	wrapped, _, err := NewAverageReward(newTestEnv(t), 0, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	action := mat.NewVecDense(1, []float64{0.5})
	if _, _, err := wrapped.Step(action); err != nil {
		t.Fatal(err)
	}

	step, err := wrapped.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() {
		t.Error("reset should return the first timestep of an episode")
	}
	if step.Discount != 1.0 {
		t.Errorf("got discount %v, want 1", step.Discount)
	}
}

func TestAverageRewardSpecHasNoBounds(t *testing.T) {
	wrapped, _, err := NewAverageReward(newTestEnv(t), 0, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	rewardSpec := wrapped.RewardSpec()
	if rewardSpec.LowerBound != nil || rewardSpec.UpperBound != nil {
		t.Error("differential rewards should be unbounded")
	}

	discountSpec := wrapped.DiscountSpec()
	for i := 0; i < discountSpec.Shape.Len(); i++ {
		if discountSpec.LowerBound.AtVec(i) != 1.0 {
			t.Errorf("got discount lower bound %v, want 1",
				discountSpec.LowerBound.AtVec(i))
		}
	}
}
