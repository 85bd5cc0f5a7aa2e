package environment

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/gocart-rl/gocart/timestep"
)

func step(obs []float64, number int) timestep.TimeStep {
	o := mat.NewVecDense(len(obs), obs)
	return timestep.New(timestep.Mid, 0, 1, o, number)
}

func TestStepLimitEndsAtLimit(t *testing.T) {
	ender := NewStepLimit(3)

	early := step([]float64{0}, 2)
	if ender.End(&early) {
		t.Error("episode ended before the step limit")
	}

	last := step([]float64{0}, 3)
	if !ender.End(&last) {
		t.Fatal("episode did not end at the step limit")
	}
	if last.StepType != timestep.Last {
		t.Errorf("got step type %v, want %v", last.StepType, timestep.Last)
	}
	if last.EndType != timestep.Timeout {
		t.Errorf("got end type %v, want %v", last.EndType, timestep.Timeout)
	}
}

func TestIntervalLimitEndsOutsideInterval(t *testing.T) {
	ender, err := NewIntervalLimit(
		[]r1.Interval{{Min: -1, Max: 1}},
		[]int{1},
		timestep.TerminalStateReached,
	)
	if err != nil {
		t.Fatal(err)
	}

	inside := step([]float64{10, 0.5}, 1)
	if ender.End(&inside) {
		t.Error("episode ended while the feature was inside the interval")
	}

	outside := step([]float64{0, 1.5}, 2)
	if !ender.End(&outside) {
		t.Fatal("episode did not end when the feature left the interval")
	}
	if outside.EndType != timestep.TerminalStateReached {
		t.Errorf("got end type %v, want %v", outside.EndType,
			timestep.TerminalStateReached)
	}
}

func TestIntervalLimitRejectsMismatchedlengths(t *testing.T) {
	_, err := NewIntervalLimit(
		[]r1.Interval{{Min: -1, Max: 1}},
		[]int{0, 1},
		timestep.TerminalStateReached,
	)
	if err == nil {
		t.Error("expected an error for mismatched limits and indices")
	}
}

func TestFunctionEnder(t *testing.T) {
	ender := NewFunctionEnder(func(obs *mat.VecDense) bool {
		return obs.AtVec(0) > 1.0
	}, timestep.TerminalStateReached)

	low := step([]float64{0.5}, 1)
	if ender.End(&low) {
		t.Error("episode ended while the predicate was false")
	}

	high := step([]float64{1.5}, 2)
	if !ender.End(&high) {
		t.Fatal("episode did not end when the predicate became true")
	}
	if high.StepType != timestep.Last {
		t.Errorf("got step type %v, want %v", high.StepType, timestep.Last)
	}
}
