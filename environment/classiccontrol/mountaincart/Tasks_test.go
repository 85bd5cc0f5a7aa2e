package mountaincart_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gocart-rl/gocart/environment/classiccontrol/mountaincart"
	ts "github.com/gocart-rl/gocart/timestep"
)

func TestClimbAtGoal(t *testing.T) {
	task := mountaincart.NewClimb(100, 0.5)

	below := mat.NewVecDense(6, []float64{0.7, 0.49, 0, 0, 0, 0})
	if task.AtGoal(below) {
		t.Error("height 0.49 should not be at goal height 0.5")
	}

	at := mat.NewVecDense(6, []float64{math.Sqrt(0.5), 0.5, 0, 0, 0, 0})
	if !task.AtGoal(at) {
		t.Error("height 0.5 should be at goal height 0.5")
	}
}

func TestClimbRewardBounds(t *testing.T) {
	task := mountaincart.NewClimb(100, mountaincart.GoalHeight)

	if task.Min() != 0 {
		t.Errorf("watermark rewards are non-negative, Min() = %v", task.Min())
	}
	if !math.IsInf(task.Max(), 1) {
		t.Errorf("watermark rewards are unbounded above, Max() = %v",
			task.Max())
	}
}

func TestClimbEnd(t *testing.T) {
	task := mountaincart.NewClimb(5, mountaincart.GoalHeight)

	mid := ts.New(ts.Mid, 0, 1, mat.NewVecDense(6, nil), 3)
	if task.End(&mid) {
		t.Error("episode should not end before the step limit")
	}

	atLimit := ts.New(ts.Mid, 0, 1, mat.NewVecDense(6, nil), 5)
	if !task.End(&atLimit) {
		t.Error("episode should end at the step limit")
	}
	if !atLimit.Last() || atLimit.EndType != ts.Timeout {
		t.Error("step limit should mark the timestep Last with Timeout")
	}
}
