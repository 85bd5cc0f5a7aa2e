// Package mountaincart implements the cart-on-curve classic control
// environment. A cart sits in the valley of the track y = x² and is
// driven by a bounded horizontal force. The force is too weak to climb
// the track directly, so height must be gained by rocking the cart
// back and forth and spending momentum.
//
// The heavy lifting is done by the cartsim package; this package
// translates cartsim's reset/advance/state/reward protocol into the
// environment.Environment interface, the same way the framework wraps
// any external simulation library.
//
// State observations are continuous and 6-dimensional: the cart's
// position (x, y), velocity (vx, vy), and acceleration (ax, ay). The
// cart is constrained to the track, so y is always x².
//
// Actions are 1-dimensional and continuous: the horizontal force to
// apply to the cart. Actions outside [-MaxForce, MaxForce] are clipped
// to stay within that range.
package mountaincart

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gocart-rl/gocart/cartsim"
	env "github.com/gocart-rl/gocart/environment"
	ts "github.com/gocart-rl/gocart/timestep"
)

const (
	ActionDims      int = 1
	ObservationDims int = cartsim.StateDims
)

// MountainCart wraps a cartsim.Cart as an environment.Environment
type MountainCart struct {
	env.Task
	cart     *cartsim.Cart
	discount float64

	// Episode seeds are drawn sequentially from the construction seed
	// so that runs are reproducible episode by episode
	seed     uint64
	episodes uint64

	currentStep ts.TimeStep
}

// New creates a new MountainCart environment with the argument task
// and simulation parameters. The returned environment starts ready to
// use, with its first timestep returned alongside it.
func New(t env.Task, config cartsim.Config, discount float64,
	seed uint64) (env.Environment, ts.TimeStep, error) {
	cart, err := cartsim.New(config)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newMountainCart: %v", err)
	}

	mountainCart := &MountainCart{
		Task:     t,
		cart:     cart,
		discount: discount,
		seed:     seed,
	}

	// The Climb task computes rewards through the simulator's
	// watermark protocol and so needs access to the simulator
	if climb, ok := t.(*Climb); ok {
		climb.register(cart)
	}

	firstStep, err := mountainCart.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newMountainCart: %v", err)
	}

	return mountainCart, firstStep, nil
}

// Reset resets the environment and returns a starting timestep. Each
// episode re-seeds the simulator with the next seed in the
// environment's seed sequence.
func (m *MountainCart) Reset() (ts.TimeStep, error) {
	m.cart.Reset(m.seed + m.episodes)
	m.episodes++

	firstStep := ts.New(ts.First, 0, m.discount, m.cart.State().Vector(), 0)
	m.currentStep = firstStep

	return firstStep, nil
}

// Step takes one environmental step given action a and returns the
// next timestep and a bool indicating whether or not the episode has
// ended. Actions are 1-dimensional, consisting of the horizontal force
// to apply to the cart; actions outside [-MaxForce, MaxForce] are
// clipped by the simulator.
func (m *MountainCart) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if a.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional, got %v dimensions", ActionDims, a.Len())
	}

	if _, err := m.cart.Advance([]float64{a.AtVec(0)}); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}

	obs := m.cart.State().Vector()
	reward := m.GetReward(m.currentStep.Observation, a, obs)
	nextStep := ts.New(ts.Mid, reward, m.discount, obs,
		m.currentStep.Number+1)

	m.End(&nextStep)

	m.currentStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// CurrentTimeStep returns the current timestep of the environment
func (m *MountainCart) CurrentTimeStep() ts.TimeStep {
	return m.currentStep
}

// Simulator returns the underlying cart simulation. Useful for reading
// the per-episode history buffers for offline analysis; the simulator
// should not be advanced directly while the environment is in use.
func (m *MountainCart) Simulator() *cartsim.Cart {
	return m.cart
}

// ObservationSpec returns the observation specification of the
// environment
func (m *MountainCart) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	low := make([]float64, ObservationDims)
	high := make([]float64, ObservationDims)
	for i := range low {
		low[i] = math.Inf(-1)
		high[i] = math.Inf(1)
	}
	lowerBound := mat.NewVecDense(ObservationDims, low)
	upperBound := mat.NewVecDense(ObservationDims, high)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// ActionSpec returns the action specification of the environment
func (m *MountainCart) ActionSpec() env.Spec {
	maxForce := m.cart.Config().MaxForce

	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{-maxForce})
	upperBound := mat.NewVecDense(ActionDims, []float64{maxForce})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (m *MountainCart) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{m.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// String returns a string representation of the environment
func (m *MountainCart) String() string {
	str := "Mountain Cart  |  Position: (%.4f, %.4f)  |  " +
		"Velocity: (%.4f, %.4f)"
	state := m.cart.State()
	return fmt.Sprintf(str, state.X, state.Y, state.VX, state.VY)
}
