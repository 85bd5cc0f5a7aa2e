// Package cartsim implements a cart constrained to the curved track
// y = x². The cart is driven along the track by a bounded horizontal
// actuation force and is otherwise subject only to gravity. Time is
// advanced with a leapfrog (velocity-Verlet) scheme: each outer step
// of length dt is integrated as dt/subDt substeps, and after every
// position update the track constraint is re-enforced by recomputing
// y from x.
//
// A Cart exposes the four-operation protocol its callers drive it
// through: Reset to start an episode, Advance to apply one action for
// one outer step, State to observe, and Reward to collect the height
// watermark reward. Per-episode histories of actions, positions,
// velocities, accelerations and gravity forces are recorded for
// offline analysis.
//
// A Cart owns its own pseudo-random source, so concurrent episodes
// simply use one Cart per goroutine with no cross-instance state.
package cartsim

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"
)

// startNoise bounds the uniform perturbation applied to each state
// feature at the beginning of an episode
const startNoise float64 = 0.05

// Cart simulates a cart on the track y = x²
type Cart struct {
	config   Config
	substeps int

	state   State
	force   float64 // Applied force, clamped to ±MaxForce
	time    float64 // Elapsed simulation time this episode
	step    int     // Completed outer steps this episode
	highest float64 // Height watermark for the reward protocol

	// Per-episode histories, indexed by outer step. Write-once logs
	// for offline analysis; the dynamics never read them.
	actions       []float64
	gravityForces []float64
	positions     []r2.Vec
	velocities    []r2.Vec
	accelerations []r2.Vec
}

// New returns a new Cart with the physical parameters described by
// config. The returned Cart must be Reset before it is advanced.
func New(config Config) (*Cart, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: invalid configuration: %v", err)
	}
	substeps, err := config.substeps()
	if err != nil {
		return nil, fmt.Errorf("new: invalid configuration: %v", err)
	}

	return &Cart{config: config, substeps: substeps}, nil
}

// Config returns the fixed physical parameters of the simulation
func (c *Cart) Config() Config {
	return c.config
}

// Reset starts a new episode. The pseudo-random source is re-seeded
// from seed, so a fixed seed followed by a fixed action sequence
// produces a reproducible trajectory. The starting state is drawn from
// independent uniform noise in [-0.05, 0.05], after which the position
// is snapped onto the track and the acceleration is replaced by the
// gravity projection consistent with the track slope at the drawn x.
func (c *Cart) Reset(seed uint64) {
	src := rand.NewSource(seed)
	noise := distuv.Uniform{Min: -startNoise, Max: startNoise, Src: src}

	c.step = 0
	c.time = 0
	c.force = 0
	c.highest = 0

	c.actions = make([]float64, c.config.MaxSteps)
	c.gravityForces = make([]float64, c.config.MaxSteps)
	c.positions = make([]r2.Vec, c.config.MaxSteps)
	c.velocities = make([]r2.Vec, c.config.MaxSteps)
	c.accelerations = make([]r2.Vec, c.config.MaxSteps)

	c.state = State{
		X:  noise.Rand(),
		Y:  noise.Rand(),
		VX: noise.Rand(),
		VY: noise.Rand(),
		AX: noise.Rand(),
		AY: noise.Rand(),
	}

	// Constrain the drawn state to the track and replace the noise
	// acceleration with the gravity projection at the drawn position
	c.state.Y = c.state.X * c.state.X
	c.state.AX, c.state.AY = c.gravityProjection(c.state.X)
}

// Advance applies one action for one outer step of dt seconds,
// integrating dt/subDt leapfrog substeps. The action must have exactly
// one element, the horizontal force, which is clamped to
// [-MaxForce, MaxForce] before use. Advance reports whether the
// episode has ended; the simulation itself defines no failure state,
// so the flag is false unless a variant overrides the episode-over
// hook.
func (c *Cart) Advance(action []float64) (bool, error) {
	if len(action) != 1 {
		return false, fmt.Errorf("advance: action must have exactly 1 "+
			"dimension, got %v", len(action))
	}
	if c.step >= c.config.MaxSteps {
		return false, fmt.Errorf("advance: episode exceeded the %v step "+
			"horizon; Reset the cart", c.config.MaxSteps)
	}

	c.force = clamp(action[0], -c.config.MaxForce, c.config.MaxForce)

	ddt := c.config.SubDt
	for i := 0; i < c.substeps; i++ {
		// Kick-drift: advance position with the acceleration at the
		// current position, then snap back onto the track
		ax, ay := c.resultantAcceleration(c.state.X)
		c.state.X += c.state.VX*ddt + 0.5*ax*ddt*ddt
		c.state.Y = c.state.X * c.state.X

		// First half of the velocity update with the old acceleration
		c.state.VX += 0.5 * ax * ddt
		c.state.VY += 0.5 * ay * ddt

		// Second kick with the acceleration at the new position
		ax, ay = c.resultantAcceleration(c.state.X)
		c.state.AX, c.state.AY = ax, ay
		c.state.VX += 0.5 * ax * ddt
		c.state.VY += 0.5 * ay * ddt

		if err := checkAccelerationSigns(c.state); err != nil {
			return false, fmt.Errorf("advance: substep %v: %w", i, err)
		}

		c.time += ddt
	}

	c.actions[c.step] = c.force
	c.gravityForces[c.step] = -c.config.Mass * c.config.Gravity
	c.positions[c.step] = r2.Vec{X: c.state.X, Y: c.state.Y}
	c.velocities[c.step] = r2.Vec{X: c.state.VX, Y: c.state.VY}
	c.accelerations[c.step] = r2.Vec{X: c.state.AX, Y: c.state.AY}
	c.step++

	return c.isOver(), nil
}

// isOver is the episode-over hook. The cart-on-curve track has no
// failure states, so the base simulation never ends episodes on its
// own; variants with track boundaries override this behaviour.
func (c *Cart) isOver() bool {
	return c.isFailed()
}

func (c *Cart) isFailed() bool {
	return false
}

// State returns a snapshot of the current physical state. The snapshot
// is an independent copy.
func (c *Cart) State() State {
	return c.state
}

// Reward returns the increase in the episode's height watermark: if
// the cart is currently higher than it has ever been this episode, the
// watermark is raised to the current height and returned. Otherwise
// the reward is 0. Calling Reward twice without an intervening Advance
// therefore returns 0 the second time.
func (c *Cart) Reward() float64 {
	if c.state.Y > c.highest {
		c.highest = c.state.Y
		return c.highest
	}
	return 0
}

// Force returns the force applied on the most recent outer step
func (c *Cart) Force() float64 {
	return c.force
}

// Time returns the elapsed simulation time this episode
func (c *Cart) Time() float64 {
	return c.time
}

// Step returns the number of completed outer steps this episode
func (c *Cart) Step() int {
	return c.step
}

// Actions returns the history of applied (post-clamp) forces, one per
// completed outer step
func (c *Cart) Actions() []float64 {
	return append([]float64(nil), c.actions[:c.step]...)
}

// GravityForces returns the history of vertical gravity forces, one
// per completed outer step
func (c *Cart) GravityForces() []float64 {
	return append([]float64(nil), c.gravityForces[:c.step]...)
}

// Positions returns the position history, one entry per completed
// outer step
func (c *Cart) Positions() []r2.Vec {
	return append([]r2.Vec(nil), c.positions[:c.step]...)
}

// Velocities returns the velocity history, one entry per completed
// outer step
func (c *Cart) Velocities() []r2.Vec {
	return append([]r2.Vec(nil), c.velocities[:c.step]...)
}

// Accelerations returns the acceleration history, one entry per
// completed outer step
func (c *Cart) Accelerations() []r2.Vec {
	return append([]r2.Vec(nil), c.accelerations[:c.step]...)
}

// resultantAcceleration computes the acceleration of the cart at
// horizontal position x under the currently applied force. The applied
// force acts along the track tangent and gravity acts straight down;
// the component of their sum normal to the track is cancelled by the
// constraint, leaving the tangential resultant.
func (c *Cart) resultantAcceleration(x float64) (ax, ay float64) {
	slope := 2 * x // d/dx x²
	theta := math.Atan(slope)

	// Total force: actuation along the tangent plus gravity
	fx := c.force * math.Cos(theta)
	fy := c.force*math.Sin(theta) - c.config.Mass*c.config.Gravity

	// Remove the component along the track's unit normal
	norm := math.Hypot(-slope, 1)
	nx, ny := -slope/norm, 1/norm
	fDotN := fx*nx + fy*ny
	fresX := fx - fDotN*nx
	fresY := fy - fDotN*ny

	return fresX / c.config.Mass, fresY / c.config.Mass
}

// gravityProjection computes the acceleration due to gravity alone
// projected along the track tangent at horizontal position x. Used to
// initialise the acceleration consistently with the track geometry at
// the start of an episode.
func (c *Cart) gravityProjection(x float64) (ax, ay float64) {
	slope := 2 * x
	theta := math.Atan(slope)

	fg := -math.Sin(theta) * c.config.Mass * c.config.Gravity
	fxg := math.Cos(theta) * fg
	fyg := math.Sin(theta) * fg

	return fxg / c.config.Mass, fyg / c.config.Mass
}

// checkAccelerationSigns verifies that the acceleration components are
// sign-consistent with the track curvature: to the right of the origin
// the track rises, so the tangential acceleration components must
// share a sign; to the left they must oppose. A violation indicates a
// numerical or geometric inconsistency in the force decomposition and
// is never expected under correct arithmetic.
func checkAccelerationSigns(s State) error {
	product := s.AX * s.AY
	if s.X > 0 && product <= 0 {
		return fmt.Errorf("acceleration signs inconsistent with track "+
			"curvature: x=%v > 0 requires ax·ay > 0, got ax=%v, ay=%v",
			s.X, s.AX, s.AY)
	}
	if s.X <= 0 && product >= 0 {
		return fmt.Errorf("acceleration signs inconsistent with track "+
			"curvature: x=%v ≤ 0 requires ax·ay < 0, got ax=%v, ay=%v",
			s.X, s.AX, s.AY)
	}
	return nil
}

// clamp clips value into [min, max]
func clamp(value, min, max float64) float64 {
	return math.Max(math.Min(value, max), min)
}
