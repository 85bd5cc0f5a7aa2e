package cartsim

import (
	"math"
	"testing"
)

const tolerance float64 = 1e-12

// testConfig returns a small configuration so tests that need full
// episodes stay fast
func testConfig() Config {
	c := DefaultConfig()
	c.MaxSteps = 25
	return c
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	// Gravity must dominate the maximum actuation acceleration
	c := DefaultConfig()
	c.Gravity = 0.5
	c.MaxForce = 1.0
	c.Mass = 1.0
	if _, err := New(c); err == nil {
		t.Error("expected error when gravity <= maxForce/mass")
	}

	// The outer step must divide evenly into substeps
	c = DefaultConfig()
	c.Dt = 0.1
	c.SubDt = 0.0003
	if _, err := New(c); err == nil {
		t.Error("expected error when dt is not a multiple of subDt")
	}

	c = DefaultConfig()
	c.Mass = -1.0
	if _, err := New(c); err == nil {
		t.Error("expected error for non-positive mass")
	}

	c = DefaultConfig()
	c.MaxSteps = 0
	if _, err := New(c); err == nil {
		t.Error("expected error for non-positive step horizon")
	}

	if _, err := New(DefaultConfig()); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestResetStartsOnTrack(t *testing.T) {
	cart, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}

	for seed := uint64(0); seed < 10; seed++ {
		cart.Reset(seed)
		s := cart.State()

		if s.Y != s.X*s.X {
			t.Errorf("seed %v: start state off track: y=%v, x²=%v",
				seed, s.Y, s.X*s.X)
		}
		if math.Abs(s.X) > startNoise {
			t.Errorf("seed %v: start x=%v outside ±%v", seed, s.X, startNoise)
		}
		if cart.Step() != 0 || cart.Time() != 0 || cart.Force() != 0 {
			t.Errorf("seed %v: reset did not clear episode state", seed)
		}
	}
}

func TestTrackConstraint(t *testing.T) {
	cart, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(42)

	actions := []float64{0.5, -0.5, 1.0, -1.0, 0.0, 0.3, -0.8}
	for i, a := range actions {
		if _, err := cart.Advance([]float64{a}); err != nil {
			t.Fatalf("step %v: %v", i, err)
		}
		s := cart.State()
		if math.Abs(s.Y-s.X*s.X) > tolerance {
			t.Errorf("step %v: cart off track: y=%v, x²=%v", i, s.Y, s.X*s.X)
		}
	}
}

func TestForceClamp(t *testing.T) {
	cart, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(13)

	maxForce := cart.Config().MaxForce
	inputs := []float64{-10.0, -1.5, -0.2, 0.0, 0.7, 3.0, math.Inf(1)}
	for _, in := range inputs {
		if _, err := cart.Advance([]float64{in}); err != nil {
			t.Fatalf("action %v: %v", in, err)
		}

		expected := math.Max(math.Min(in, maxForce), -maxForce)
		if cart.Force() != expected {
			t.Errorf("action %v: applied force %v, expected %v", in,
				cart.Force(), expected)
		}
		if math.Abs(cart.Force()) > maxForce {
			t.Errorf("action %v: |force| %v exceeds bound %v", in,
				cart.Force(), maxForce)
		}
	}
}

func TestActionArity(t *testing.T) {
	cart, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(0)

	if _, err := cart.Advance(nil); err == nil {
		t.Error("expected error for empty action")
	}
	if _, err := cart.Advance([]float64{1.0, 2.0}); err == nil {
		t.Error("expected error for 2-dimensional action")
	}

	// Errors must not corrupt the episode
	if cart.Step() != 0 {
		t.Errorf("rejected actions advanced the step counter to %v",
			cart.Step())
	}
	if _, err := cart.Advance([]float64{0.5}); err != nil {
		t.Errorf("legal action after rejected actions: %v", err)
	}
}

func TestDeterminism(t *testing.T) {
	newCart := func() *Cart {
		cart, err := New(testConfig())
		if err != nil {
			t.Fatal(err)
		}
		return cart
	}

	a, b := newCart(), newCart()
	a.Reset(1234)
	b.Reset(1234)

	if a.State() != b.State() {
		t.Fatalf("same seed produced different start states: %v vs %v",
			a.State(), b.State())
	}

	for i := 0; i < 20; i++ {
		action := []float64{math.Sin(float64(i))}
		if _, err := a.Advance(action); err != nil {
			t.Fatal(err)
		}
		if _, err := b.Advance(action); err != nil {
			t.Fatal(err)
		}
		if a.State() != b.State() {
			t.Fatalf("trajectories diverged at step %v: %v vs %v", i,
				a.State(), b.State())
		}
	}

	// Different seeds should give different start states
	b.Reset(4321)
	a.Reset(1234)
	if a.State() == b.State() {
		t.Error("different seeds produced identical start states")
	}
}

func TestRewardWatermark(t *testing.T) {
	cart, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(7)

	// The start height is already above the zeroed watermark whenever
	// x != 0
	first := cart.Reward()
	if first != cart.State().Y {
		t.Errorf("first reward %v should equal start height %v", first,
			cart.State().Y)
	}
	if second := cart.Reward(); second != 0 {
		t.Errorf("repeated reward call returned %v, expected 0", second)
	}

	highest := cart.State().Y
	for i := 0; i < 20; i++ {
		if _, err := cart.Advance([]float64{-1.0}); err != nil {
			t.Fatal(err)
		}

		r := cart.Reward()
		if r < 0 {
			t.Errorf("step %v: negative reward %v", i, r)
		}

		y := cart.State().Y
		if y > highest {
			if r != y {
				t.Errorf("step %v: new watermark %v but reward %v", i, y, r)
			}
			highest = y
		} else if r != 0 {
			t.Errorf("step %v: reward %v for height %v below watermark %v",
				i, r, y, highest)
		}
	}
}

func TestStepBound(t *testing.T) {
	config := testConfig()
	cart, err := New(config)
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(99)

	for i := 0; i < config.MaxSteps; i++ {
		done, err := cart.Advance([]float64{0.5})
		if err != nil {
			t.Fatalf("step %v: %v", i, err)
		}
		if done {
			t.Errorf("step %v: episode ended, but no failure state exists", i)
		}
	}

	if cart.Step() != config.MaxSteps {
		t.Errorf("step counter %v after %v steps", cart.Step(),
			config.MaxSteps)
	}
	if n := len(cart.Actions()); n != config.MaxSteps {
		t.Errorf("action history has %v entries, expected %v", n,
			config.MaxSteps)
	}
	if n := len(cart.Positions()); n != config.MaxSteps {
		t.Errorf("position history has %v entries, expected %v", n,
			config.MaxSteps)
	}

	// Stepping past the horizon is a caller contract violation
	if _, err := cart.Advance([]float64{0.0}); err == nil {
		t.Error("expected error when advancing past the step horizon")
	}

	// A reset clears the horizon
	cart.Reset(99)
	if _, err := cart.Advance([]float64{0.0}); err != nil {
		t.Errorf("advance after reset: %v", err)
	}
}

func TestHistoriesAreCopies(t *testing.T) {
	cart, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(3)
	if _, err := cart.Advance([]float64{0.25}); err != nil {
		t.Fatal(err)
	}

	actions := cart.Actions()
	actions[0] = 123.0
	if cart.Actions()[0] == 123.0 {
		t.Error("mutating the returned action history changed the cart")
	}

	positions := cart.Positions()
	positions[0].X = 123.0
	if cart.Positions()[0].X == 123.0 {
		t.Error("mutating the returned position history changed the cart")
	}
}

func TestEndToEnd(t *testing.T) {
	cart, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(0xC0FF33)

	sum := 0.0
	for i := 0; i < DefaultMaxSteps; i++ {
		done, err := cart.Advance([]float64{-10.0})
		if err != nil {
			t.Fatalf("step %v: %v", i, err)
		}
		if done {
			t.Fatalf("step %v: episode ended unexpectedly", i)
		}

		if cart.Force() != -DefaultMaxForce {
			t.Fatalf("step %v: force %v, expected clamp to %v", i,
				cart.Force(), -DefaultMaxForce)
		}

		sum += cart.Reward()
	}

	if cart.Step() != DefaultMaxSteps {
		t.Errorf("step counter %v after full episode", cart.Step())
	}
	if sum < 0 {
		t.Errorf("sum of watermark rewards %v must be non-negative", sum)
	}
}

func TestZeroForceAccelerationIsGravityProjection(t *testing.T) {
	cart, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(5)

	if _, err := cart.Advance([]float64{0.0}); err != nil {
		t.Fatal(err)
	}

	// With no actuation, the acceleration must equal gravity projected
	// along the track tangent at the final position
	s := cart.State()
	theta := math.Atan(2 * s.X)
	g := cart.Config().Gravity
	wantAX := -g * math.Sin(theta) * math.Cos(theta)
	wantAY := -g * math.Sin(theta) * math.Sin(theta)

	if math.Abs(s.AX-wantAX) > 1e-9 {
		t.Errorf("ax = %v, expected gravity projection %v", s.AX, wantAX)
	}
	if math.Abs(s.AY-wantAY) > 1e-9 {
		t.Errorf("ay = %v, expected gravity projection %v", s.AY, wantAY)
	}
}

func TestStateVectorIsCopy(t *testing.T) {
	cart, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	cart.Reset(11)

	v := cart.State().Vector()
	if v.Len() != StateDims {
		t.Fatalf("state vector has %v dimensions, expected %v", v.Len(),
			StateDims)
	}

	v.SetVec(0, 1e6)
	if cart.State().X == 1e6 {
		t.Error("mutating the state vector changed the cart")
	}
	if cart.State().Vector().AtVec(0) == 1e6 {
		t.Error("state vector is not an independent copy")
	}
}
