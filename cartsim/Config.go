package cartsim

import "fmt"

// Default physical constants for the cart-on-curve simulation
const (
	DefaultDt       float64 = 0.1   // Outer timestep (s)
	DefaultSubDt    float64 = 0.001 // Integration substep (s)
	DefaultMass     float64 = 1.0
	DefaultGravity  float64 = 9.81
	DefaultFriction float64 = 0.1
	DefaultMaxForce float64 = 1.0
	DefaultMaxSteps int     = 1000
)

// subDtTolerance is the tolerance within which Dt must be an integer
// multiple of SubDt
const subDtTolerance float64 = 1e-9

// Config describes the fixed physical parameters of a cart-on-curve
// simulation. A Config is immutable once a Cart has been created from
// it.
//
// Friction is carried for completeness but does not enter the force
// computation.
type Config struct {
	Dt       float64 `yaml:"dt"`        // Outer timestep (s)
	SubDt    float64 `yaml:"sub_dt"`    // Integration substep (s)
	Mass     float64 `yaml:"mass"`      // Cart mass (kg)
	Gravity  float64 `yaml:"gravity"`   // Gravitational acceleration (m/s²)
	Friction float64 `yaml:"friction"`  // Friction coefficient, unused
	MaxForce float64 `yaml:"max_force"` // Bound on the applied force (N)
	MaxSteps int     `yaml:"max_steps"` // Episode horizon in outer steps
}

// DefaultConfig returns the default simulation configuration
func DefaultConfig() Config {
	return Config{
		Dt:       DefaultDt,
		SubDt:    DefaultSubDt,
		Mass:     DefaultMass,
		Gravity:  DefaultGravity,
		Friction: DefaultFriction,
		MaxForce: DefaultMaxForce,
		MaxSteps: DefaultMaxSteps,
	}
}

// Validate checks that the Config describes a legal physical
// configuration, returning an error describing the first violation
// found.
func (c Config) Validate() error {
	if c.Dt <= 0 || c.SubDt <= 0 {
		return fmt.Errorf("timesteps must be positive: dt=%v, subDt=%v",
			c.Dt, c.SubDt)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("mass must be positive: %v", c.Mass)
	}
	if c.MaxForce < 0 {
		return fmt.Errorf("max force must be non-negative: %v", c.MaxForce)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive: %v", c.MaxSteps)
	}

	// The outer timestep must cleanly divide into substeps
	if _, err := c.substeps(); err != nil {
		return err
	}

	// If the applied force could exceed the cart's weight, the cart
	// could be driven up arbitrarily steep track, which the force
	// decomposition does not support
	if c.Gravity <= c.MaxForce/c.Mass {
		return fmt.Errorf("gravity %v must exceed maxForce/mass = %v",
			c.Gravity, c.MaxForce/c.Mass)
	}

	return nil
}

// substeps returns the number of integration substeps per outer step,
// or an error if Dt is not an integer multiple of SubDt.
func (c Config) substeps() (int, error) {
	n := int(c.Dt/c.SubDt + 0.5)
	if n < 1 || absFloat(c.Dt-float64(n)*c.SubDt) > subDtTolerance {
		return 0, fmt.Errorf("dt (%v) must be an integer multiple of "+
			"subDt (%v)", c.Dt, c.SubDt)
	}
	return n, nil
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
