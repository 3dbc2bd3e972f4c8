// SPDX-License-Identifier: MIT

package refine

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/stablesdp/matrix"
)

const (
	// DefaultTolerance is the convergence threshold on ‖X_k − X_{k−1}‖.
	DefaultTolerance = 1e-4
	// DefaultMaxIterations caps the number of re-solves.
	DefaultMaxIterations = 1000
)

// ErrInvalidConfig indicates a rejected Config.
var ErrInvalidConfig = errors.New("refine: invalid config")

// Norm selects the matrix norm of the convergence test.
type Norm int

const (
	// Frobenius is sqrt(Σ|x_ij|²).
	Frobenius Norm = iota
	// Spectral is the largest eigenvalue magnitude of the (Hermitian) difference.
	Spectral
)

// String implements fmt.Stringer.
func (n Norm) String() string {
	switch n {
	case Frobenius:
		return "frobenius"
	case Spectral:
		return "spectral"
	default:
		return fmt.Sprintf("Norm(%d)", int(n))
	}
}

// ParseNorm maps "frobenius" / "spectral" to a Norm.
func ParseNorm(s string) (Norm, error) {
	switch s {
	case "", "frobenius":
		return Frobenius, nil
	case "spectral":
		return Spectral, nil
	default:
		return 0, fmt.Errorf("norm %q: %w", s, ErrInvalidConfig)
	}
}

// Config is the termination policy of the fixed-point iteration.
type Config struct {
	// MaxIterations caps the re-solves (0 ⇒ DefaultMaxIterations).
	MaxIterations int
	// Tolerance is the convergence threshold (0 ⇒ DefaultTolerance).
	Tolerance float64
	// Norm of the convergence test.
	Norm Norm
	// StallAfter stops the run after this many consecutive iterations whose
	// delta does not improve on the best delta seen (0 disables).
	StallAfter int
	// ReturnPath keeps every intermediate solution in Result.Path.
	ReturnPath bool
	// Verbose logs the spectrum of intermediate steps at Info instead of Debug.
	Verbose bool
	// Shift is added to the previous solution in the objective (nil ⇒ 0).
	Shift *matrix.Dense
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{MaxIterations: DefaultMaxIterations, Tolerance: DefaultTolerance, Norm: Frobenius}
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}

	return c
}

// Validate rejects negative limits and unknown norms.
func (c Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("max iterations %d: %w", c.MaxIterations, ErrInvalidConfig)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance %g: %w", c.Tolerance, ErrInvalidConfig)
	}
	if c.StallAfter < 0 {
		return fmt.Errorf("stall after %d: %w", c.StallAfter, ErrInvalidConfig)
	}
	if c.Norm != Frobenius && c.Norm != Spectral {
		return fmt.Errorf("%s: %w", c.Norm, ErrInvalidConfig)
	}
	if c.Shift != nil {
		if err := matrix.ValidateSquare(c.Shift); err != nil {
			return fmt.Errorf("shift: %w", err)
		}
	}

	return nil
}
