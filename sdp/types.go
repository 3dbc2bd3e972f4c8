// SPDX-License-Identifier: MIT

// Package sdp defines the contract between the post-processing pipeline and
// a semidefinite-relaxation solver, together with a reference solver for the
// Lovász theta relaxation.
//
// A Problem owns a fixed feasible region. Solve optimises the problem's own
// objective; SolveLinear optimises trace(C·X) over the same region and is what
// the fixed-point refiner and the feasible-region sampler re-invoke.
package sdp

import (
	"context"
	"errors"

	"github.com/katalvlaran/stablesdp/matrix"
)

// ErrRelaxationSolveFailed marks a failed solve. Callers wrap the solver's
// cause with it and never retry.
var ErrRelaxationSolveFailed = errors.New("sdp: relaxation solve failed")

// Sense selects maximisation or minimisation.
type Sense int

const (
	// Maximize the linear objective.
	Maximize Sense = iota
	// Minimize the linear objective.
	Minimize
)

// String implements fmt.Stringer.
func (s Sense) String() string {
	if s == Minimize {
		return "minimize"
	}

	return "maximize"
}

// Solution is a solved matrix variable. Im is nil for real relaxations; for
// Hermitian ones X = Re + i·Im.
type Solution struct {
	Re    *matrix.Dense
	Im    *matrix.Dense
	Value float64 // value of the objective that was optimised
}

// IsComplex reports whether the solution carries an imaginary part.
func (s Solution) IsComplex() bool { return s.Im != nil }

// Complex returns Re + i·Im as a CDense.
func (s Solution) Complex() (*matrix.CDense, error) {
	return matrix.NewCDenseFromParts(s.Re, s.Im)
}

// Problem is a relaxation with a fixed feasible region.
type Problem interface {
	// Dim is the side of the matrix variable.
	Dim() int
	// Solve optimises the problem's own objective.
	Solve(ctx context.Context) (Solution, error)
	// SolveLinear optimises trace(C·X) over the same feasible region.
	SolveLinear(ctx context.Context, c *matrix.Dense, sense Sense) (Solution, error)
	// Objective evaluates the problem's own objective at sol.
	Objective(sol Solution) float64
}
