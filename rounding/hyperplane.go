// SPDX-License-Identifier: MIT

package rounding

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/stablesdp/matrix"
)

// CostFunc scores a real candidate; lower is better.
type CostFunc func(x []float64) float64

// ComplexCostFunc scores a complex candidate; lower is better.
type ComplexCostFunc func(x []complex128) float64

// Result is the outcome of a real hyperplane search.
type Result struct {
	Cost       float64   // +Inf when nothing was found
	Assignment []float64 // nil when nothing was found
	Found      bool
	Evaluated  int // candidates scored
}

// ComplexResult is the outcome of a complex hyperplane search.
type ComplexResult struct {
	Cost       float64
	Assignment []complex128
	Found      bool
	Evaluated  int
}

// incumbent tracks the best score and the stall counter of a search.
type incumbent struct {
	cost       float64
	stall      int
	stallAfter int
	evaluated  int
}

func newIncumbent(stallAfter int) *incumbent {
	return &incumbent{cost: math.Inf(1), stallAfter: stallAfter}
}

// offer records a score and reports whether it strictly improved.
func (in *incumbent) offer(c float64) bool {
	in.evaluated++
	if c < in.cost {
		in.cost, in.stall = c, 0
		return true
	}
	in.stall++

	return false
}

func (in *incumbent) stalled() bool {
	return in.stallAfter > 0 && in.stall >= in.stallAfter
}

func validate(o Options, rows int, hasCost bool) error {
	if !hasCost {
		return ErrNilCost
	}
	if o.Iterations < 0 {
		return fmt.Errorf("rounding: %d: %w", o.Iterations, ErrInvalidIterations)
	}

	return checkPair(o.MinRadius, o.MaxRadius, rows)
}

func normalDirection(rng *rand.Rand, d int) []float64 {
	r := make([]float64, d)
	for i := range r {
		r[i] = rng.NormFloat64()
	}

	return r
}

// complexDirection draws a circular complex normal with unit variance:
// real and imaginary parts are independent N(0, 1/2).
func complexDirection(rng *rand.Rand, d int) []complex128 {
	r := make([]complex128, d)
	for i := range r {
		re := rng.NormFloat64() / math.Sqrt2
		im := rng.NormFloat64() / math.Sqrt2
		r[i] = complex(re, im)
	}

	return r
}

func signs(v []float64) []float64 {
	for i, x := range v {
		if x < 0 {
			v[i] = -1
		} else {
			v[i] = 1
		}
	}

	return v
}

// Hyperplane searches for the lowest-cost rounding of y (n×d) over
// Options.Iterations random directions.
//
// Errors: ErrNilCost, ErrInvalidIterations, ErrDimensionMismatch,
// ErrInvalidRadius, matrix.ErrNilMatrix.
func Hyperplane(y *matrix.Dense, cost CostFunc, opts ...Option) (Result, error) {
	if y == nil {
		return Result{}, fmt.Errorf("Hyperplane: %w", matrix.ErrNilMatrix)
	}
	o := buildOptions(opts)
	if err := validate(o, y.Rows(), cost != nil); err != nil {
		return Result{}, fmt.Errorf("Hyperplane: %w", err)
	}
	rng := o.rng()
	sphere := o.unitSphere()
	in := newIncumbent(o.StallAfter)

	var best []float64
	for k := 0; k < o.Iterations; k++ {
		x, err := matrix.MatVec(y, normalDirection(rng, y.Cols()))
		if err != nil {
			return Result{}, fmt.Errorf("Hyperplane: %w", err)
		}
		if sphere {
			x = signs(x)
		} else if x, err = ProjectScalars(x, o.MinRadius, o.MaxRadius); err != nil {
			return Result{}, fmt.Errorf("Hyperplane: %w", err)
		}
		if in.offer(cost(x)) {
			best = x
		} else if in.stalled() {
			break
		}
	}

	return Result{Cost: in.cost, Assignment: best, Found: best != nil, Evaluated: in.evaluated}, nil
}

// HyperplaneComplex is Hyperplane for a complex factor. On the unit sphere
// every entry of Y·r is divided by its modulus (zero maps to 1).
func HyperplaneComplex(y *matrix.CDense, cost ComplexCostFunc, opts ...Option) (ComplexResult, error) {
	if y == nil {
		return ComplexResult{}, fmt.Errorf("HyperplaneComplex: %w", matrix.ErrNilMatrix)
	}
	o := buildOptions(opts)
	if err := validate(o, y.Rows(), cost != nil); err != nil {
		return ComplexResult{}, fmt.Errorf("HyperplaneComplex: %w", err)
	}
	rng := o.rng()
	sphere := o.unitSphere()
	in := newIncumbent(o.StallAfter)

	var best []complex128
	for k := 0; k < o.Iterations; k++ {
		x, err := matrix.CMatVec(y, complexDirection(rng, y.Cols()))
		if err != nil {
			return ComplexResult{}, fmt.Errorf("HyperplaneComplex: %w", err)
		}
		if sphere {
			x, _ = ProjectComplexScalars(x, Uniform(1), Uniform(1))
		} else if x, err = ProjectComplexScalars(x, o.MinRadius, o.MaxRadius); err != nil {
			return ComplexResult{}, fmt.Errorf("HyperplaneComplex: %w", err)
		}
		if in.offer(cost(x)) {
			best = x
		} else if in.stalled() {
			break
		}
	}

	return ComplexResult{Cost: in.cost, Assignment: best, Found: best != nil, Evaluated: in.evaluated}, nil
}
