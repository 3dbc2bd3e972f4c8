// SPDX-License-Identifier: MIT

package rounding

import (
	"errors"

	"github.com/katalvlaran/stablesdp/matrix"
)

var (
	// ErrDimensionMismatch indicates a per-row radius vector whose length
	// differs from the number of rows.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrInvalidRadius indicates a negative radius or min > max.
	ErrInvalidRadius = errors.New("rounding: invalid annulus radius")

	// ErrNilCost indicates a nil cost function.
	ErrNilCost = errors.New("rounding: nil cost function")

	// ErrInvalidIterations indicates a negative iteration count.
	ErrInvalidIterations = errors.New("rounding: negative iteration count")
)
