// SPDX-License-Identifier: MIT

package spectral

import "errors"

var (
	// ErrNotPositiveSemidefinite indicates that no eigenvalue reached the
	// filtering tolerance, so the factor would be empty.
	ErrNotPositiveSemidefinite = errors.New("spectral: no eigenvalue above tolerance")

	// ErrInvalidRankReduction indicates a rank drop that the input cannot
	// support (delta ≥ dimension, negative delta, or target < 1 in strict mode).
	ErrInvalidRankReduction = errors.New("spectral: invalid rank reduction")
)
