// SPDX-License-Identifier: MIT

// Package elliptope reduces the rank of a factorised solution X = Y·Yᴴ while
// keeping it on the elliptope (unit diagonal): the top eigenpairs of X form a
// thinner factor whose rows are then renormalised onto the unit sphere.
package elliptope

import (
	"fmt"
	"math"

	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/spectral"
)

// ErrInvalidRankReduction is returned when Y has no more rows than deltaRank.
var ErrInvalidRankReduction = spectral.ErrInvalidRankReduction

func checkDelta(rows, deltaRank int) error {
	if deltaRank < 0 || rows <= deltaRank {
		return fmt.Errorf("elliptope: rows=%d delta=%d: %w", rows, deltaRank, ErrInvalidRankReduction)
	}

	return nil
}

func sqrtClamped(v float64) float64 { return math.Sqrt(math.Max(v, 0)) }

// Project returns a factor of rank rank(Y·Yᵀ)−deltaRank with unit-norm rows.
// If that target is below 1, y itself is returned with its current rank.
//
// Complexity: O(n^2 d) for the Gram product plus one n×n Jacobi solve.
func Project(y *matrix.Dense, deltaRank int) (*matrix.Dense, int, error) {
	if y == nil {
		return nil, 0, fmt.Errorf("elliptope: %w", matrix.ErrNilMatrix)
	}
	if err := checkDelta(y.Rows(), deltaRank); err != nil {
		return nil, 0, err
	}
	x, err := matrix.Gram(y)
	if err != nil {
		return nil, 0, fmt.Errorf("elliptope: %w", err)
	}
	d, err := spectral.SortedEigen(x)
	if err != nil {
		return nil, 0, fmt.Errorf("elliptope: %w", err)
	}
	rank := spectral.NumericRank(d.Values)
	target := rank - deltaRank
	if target < 1 {
		return y, rank, nil
	}

	n := y.Rows()
	f, _ := matrix.NewDense(n, target)
	for k := 0; k < target; k++ {
		s := sqrtClamped(d.Values[k])
		for i := 0; i < n; i++ {
			v, _ := d.Vectors.At(i, k)
			_ = f.Set(i, k, v*s)
		}
	}
	out, err := matrix.NormalizeRows(f)
	if err != nil {
		return nil, 0, fmt.Errorf("elliptope: %w", err)
	}

	return out, target, nil
}

// ProjectComplex is Project for a complex factor (X = Y·Yᴴ).
func ProjectComplex(y *matrix.CDense, deltaRank int) (*matrix.CDense, int, error) {
	if y == nil {
		return nil, 0, fmt.Errorf("elliptope: %w", matrix.ErrNilMatrix)
	}
	if err := checkDelta(y.Rows(), deltaRank); err != nil {
		return nil, 0, err
	}
	x, err := matrix.CGram(y)
	if err != nil {
		return nil, 0, fmt.Errorf("elliptope: %w", err)
	}
	d, err := spectral.SortedEigenHermitian(x)
	if err != nil {
		return nil, 0, fmt.Errorf("elliptope: %w", err)
	}
	rank := spectral.NumericRank(d.Values)
	target := rank - deltaRank
	if target < 1 {
		return y, rank, nil
	}

	n := y.Rows()
	f, _ := matrix.NewCDense(n, target)
	for k := 0; k < target; k++ {
		s := complex(sqrtClamped(d.Values[k]), 0)
		for i := 0; i < n; i++ {
			v, _ := d.Vectors.At(i, k)
			_ = f.Set(i, k, v*s)
		}
	}
	out, err := matrix.CNormalizeRows(f)
	if err != nil {
		return nil, 0, fmt.Errorf("elliptope: %w", err)
	}

	return out, target, nil
}
