// SPDX-License-Identifier: MIT

package spectral

import (
	"fmt"
	"math"

	"github.com/katalvlaran/stablesdp/matrix"
)

// keep returns the indices (into a descending spectrum) with λ ≥ tol.
func keep(values []float64, tol float64) []int {
	var idx []int
	for k, v := range values {
		if v >= tol {
			idx = append(idx, k)
		}
	}

	return idx
}

// scaledColumns builds V[:, idx]·diag(f(λ[idx])) as an n×len(idx) matrix.
func scaledColumns(d Decomposition, idx []int, f func(float64) float64) *matrix.Dense {
	n := d.Vectors.Rows()
	out, _ := matrix.NewDense(n, len(idx))
	for c, k := range idx {
		s := f(d.Values[k])
		for i := 0; i < n; i++ {
			v, _ := d.Vectors.At(i, k)
			_ = out.Set(i, c, v*s)
		}
	}

	return out
}

// FactorizePSD returns F = V·diag(√λ) over the eigenpairs with λ ≥ tol, so
// that F·Fᵀ reproduces the filtered part of x. Columns follow descending λ.
//
// Errors: ErrNotPositiveSemidefinite when no eigenvalue reaches tol.
func FactorizePSD(x *matrix.Dense, tol float64) (*matrix.Dense, error) {
	d, err := SortedEigen(x)
	if err != nil {
		return nil, fmt.Errorf("FactorizePSD: %w", err)
	}
	idx := keep(d.Values, tol)
	if len(idx) == 0 {
		return nil, fmt.Errorf("FactorizePSD: max eigenvalue %.3g < %.3g: %w", d.Values[0], tol, ErrNotPositiveSemidefinite)
	}

	return scaledColumns(d, idx, math.Sqrt), nil
}

// ClipToPSD reconstructs x from the eigenpairs with λ ≥ tol. When nothing
// survives the result is the zero matrix.
func ClipToPSD(x *matrix.Dense, tol float64) (*matrix.Dense, error) {
	d, err := SortedEigen(x)
	if err != nil {
		return nil, fmt.Errorf("ClipToPSD: %w", err)
	}
	idx := keep(d.Values, tol)
	n := x.Rows()
	if len(idx) == 0 {
		return matrix.NewDense(n, n)
	}

	return reconstruct(d, idx)
}

// reconstruct returns V[:, idx]·diag(λ[idx])·V[:, idx]ᵀ.
func reconstruct(d Decomposition, idx []int) (*matrix.Dense, error) {
	left := scaledColumns(d, idx, func(v float64) float64 { return v })
	right := scaledColumns(d, idx, func(float64) float64 { return 1 })
	rt, err := matrix.Transpose(right)
	if err != nil {
		return nil, err
	}
	out, err := matrix.Mul(left, rt)
	if err != nil {
		return nil, err
	}

	return matrix.Symmetrize(out)
}

func topIndices(k int) []int {
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	return idx
}

// RankReduce drops deltaRank from the numeric rank of x by keeping the top
// rank−deltaRank eigenpairs. When that target is below 1, x is returned
// unchanged (same pointer) together with its current rank.
//
// Errors: ErrInvalidRankReduction when deltaRank < 0 or deltaRank ≥ n.
func RankReduce(x *matrix.Dense, deltaRank int) (*matrix.Dense, int, error) {
	if x == nil {
		return nil, 0, fmt.Errorf("RankReduce: %w", matrix.ErrNilMatrix)
	}
	if deltaRank < 0 || x.Rows() <= deltaRank {
		return nil, 0, fmt.Errorf("RankReduce: n=%d delta=%d: %w", x.Rows(), deltaRank, ErrInvalidRankReduction)
	}
	d, err := SortedEigen(x)
	if err != nil {
		return nil, 0, fmt.Errorf("RankReduce: %w", err)
	}
	rank := NumericRank(d.Values)
	target := rank - deltaRank
	if target < 1 {
		return x, rank, nil
	}
	out, err := reconstruct(d, topIndices(target))
	if err != nil {
		return nil, 0, fmt.Errorf("RankReduce: %w", err)
	}

	return out, target, nil
}

// RankReduceStrict behaves like RankReduce but fails with
// ErrInvalidRankReduction instead of returning x unchanged.
func RankReduceStrict(x *matrix.Dense, deltaRank int) (*matrix.Dense, int, error) {
	out, r, err := RankReduce(x, deltaRank)
	if err != nil {
		return nil, 0, err
	}
	if out == x && deltaRank > 0 {
		return nil, 0, fmt.Errorf("RankReduceStrict: rank %d delta %d: %w", r, deltaRank, ErrInvalidRankReduction)
	}

	return out, r, nil
}
