// SPDX-License-Identifier: MIT

package spectral

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/stablesdp/matrix"
)

const (
	// DefaultFactorTol is the eigenvalue floor of FactorizePSD.
	DefaultFactorTol = 1e-9
	// DefaultClipTol is the eigenvalue floor of ClipToPSD.
	DefaultClipTol = 1e-6
	// RankTol is the |λ| threshold of NumericRank.
	RankTol = 1e-9
)

// Decomposition is a real eigendecomposition in descending eigenvalue order.
type Decomposition struct {
	Values  []float64
	Vectors *matrix.Dense // n×n, column k ↔ Values[k]
}

// Len returns the number of eigenpairs.
func (d Decomposition) Len() int { return len(d.Values) }

// SortedEigen returns the eigendecomposition of x sorted by eigenvalue
// descending. x must be square; it is symmetrised first.
func SortedEigen(x *matrix.Dense) (Decomposition, error) {
	s, err := matrix.Symmetrize(x)
	if err != nil {
		return Decomposition{}, fmt.Errorf("SortedEigen: %w", err)
	}
	n := s.Rows()
	tol := matrix.DefaultEigenTol * math.Max(1, matrix.MaxAbs(s))
	vals, q, err := matrix.Eigen(s, tol, matrix.DefaultMaxRotations(n))
	if err != nil {
		return Decomposition{}, fmt.Errorf("SortedEigen: %w", err)
	}

	order := descendingOrder(vals)
	out := Decomposition{Values: make([]float64, n)}
	out.Vectors, _ = matrix.NewDense(n, n)
	for k, src := range order {
		out.Values[k] = vals[src]
		col := q.Col(src)
		canonicalSign(col)
		for i, v := range col {
			_ = out.Vectors.Set(i, k, v)
		}
	}

	return out, nil
}

// Eigenvalues returns the spectrum in ascending order (the order diagnostic
// log lines use).
func Eigenvalues(x *matrix.Dense) ([]float64, error) {
	d, err := SortedEigen(x)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d.Values))
	for i, v := range d.Values {
		out[len(out)-1-i] = v
	}

	return out, nil
}

// descendingOrder returns indices of vals sorted by value descending; ties
// keep diagonal order.
func descendingOrder(vals []float64) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] > vals[idx[b]] })

	return idx
}

// canonicalSign flips v so that its largest-magnitude entry is positive.
func canonicalSign(v []float64) {
	var best int
	for i := range v {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	if v[best] < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}

// NumericRank counts eigenvalues with |λ| > RankTol.
func NumericRank(values []float64) int {
	var r int
	for _, v := range values {
		if math.Abs(v) > RankTol {
			r++
		}
	}

	return r
}

// Rank returns the numeric rank of x.
func Rank(x *matrix.Dense) (int, error) {
	d, err := SortedEigen(x)
	if err != nil {
		return 0, err
	}

	return NumericRank(d.Values), nil
}

// SpectralNorm returns max |λ| of the symmetric part of x, i.e. the operator
// 2-norm for symmetric input.
func SpectralNorm(x *matrix.Dense) (float64, error) {
	d, err := SortedEigen(x)
	if err != nil {
		return 0, err
	}
	var mx float64
	for _, v := range d.Values {
		mx = math.Max(mx, math.Abs(v))
	}

	return mx, nil
}
