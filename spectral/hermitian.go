// SPDX-License-Identifier: MIT

package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/katalvlaran/stablesdp/matrix"
)

// gsAcceptTol is the residual norm below which an embedded eigenvector is
// treated as a duplicate of an already accepted complex direction.
const gsAcceptTol = 1e-6

// HermitianDecomposition is a complex eigendecomposition in descending order.
type HermitianDecomposition struct {
	Values  []float64
	Vectors *matrix.CDense // n×n, column k ↔ Values[k]
}

// SortedEigenHermitian decomposes a Hermitian h through its real embedding.
//
// Each eigenvalue of h appears twice in the 2n×2n embedding; walking the
// embedded spectrum in descending order, every eigenvector [u; w] is mapped to
// z = u + i·w and Gram–Schmidt-orthogonalised against the directions already
// accepted. Vectors whose residual vanishes are the conjugate twin i·z and are
// skipped.
//
// Errors: matrix errors from the embedding; ErrMatrixEigenFailed when fewer
// than n independent directions were recovered.
func SortedEigenHermitian(h *matrix.CDense) (HermitianDecomposition, error) {
	emb, err := matrix.RealEmbedding(h)
	if err != nil {
		return HermitianDecomposition{}, fmt.Errorf("SortedEigenHermitian: %w", err)
	}
	d, err := SortedEigen(emb)
	if err != nil {
		return HermitianDecomposition{}, fmt.Errorf("SortedEigenHermitian: %w", err)
	}
	n := h.Rows()
	accepted := make([][]complex128, 0, n)
	values := make([]float64, 0, n)
	for k := 0; k < 2*n && len(accepted) < n; k++ {
		col := d.Vectors.Col(k)
		z := make([]complex128, n)
		for i := 0; i < n; i++ {
			z[i] = complex(col[i], col[i+n])
		}
		for _, a := range accepted {
			p := cdot(a, z)
			for i := range z {
				z[i] -= p * a[i]
			}
		}
		nrm := cnorm(z)
		if nrm < gsAcceptTol {
			continue
		}
		for i := range z {
			z[i] /= complex(nrm, 0)
		}
		canonicalPhase(z)
		accepted = append(accepted, z)
		values = append(values, d.Values[k])
	}
	if len(accepted) < n {
		return HermitianDecomposition{}, fmt.Errorf("SortedEigenHermitian: %d of %d directions: %w", len(accepted), n, matrix.ErrMatrixEigenFailed)
	}

	vecs, _ := matrix.NewCDense(n, n)
	for k, z := range accepted {
		for i, v := range z {
			_ = vecs.Set(i, k, v)
		}
	}

	return HermitianDecomposition{Values: values, Vectors: vecs}, nil
}

// cdot returns aᴴ·b.
func cdot(a, b []complex128) complex128 {
	var s complex128
	for i := range a {
		s += cmplx.Conj(a[i]) * b[i]
	}

	return s
}

func cnorm(z []complex128) float64 {
	var s float64
	for _, v := range z {
		s += real(v)*real(v) + imag(v)*imag(v)
	}

	return math.Sqrt(s)
}

// canonicalPhase rotates z so that its largest-magnitude entry is real positive.
func canonicalPhase(z []complex128) {
	var best int
	for i := range z {
		if cmplx.Abs(z[i]) > cmplx.Abs(z[best]) {
			best = i
		}
	}
	a := cmplx.Abs(z[best])
	if a == 0 {
		return
	}
	ph := cmplx.Conj(z[best]) / complex(a, 0)
	for i := range z {
		z[i] *= ph
	}
	z[best] = complex(a, 0)
}

func scaledCColumns(d HermitianDecomposition, idx []int, f func(float64) float64) *matrix.CDense {
	n := d.Vectors.Rows()
	out, _ := matrix.NewCDense(n, len(idx))
	for c, k := range idx {
		s := complex(f(d.Values[k]), 0)
		for i := 0; i < n; i++ {
			v, _ := d.Vectors.At(i, k)
			_ = out.Set(i, c, v*s)
		}
	}

	return out
}

func reconstructHermitian(d HermitianDecomposition, idx []int) (*matrix.CDense, error) {
	left := scaledCColumns(d, idx, func(v float64) float64 { return v })
	right := scaledCColumns(d, idx, func(float64) float64 { return 1 })
	rh, err := matrix.ConjTranspose(right)
	if err != nil {
		return nil, err
	}

	return matrix.CMul(left, rh)
}

// FactorizePSDHermitian returns F = V·diag(√λ) over λ ≥ tol so F·Fᴴ ≈ h.
func FactorizePSDHermitian(h *matrix.CDense, tol float64) (*matrix.CDense, error) {
	d, err := SortedEigenHermitian(h)
	if err != nil {
		return nil, fmt.Errorf("FactorizePSDHermitian: %w", err)
	}
	idx := keep(d.Values, tol)
	if len(idx) == 0 {
		return nil, fmt.Errorf("FactorizePSDHermitian: %w", ErrNotPositiveSemidefinite)
	}

	return scaledCColumns(d, idx, math.Sqrt), nil
}

// ClipToPSDHermitian reconstructs h from the eigenpairs with λ ≥ tol.
func ClipToPSDHermitian(h *matrix.CDense, tol float64) (*matrix.CDense, error) {
	d, err := SortedEigenHermitian(h)
	if err != nil {
		return nil, fmt.Errorf("ClipToPSDHermitian: %w", err)
	}
	idx := keep(d.Values, tol)
	if len(idx) == 0 {
		return matrix.NewCDense(h.Rows(), h.Rows())
	}

	return reconstructHermitian(d, idx)
}

// RankReduceHermitian is RankReduce for Hermitian input.
func RankReduceHermitian(h *matrix.CDense, deltaRank int) (*matrix.CDense, int, error) {
	if h == nil {
		return nil, 0, fmt.Errorf("RankReduceHermitian: %w", matrix.ErrNilMatrix)
	}
	if deltaRank < 0 || h.Rows() <= deltaRank {
		return nil, 0, fmt.Errorf("RankReduceHermitian: n=%d delta=%d: %w", h.Rows(), deltaRank, ErrInvalidRankReduction)
	}
	d, err := SortedEigenHermitian(h)
	if err != nil {
		return nil, 0, fmt.Errorf("RankReduceHermitian: %w", err)
	}
	rank := NumericRank(d.Values)
	target := rank - deltaRank
	if target < 1 {
		return h, rank, nil
	}
	out, err := reconstructHermitian(d, topIndices(target))
	if err != nil {
		return nil, 0, fmt.Errorf("RankReduceHermitian: %w", err)
	}

	return out, target, nil
}

// SpectralNormHermitian returns max |λ| of h.
func SpectralNormHermitian(h *matrix.CDense) (float64, error) {
	emb, err := matrix.RealEmbedding(h)
	if err != nil {
		return 0, err
	}

	return SpectralNorm(emb)
}
