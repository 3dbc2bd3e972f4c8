// SPDX-License-Identifier: MIT

package spectral_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/spectral"
	"github.com/stretchr/testify/require"
)

const eps = 1e-8

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

func requireClose(t *testing.T, want, got *matrix.Dense, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	for i := 0; i < want.Rows(); i++ {
		for j := 0; j < want.Cols(); j++ {
			w, _ := want.At(i, j)
			g, _ := got.At(i, j)
			require.InDeltaf(t, w, g, tol, "(%d,%d)", i, j)
		}
	}
}

// psdFromSpectrum builds Q·diag(vals)·Qᵀ for a fixed orthogonal Q (Householder).
func psdFromSpectrum(t *testing.T, vals []float64) *matrix.Dense {
	t.Helper()
	n := len(vals)
	v := make([]float64, n)
	var s float64
	for i := range v {
		v[i] = float64(i + 1)
		s += v[i] * v[i]
	}
	q, _ := matrix.NewIdentity(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			qij, _ := q.At(i, j)
			require.NoError(t, q.Set(i, j, qij-2*v[i]*v[j]/s))
		}
	}
	scaled, err := matrix.ScaleColumns(q, vals)
	require.NoError(t, err)
	qt, _ := matrix.Transpose(q)
	x, err := matrix.Mul(scaled, qt)
	require.NoError(t, err)
	x, err = matrix.Symmetrize(x)
	require.NoError(t, err)

	return x
}

func TestSortedEigen_Descending(t *testing.T) {
	x := psdFromSpectrum(t, []float64{1, 5, 0, 3})
	d, err := spectral.SortedEigen(x)
	require.NoError(t, err)
	require.Equal(t, 4, d.Len())
	want := []float64{5, 3, 1, 0}
	for i := range want {
		require.InDelta(t, want[i], d.Values[i], eps)
	}
	// column k is an eigenvector of Values[k] with a positive leading entry
	for k := 0; k < 4; k++ {
		col := d.Vectors.Col(k)
		xv, err := matrix.MatVec(x, col)
		require.NoError(t, err)
		var maxAbs float64
		for i := range col {
			require.InDelta(t, d.Values[k]*col[i], xv[i], eps)
			if math.Abs(col[i]) > math.Abs(maxAbs) {
				maxAbs = col[i]
			}
		}
		require.Greater(t, maxAbs, 0.0)
	}

	asc, err := spectral.Eigenvalues(x)
	require.NoError(t, err)
	require.InDelta(t, 0.0, asc[0], eps)
	require.InDelta(t, 5.0, asc[3], eps)
}

func TestSortedEigen_SymmetrisesNoise(t *testing.T) {
	x := mustRows(t, [][]float64{{2, 1 + 1e-7}, {1 - 1e-7, 2}})
	d, err := spectral.SortedEigen(x)
	require.NoError(t, err)
	require.InDelta(t, 3.0, d.Values[0], eps)
	require.InDelta(t, 1.0, d.Values[1], eps)

	_, err = spectral.SortedEigen(mustRows(t, [][]float64{{1, 2}}))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

func TestFactorizePSD_Reconstructs(t *testing.T) {
	x := psdFromSpectrum(t, []float64{4, 2, 0, 0, 1})
	f, err := spectral.FactorizePSD(x, spectral.DefaultFactorTol)
	require.NoError(t, err)
	require.Equal(t, 5, f.Rows())
	require.Equal(t, 3, f.Cols())
	back, err := matrix.Gram(f)
	require.NoError(t, err)
	requireClose(t, x, back, 1e-8)
}

func TestFactorizePSD_DropsNegative(t *testing.T) {
	x := psdFromSpectrum(t, []float64{2, -1e-3, 1})
	f, err := spectral.FactorizePSD(x, spectral.DefaultFactorTol)
	require.NoError(t, err)
	require.Equal(t, 2, f.Cols())

	neg := psdFromSpectrum(t, []float64{-1, -2})
	_, err = spectral.FactorizePSD(neg, spectral.DefaultFactorTol)
	require.ErrorIs(t, err, spectral.ErrNotPositiveSemidefinite)
}

func TestClipToPSD(t *testing.T) {
	x := psdFromSpectrum(t, []float64{3, -0.5, 1e-8})
	clipped, err := spectral.ClipToPSD(x, spectral.DefaultClipTol)
	require.NoError(t, err)
	vals, err := spectral.Eigenvalues(clipped)
	require.NoError(t, err)
	require.InDelta(t, 0.0, vals[0], eps)
	require.InDelta(t, 0.0, vals[1], eps)
	require.InDelta(t, 3.0, vals[2], eps)

	zero, err := spectral.ClipToPSD(psdFromSpectrum(t, []float64{-1, -1}), spectral.DefaultClipTol)
	require.NoError(t, err)
	require.Zero(t, matrix.FrobeniusNorm(zero))
}

func TestRankReduce(t *testing.T) {
	x := psdFromSpectrum(t, []float64{3, 2, 1, 0})
	r, err := spectral.Rank(x)
	require.NoError(t, err)
	require.Equal(t, 3, r)

	out, newRank, err := spectral.RankReduce(x, 1)
	require.NoError(t, err)
	require.Equal(t, 2, newRank)
	vals, _ := spectral.Eigenvalues(out)
	require.InDelta(t, 0.0, vals[1], eps)
	require.InDelta(t, 2.0, vals[2], eps)
	require.InDelta(t, 3.0, vals[3], eps)

	// a drop to rank 0 is refused: input returned unchanged
	same, keptRank, err := spectral.RankReduce(x, 3)
	require.NoError(t, err)
	require.Same(t, x, same)
	require.Equal(t, 3, keptRank)

	_, _, err = spectral.RankReduce(x, 4)
	require.ErrorIs(t, err, spectral.ErrInvalidRankReduction)
	_, _, err = spectral.RankReduce(x, -1)
	require.ErrorIs(t, err, spectral.ErrInvalidRankReduction)

	_, _, err = spectral.RankReduceStrict(x, 3)
	require.ErrorIs(t, err, spectral.ErrInvalidRankReduction)
	_, got, err := spectral.RankReduceStrict(x, 2)
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestSpectralNorm(t *testing.T) {
	x := psdFromSpectrum(t, []float64{1, -4, 2})
	nrm, err := spectral.SpectralNorm(x)
	require.NoError(t, err)
	require.InDelta(t, 4.0, nrm, eps)
}
