// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/stretchr/testify/require"
)

func TestCDense_FromParts(t *testing.T) {
	re := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	im := MustRows(t, [][]float64{{0, -1}, {1, 0}})
	c, err := matrix.NewCDenseFromParts(re, im)
	require.NoError(t, err)
	v, err := c.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, complex(2, -1), v)
	requireAllClose(t, re, c.Real(), 0)
	requireAllClose(t, im, c.Imag(), 0)

	_, err = matrix.NewCDenseFromParts(re, MustDense(t, 1, 2))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = c.At(2, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestCGram_Hermitian(t *testing.T) {
	y, err := matrix.NewCDenseFromRows([][]complex128{{1 + 1i, 2}, {0.5i, -1}, {3, 1 - 2i}})
	require.NoError(t, err)
	g, err := matrix.CGram(y)
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateHermitian(g, 0))

	// |y_0|^2 = 2 + 4
	d, _ := g.At(0, 0)
	require.Equal(t, complex(6, 0), d)

	yh, err := matrix.ConjTranspose(y)
	require.NoError(t, err)
	p, err := matrix.CMul(y, yh)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a, _ := g.At(i, j)
			b, _ := p.At(i, j)
			require.InDelta(t, real(a), real(b), eps)
			require.InDelta(t, imag(a), imag(b), eps)
		}
	}
}

func TestValidateHermitian_Rejects(t *testing.T) {
	h, err := matrix.NewCDenseFromRows([][]complex128{{1, 1i}, {1i, 1}})
	require.NoError(t, err)
	require.ErrorIs(t, matrix.ValidateHermitian(h, 1e-9), matrix.ErrAsymmetry)
}

func TestRealEmbedding_Spectrum(t *testing.T) {
	// H = [[2, i], [-i, 2]] has eigenvalues 1 and 3, each doubled in the embedding.
	h, err := matrix.NewCDenseFromRows([][]complex128{{2, 1i}, {-1i, 2}})
	require.NoError(t, err)
	e, err := matrix.RealEmbedding(h)
	require.NoError(t, err)
	require.Equal(t, 4, e.Rows())
	require.NoError(t, matrix.ValidateSymmetric(e, 0))

	vals, _, err := matrix.Eigen(e, matrix.DefaultEigenTol, matrix.DefaultMaxRotations(4))
	require.NoError(t, err)
	var ones, threes int
	for _, v := range vals {
		switch {
		case math.Abs(v-1) < 1e-9:
			ones++
		case math.Abs(v-3) < 1e-9:
			threes++
		}
	}
	require.Equal(t, 2, ones)
	require.Equal(t, 2, threes)
}

func TestCNormalizeRows(t *testing.T) {
	y, err := matrix.NewCDenseFromRows([][]complex128{{3i, 4}, {0, 0}})
	require.NoError(t, err)
	n, err := matrix.CNormalizeRows(y)
	require.NoError(t, err)
	for _, r := range matrix.CRowNorms(n) {
		require.InDelta(t, 1.0, r, eps)
	}
	v, _ := n.At(1, 0)
	require.Equal(t, complex(1, 0), v)
	require.InDelta(t, 5.0, matrix.CFrobeniusNorm(y), eps)
}
