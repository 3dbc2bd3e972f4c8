// SPDX-License-Identifier: MIT

package spectral_test

import (
	"math/cmplx"
	"testing"

	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/spectral"
	"github.com/stretchr/testify/require"
)

func hermitianFixture(t *testing.T) *matrix.CDense {
	t.Helper()
	// eigenvalues 3 and 1
	h, err := matrix.NewCDenseFromRows([][]complex128{{2, 1i}, {-1i, 2}})
	require.NoError(t, err)

	return h
}

func TestSortedEigenHermitian(t *testing.T) {
	h := hermitianFixture(t)
	d, err := spectral.SortedEigenHermitian(h)
	require.NoError(t, err)
	require.Len(t, d.Values, 2)
	require.InDelta(t, 3.0, d.Values[0], eps)
	require.InDelta(t, 1.0, d.Values[1], eps)

	for k := 0; k < 2; k++ {
		z := []complex128{}
		for i := 0; i < 2; i++ {
			v, _ := d.Vectors.At(i, k)
			z = append(z, v)
		}
		hz, err := matrix.CMatVec(h, z)
		require.NoError(t, err)
		for i := range z {
			require.InDelta(t, 0.0, cmplx.Abs(hz[i]-complex(d.Values[k], 0)*z[i]), eps)
		}
	}
}

func TestFactorizePSDHermitian_Reconstructs(t *testing.T) {
	y, err := matrix.NewCDenseFromRows([][]complex128{{1, 0}, {1i, 0}, {0.5, 0.5i}})
	require.NoError(t, err)
	x, err := matrix.CGram(y)
	require.NoError(t, err)

	f, err := spectral.FactorizePSDHermitian(x, spectral.DefaultFactorTol)
	require.NoError(t, err)
	require.Equal(t, 2, f.Cols())
	back, err := matrix.CGram(f)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a, _ := x.At(i, j)
			b, _ := back.At(i, j)
			require.InDelta(t, 0.0, cmplx.Abs(a-b), 1e-8)
		}
	}
}

func TestRankReduceHermitian(t *testing.T) {
	h := hermitianFixture(t)
	out, r, err := spectral.RankReduceHermitian(h, 1)
	require.NoError(t, err)
	require.Equal(t, 1, r)
	d, err := spectral.SortedEigenHermitian(out)
	require.NoError(t, err)
	require.InDelta(t, 3.0, d.Values[0], eps)
	require.InDelta(t, 0.0, d.Values[1], eps)

	same, r, err := spectral.RankReduceHermitian(out, 1)
	require.NoError(t, err)
	require.Same(t, out, same)
	require.Equal(t, 1, r)

	nrm, err := spectral.SpectralNormHermitian(h)
	require.NoError(t, err)
	require.InDelta(t, 3.0, nrm, eps)

	clipped, err := spectral.ClipToPSDHermitian(h, 2)
	require.NoError(t, err)
	v, _ := clipped.At(0, 0)
	require.InDelta(t, 1.5, real(v), eps)
}
