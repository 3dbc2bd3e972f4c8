// SPDX-License-Identifier: MIT

package rounding_test

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/rounding"
	"github.com/stretchr/testify/require"
)

func mustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewFromRows(rows)
	require.NoError(t, err)

	return m
}

func TestProjectToAnnulus(t *testing.T) {
	v := mustRows(t, [][]float64{{0.3, 0.4}, {3, 4}, {1.5, 0}, {0, 0}})
	out, err := rounding.ProjectToAnnulus(v, rounding.Uniform(1), rounding.Uniform(2))
	require.NoError(t, err)
	norms := matrix.RowNorms(out)
	require.InDelta(t, 1.0, norms[0], 1e-12) // scaled up
	require.InDelta(t, 2.0, norms[1], 1e-12) // scaled down
	require.InDelta(t, 1.5, norms[2], 1e-12) // inside, unchanged
	x, _ := out.At(2, 0)
	require.Equal(t, 1.5, x)
	z, _ := out.At(3, 0)
	require.Equal(t, 1.0, z) // zero row lands on (min, 0)
}

func TestProjectToAnnulus_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	v, _ := matrix.NewDense(8, 3)
	for i := 0; i < 8; i++ {
		for j := 0; j < 3; j++ {
			require.NoError(t, v.Set(i, j, 3*rng.NormFloat64()))
		}
	}
	r := rounding.Uniform(1.5)
	once, err := rounding.ProjectToAnnulus(v, r, r)
	require.NoError(t, err)
	twice, err := rounding.ProjectToAnnulus(once, r, r)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		for j := 0; j < 3; j++ {
			a, _ := once.At(i, j)
			b, _ := twice.At(i, j)
			require.InDelta(t, a, b, 1e-12)
		}
	}
	for _, n := range matrix.RowNorms(once) {
		require.InDelta(t, 1.5, n, 1e-12)
	}
}

func TestProjectToAnnulus_PerRow(t *testing.T) {
	v := mustRows(t, [][]float64{{2}, {2}})
	out, err := rounding.ProjectToAnnulus(v, rounding.PerRow([]float64{0, 3}), rounding.PerRow([]float64{1, 4}))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3}, out.Col(0))

	_, err = rounding.ProjectToAnnulus(v, rounding.PerRow([]float64{1, 2, 3}), rounding.Uniform(4))
	require.ErrorIs(t, err, rounding.ErrDimensionMismatch)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = rounding.ProjectToAnnulus(v, rounding.Uniform(2), rounding.Uniform(1))
	require.ErrorIs(t, err, rounding.ErrInvalidRadius)
}

func TestProjectScalars(t *testing.T) {
	out, err := rounding.ProjectScalars([]float64{-0.5, 5, 0, 1.5}, rounding.Uniform(1), rounding.Uniform(2))
	require.NoError(t, err)
	require.Equal(t, []float64{-1, 2, 1, 1.5}, out)

	cz, err := rounding.ProjectComplexScalars([]complex128{3 + 4i}, rounding.Uniform(1), rounding.Uniform(1))
	require.NoError(t, err)
	require.InDelta(t, 1.0, cmplx.Abs(cz[0]), 1e-12)
	require.InDelta(t, 0.6, real(cz[0]), 1e-12)
}

// cutCost returns minus the number of 4-cycle edges cut by a ±1 assignment.
func cutCost(x []float64) float64 {
	edges := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	var cut float64
	for _, e := range edges {
		if x[e[0]] != x[e[1]] {
			cut++
		}
	}

	return -cut
}

func TestHyperplane_ZeroIterations(t *testing.T) {
	y := mustRows(t, [][]float64{{1, 0}, {0, 1}})
	res, err := rounding.Hyperplane(y, cutCost, rounding.WithIterations(0))
	require.NoError(t, err)
	require.False(t, res.Found)
	require.Nil(t, res.Assignment)
	require.True(t, math.IsInf(res.Cost, 1))
	require.Zero(t, res.Evaluated)
}

func TestHyperplane_SingleIteration(t *testing.T) {
	y := mustRows(t, [][]float64{{1, 0}, {-1, 0}, {1, 0}, {-1, 0}})
	var calls int
	var seen []float64
	res, err := rounding.Hyperplane(y, func(x []float64) float64 {
		calls++
		seen = append([]float64(nil), x...)
		return cutCost(x)
	}, rounding.WithIterations(1), rounding.WithSeed(7))
	require.NoError(t, err)
	require.Equal(t, 1, calls)
	require.True(t, res.Found)
	require.Equal(t, seen, res.Assignment)
	require.Equal(t, cutCost(seen), res.Cost)
	// alternating factor always cuts every edge of C4
	require.Equal(t, -4.0, res.Cost)
}

func TestHyperplane_TiesKeepEarliest(t *testing.T) {
	y := mustRows(t, [][]float64{{1, 0.2}, {0.3, -1}})
	var first []float64
	res, err := rounding.Hyperplane(y, func(x []float64) float64 {
		if first == nil {
			first = append([]float64(nil), x...)
		}
		return 0
	}, rounding.WithIterations(20), rounding.WithRand(rand.New(rand.NewSource(11))))
	require.NoError(t, err)
	require.Equal(t, first, res.Assignment)
	require.Equal(t, 20, res.Evaluated)
}

func TestHyperplane_Deterministic(t *testing.T) {
	y := mustRows(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.5, 0.5, 0}})
	a, err := rounding.Hyperplane(y, cutCost, rounding.WithSeed(5))
	require.NoError(t, err)
	b, err := rounding.Hyperplane(y, cutCost, rounding.WithSeed(5))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestHyperplane_StallAndAnnulus(t *testing.T) {
	y := mustRows(t, [][]float64{{1}, {2}})
	res, err := rounding.Hyperplane(y, func([]float64) float64 { return 1 },
		rounding.WithIterations(50), rounding.WithStallAfter(3))
	require.NoError(t, err)
	require.Equal(t, 4, res.Evaluated)

	res, err = rounding.Hyperplane(y, func(x []float64) float64 { return x[0] },
		rounding.WithRadii(rounding.Uniform(0.5), rounding.Uniform(1)))
	require.NoError(t, err)
	for _, v := range res.Assignment {
		require.GreaterOrEqual(t, math.Abs(v), 0.5-1e-12)
		require.LessOrEqual(t, math.Abs(v), 1+1e-12)
	}

	_, err = rounding.Hyperplane(y, nil)
	require.ErrorIs(t, err, rounding.ErrNilCost)
	_, err = rounding.Hyperplane(y, cutCost, rounding.WithIterations(-1))
	require.ErrorIs(t, err, rounding.ErrInvalidIterations)
}

func TestHyperplaneComplex_UnitModulus(t *testing.T) {
	y, err := matrix.NewCDenseFromRows([][]complex128{{1, 0}, {0, 1i}, {0.5, 0.5}})
	require.NoError(t, err)
	res, err := rounding.HyperplaneComplex(y, func(x []complex128) float64 {
		return real(x[0] * cmplx.Conj(x[1]))
	}, rounding.WithSeed(9), rounding.WithIterations(10))
	require.NoError(t, err)
	require.True(t, res.Found)
	for _, z := range res.Assignment {
		require.InDelta(t, 1.0, cmplx.Abs(z), 1e-12)
	}

	empty, err := rounding.HyperplaneComplex(y, func([]complex128) float64 { return 0 }, rounding.WithIterations(0))
	require.NoError(t, err)
	require.False(t, empty.Found)
	require.True(t, math.IsInf(empty.Cost, 1))
}
