// SPDX-License-Identifier: MIT

package greedy_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/greedy"
	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/stretchr/testify/require"
)

func isStable(t *testing.T, g *graph.Graph, sel []int) {
	t.Helper()
	for _, e := range g.Edges() {
		require.Falsef(t, sel[e.U] == 1 && sel[e.V] == 1, "edge %d-%d inside selection", e.U, e.V)
	}
}

func TestStableSet_FourCycle(t *testing.T) {
	g, err := graph.Cycle(4)
	require.NoError(t, err)
	x, err := matrix.NewIdentity(4)
	require.NoError(t, err)

	for seed := int64(1); seed <= 20; seed++ {
		res, err := greedy.StableSet(x, g, greedy.WithSeed(seed))
		require.NoError(t, err)
		require.True(t, res.Found)
		require.Equal(t, 2, res.Size)
		isStable(t, g, res.Assignment)
		m := res.Members()
		require.Contains(t, [][]int{{0, 2}, {1, 3}}, m)
	}
}

func TestStableSet_SingleRunOnC4(t *testing.T) {
	// any maximal stable set of C4 has size 2, so one run suffices
	g, _ := graph.Cycle(4)
	res, err := greedy.StableSetWeights([]float64{1, 2, 3, 4}, g, greedy.WithIterations(1), greedy.WithRand(rand.New(rand.NewSource(3))))
	require.NoError(t, err)
	require.Equal(t, 2, res.Size)
}

func TestStableSet_EdgelessSelectsAll(t *testing.T) {
	g := graph.New(5)
	res, err := greedy.StableSetWeights([]float64{0, 0, 0, 0, 0}, g, greedy.WithIterations(3))
	require.NoError(t, err)
	require.Equal(t, 5, res.Size)
	require.Equal(t, []int{1, 1, 1, 1, 1}, res.Assignment)
}

func TestStableSet_WeightsSteerSelection(t *testing.T) {
	// star centred at 0: zero weight on the centre means the leaves are always drawn first
	g := graph.New(4)
	for v := 1; v < 4; v++ {
		require.NoError(t, g.AddEdge(0, v, 0))
	}
	res, err := greedy.StableSetWeights([]float64{0, 1, 1, 1}, g, greedy.WithIterations(5))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, res.Members())
	isStable(t, g, res.Assignment)
}

func TestStableSet_Errors(t *testing.T) {
	g, _ := graph.Cycle(3)
	x, _ := matrix.NewIdentity(4)
	_, err := greedy.StableSet(x, g)
	require.ErrorIs(t, err, greedy.ErrDimensionMismatch)

	r, _ := matrix.NewDense(3, 2)
	_, err = greedy.StableSet(r, g)
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	res, err := greedy.StableSetWeights([]float64{1, 1, 1}, g, greedy.WithIterations(0))
	require.NoError(t, err)
	require.False(t, res.Found)
	require.Nil(t, res.Assignment)
}

func TestStableSet_Deterministic(t *testing.T) {
	g, _ := graph.Path(7)
	w := []float64{0.9, 0.1, 0.5, 0.5, 0.2, 0.8, 0.3}
	a, err := greedy.StableSetWeights(w, g, greedy.WithSeed(42), greedy.WithIterations(10))
	require.NoError(t, err)
	b, err := greedy.StableSetWeights(w, g, greedy.WithSeed(42), greedy.WithIterations(10))
	require.NoError(t, err)
	require.Equal(t, a, b)
	isStable(t, g, a.Assignment)
}
