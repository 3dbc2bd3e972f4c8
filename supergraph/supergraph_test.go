// SPDX-License-Identifier: MIT

package supergraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/supergraph"
	"github.com/katalvlaran/stablesdp/treedecomp"
)

func edgeSet(g *graph.Graph) map[[2]int]bool {
	out := make(map[[2]int]bool)
	for _, e := range g.Edges() {
		out[[2]int{e.U, e.V}] = true
	}

	return out
}

func TestFullBagsAddNoVertices(t *testing.T) {
	g, _ := graph.Path(4)
	tr, w, err := treedecomp.MinDegree(g)
	require.NoError(t, err)

	res, err := supergraph.Enrich(g, tr, w)
	require.NoError(t, err)
	assert.Zero(t, res.Added)
	assert.Equal(t, 4, res.Graph.Order())

	got := edgeSet(res.Graph)
	for e := range edgeSet(g) {
		assert.True(t, got[e], "original edge %v kept", e)
	}
	// {2,3}-{1,2} links 3-1, then {1,2}-{0,1} links 2-0.
	assert.True(t, got[[2]int{1, 3}])
	assert.True(t, got[[2]int{0, 2}])
	assert.Equal(t, 3, g.Size(), "input untouched")
}

func TestPaddingAllocatesFreshVertices(t *testing.T) {
	g := graph.New(3)
	require.NoError(t, g.AddEdge(0, 1, 0))
	tr := treedecomp.NewTree()
	a := tr.AddBag(treedecomp.NewBag(0, 1))
	b := tr.AddBag(treedecomp.NewBag(2))
	require.NoError(t, tr.Connect(a, b))

	res, err := supergraph.Enrich(g, tr, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, 4, res.Graph.Order())
	assert.Equal(t, 1, res.Tree.Width())
	for _, s := range res.Tree.Slots() {
		bag, _ := res.Tree.Bag(s)
		assert.Equal(t, 2, bag.Len())
	}
	// leaf {0,1} against padded parent {2,3}: 0-2, 1-3
	got := edgeSet(res.Graph)
	assert.True(t, got[[2]int{0, 2}])
	assert.True(t, got[[2]int{1, 3}])
	assert.Equal(t, 2, tr.Len(), "input tree untouched")
}

func TestSingleBag(t *testing.T) {
	g, _ := graph.Complete(3)
	tr, w, err := treedecomp.MinFillIn(g)
	require.NoError(t, err)
	res, err := supergraph.Enrich(g, tr, w)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Graph.Size())
}

func TestMalformed(t *testing.T) {
	g, _ := graph.Path(4)
	tr, _, err := treedecomp.MinDegree(g)
	require.NoError(t, err)

	_, err = supergraph.Enrich(g, tr, 0)
	assert.ErrorIs(t, err, supergraph.ErrMalformedTreeDecomposition)
	_, err = supergraph.Enrich(g, tr, -1)
	assert.ErrorIs(t, err, supergraph.ErrMalformedTreeDecomposition)

	forest := treedecomp.NewTree()
	forest.AddBag(treedecomp.NewBag(0, 1))
	forest.AddBag(treedecomp.NewBag(2, 3))
	_, err = supergraph.Enrich(g, forest, 1)
	assert.ErrorIs(t, err, supergraph.ErrMalformedTreeDecomposition)
}

func TestWeightedSupergraphUsesUnitWeights(t *testing.T) {
	g, _ := graph.Path(3, graph.WithWeighted())
	tr, w, err := treedecomp.MinDegree(g)
	require.NoError(t, err)
	res, err := supergraph.Enrich(g, tr, w)
	require.NoError(t, err)
	for _, e := range res.Graph.Edges() {
		assert.Equal(t, 1.0, e.Weight)
	}
}
