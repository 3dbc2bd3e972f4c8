// SPDX-License-Identifier: MIT

// Package supergraph builds the treewidth-regular supergraph of a graph from
// one of its tree decompositions.
//
// Every bag is first padded with fresh vertices up to width+1 members. Then
// leaves are peeled off the tree one at a time: the vertices only the leaf
// owns are matched in ascending order with the vertices only its parent
// owns, and each matched pair becomes an edge.
package supergraph

import (
	"fmt"

	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/treedecomp"
)

// ErrMalformedTreeDecomposition is shared with package treedecomp.
var ErrMalformedTreeDecomposition = treedecomp.ErrMalformedTreeDecomposition

// Result of Enrich.
type Result struct {
	Graph *graph.Graph     // supergraph; original vertices keep their indices
	Tree  *treedecomp.Tree // padded decomposition
	Added int              // number of padding vertices
}

// Enrich pads every bag of t to width+1 members and links leaf-owned to
// parent-owned vertices. g and t are not modified.
//
// Errors: ErrMalformedTreeDecomposition when a bag exceeds width+1, a leaf
// and its parent own vertex sets of different sizes, or the tree is not
// connected.
func Enrich(g *graph.Graph, t *treedecomp.Tree, width int) (Result, error) {
	if width < 0 {
		return Result{}, fmt.Errorf("Enrich: width %d: %w", width, ErrMalformedTreeDecomposition)
	}
	out := g.Clone()
	padded := t.Clone()
	next := out.Order()

	for _, s := range t.Slots() {
		b, _ := padded.Bag(s)
		missing := width + 1 - b.Len()
		if missing < 0 {
			return Result{}, fmt.Errorf("Enrich: bag %v exceeds width %d: %w", b, width, ErrMalformedTreeDecomposition)
		}
		if missing == 0 {
			continue
		}
		fresh := make([]int, missing)
		for i := range fresh {
			fresh[i] = next + i
		}
		next += missing
		if _, err := padded.Replace(s, b.Union(treedecomp.NewBag(fresh...))); err != nil {
			return Result{}, fmt.Errorf("Enrich: %w", err)
		}
	}
	added := next - out.Order()
	for out.Order() < next {
		out.AddVertex()
	}

	var w float64
	if out.Weighted() {
		w = 1
	}
	work := padded.Clone()
	for work.Len() > 1 {
		leaf := -1
		for _, s := range work.Slots() {
			if work.Degree(s) == 1 {
				leaf = s
				break
			}
		}
		if leaf < 0 {
			return Result{}, fmt.Errorf("Enrich: no leaf among %d bags: %w", work.Len(), ErrMalformedTreeDecomposition)
		}
		nb, _ := work.Neighbors(leaf)
		lb, _ := work.Bag(leaf)
		pb, _ := work.Bag(nb[0])
		os, ws := lb.Difference(pb), pb.Difference(lb)
		if len(os) != len(ws) {
			return Result{}, fmt.Errorf("Enrich: leaf %v owns %d vertices, parent %v owns %d: %w",
				lb, len(os), pb, len(ws), ErrMalformedTreeDecomposition)
		}
		for i := range os {
			if err := out.AddEdge(os[i], ws[i], w); err != nil {
				return Result{}, fmt.Errorf("Enrich: %w", err)
			}
		}
		_ = work.Remove(leaf)
	}

	return Result{Graph: out, Tree: padded, Added: added}, nil
}
