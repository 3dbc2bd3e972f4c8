// SPDX-License-Identifier: MIT

package treedecomp

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/stablesdp/graph"
)

// ErrUnknownHeuristic indicates an unrecognised heuristic index or name.
var ErrUnknownHeuristic = errors.New("treedecomp: unknown heuristic")

// Heuristic selects the elimination ordering.
type Heuristic int

const (
	// HeuristicMinDegree eliminates a vertex of minimum degree.
	HeuristicMinDegree Heuristic = iota
	// HeuristicMinFillIn eliminates a vertex adding the fewest fill edges.
	HeuristicMinFillIn
)

// String implements fmt.Stringer.
func (h Heuristic) String() string {
	switch h {
	case HeuristicMinDegree:
		return "min-degree"
	case HeuristicMinFillIn:
		return "min-fill-in"
	default:
		return fmt.Sprintf("Heuristic(%d)", int(h))
	}
}

// ParseHeuristic accepts "min-degree" or "min-fill-in".
func ParseHeuristic(s string) (Heuristic, error) {
	switch s {
	case "min-degree":
		return HeuristicMinDegree, nil
	case "min-fill-in":
		return HeuristicMinFillIn, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownHeuristic)
	}
}

// Decompose runs heuristic h on g and returns the decomposition and its width.
func Decompose(g *graph.Graph, h Heuristic) (*Tree, int, error) {
	switch h {
	case HeuristicMinDegree:
		return MinDegree(g)
	case HeuristicMinFillIn:
		return MinFillIn(g)
	default:
		return nil, 0, fmt.Errorf("Decompose: %w", ErrUnknownHeuristic)
	}
}

// MinDegree computes an approximate tree decomposition by repeatedly
// eliminating a vertex of minimum degree (lowest index on ties).
func MinDegree(g *graph.Graph) (*Tree, int, error) {
	return decompose(g, minDegreeVertex)
}

// MinFillIn computes an approximate tree decomposition by repeatedly
// eliminating the vertex whose neighbourhood needs the fewest fill edges.
// It is slower than MinDegree and often gives a smaller width.
func MinFillIn(g *graph.Graph) (*Tree, int, error) {
	return decompose(g, minFillInVertex)
}

// elimGraph is the working graph of an elimination ordering.
type elimGraph map[int]map[int]struct{}

func (e elimGraph) sorted() []int {
	out := make([]int, 0, len(e))
	for v := range e {
		out = append(out, v)
	}
	sort.Ints(out)

	return out
}

// minDegreeVertex returns −1 once the remaining graph is a clique.
func minDegreeVertex(e elimGraph) int {
	best, bestDeg := -1, math.MaxInt
	for _, v := range e.sorted() {
		if d := len(e[v]); d < bestDeg {
			best, bestDeg = v, d
		}
	}
	if best < 0 || bestDeg == len(e)-1 {
		return -1
	}

	return best
}

// minFillInVertex returns −1 once the remaining graph is a clique. Fill
// counts are kept doubled: every missing pair is seen from both ends.
func minFillInVertex(e elimGraph) int {
	if len(e) == 0 {
		return -1
	}
	byDegree := e.sorted()
	sort.SliceStable(byDegree, func(a, b int) bool { return len(e[byDegree[a]]) < len(e[byDegree[b]]) })
	if len(e[byDegree[0]]) == len(e)-1 {
		return -1
	}

	best, bestFill := -1, math.MaxInt
	for _, v := range byDegree {
		fill := 0
		nbrs := e[v]
		for u := range nbrs {
			missing := 0
			for w := range nbrs {
				if _, ok := e[u][w]; !ok {
					missing++
				}
			}
			fill += missing - 1 // w == u is always missing
			if fill >= bestFill {
				break
			}
		}
		if fill < bestFill {
			if fill == 0 {
				return v
			}
			best, bestFill = v, fill
		}
	}

	return best
}

type eliminated struct {
	v    int
	nbrs Bag
}

func decompose(g *graph.Graph, pick func(elimGraph) int) (*Tree, int, error) {
	if g == nil || g.Order() == 0 {
		return nil, 0, fmt.Errorf("decompose: %w", graph.ErrTooFewVertices)
	}
	e := make(elimGraph, g.Order())
	for _, v := range g.Vertices() {
		e[v] = make(map[int]struct{})
	}
	for _, ed := range g.Edges() {
		e[ed.U][ed.V] = struct{}{}
		e[ed.V][ed.U] = struct{}{}
	}

	// Eliminate until a clique remains, turning each neighbourhood into a clique.
	var stack []eliminated
	for v := pick(e); v >= 0; v = pick(e) {
		nb := make([]int, 0, len(e[v]))
		for u := range e[v] {
			nb = append(nb, u)
		}
		for _, a := range nb {
			for _, b := range nb {
				if a != b {
					e[a][b] = struct{}{}
				}
			}
			delete(e[a], v)
		}
		delete(e, v)
		stack = append(stack, eliminated{v: v, nbrs: NewBag(nb...)})
	}

	t := NewTree()
	first := NewBag(e.sorted()...)
	root := t.AddBag(first)
	width := first.Len() - 1
	for k := len(stack) - 1; k >= 0; k-- {
		cur := stack[k]
		parent := root
		for _, s := range t.Slots() {
			if cur.nbrs.SubsetOf(t.bags[s]) {
				parent = s
				break
			}
		}
		b := cur.nbrs.Union(NewBag(cur.v))
		if b.Len()-1 > width {
			width = b.Len() - 1
		}
		if err := t.Connect(parent, t.AddBag(b)); err != nil {
			return nil, 0, err
		}
	}

	return t, width, nil
}
