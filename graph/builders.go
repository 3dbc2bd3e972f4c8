// SPDX-License-Identifier: MIT
//
// builders.go - deterministic constructors for the small graphs used by tests,
// examples and the CLI.
//
// Contract:
//   - Vertices are 0..n-1; edges are emitted in increasing i.
//   - Unweighted (weight 0) unless opts carry WithWeighted, in which case
//     every edge has weight 1.

package graph

import "fmt"

const (
	methodPath     = "Path"
	methodCycle    = "Cycle"
	methodComplete = "Complete"
	minCycleNodes  = 3
)

func unitWeight(g *Graph) float64 {
	if g.weighted {
		return 1
	}

	return 0
}

// Empty returns n isolated vertices.
func Empty(n int, opts ...Option) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("Empty: n=%d: %w", n, ErrTooFewVertices)
	}

	return New(n, opts...), nil
}

// Path returns P_n: 0-1-...-(n-1).
func Path(n int, opts ...Option) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%s: n=%d < 1: %w", methodPath, n, ErrTooFewVertices)
	}
	g := New(n, opts...)
	w := unitWeight(g)
	for i := 0; i+1 < n; i++ {
		if err := g.AddEdge(i, i+1, w); err != nil {
			return nil, fmt.Errorf("%s: %w", methodPath, err)
		}
	}

	return g, nil
}

// Cycle returns C_n with edges i-(i+1)%n.
func Cycle(n int, opts ...Option) (*Graph, error) {
	if n < minCycleNodes {
		return nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycleNodes, ErrTooFewVertices)
	}
	g := New(n, opts...)
	w := unitWeight(g)
	for i := 0; i < n; i++ {
		if err := g.AddEdge(i, (i+1)%n, w); err != nil {
			return nil, fmt.Errorf("%s: %w", methodCycle, err)
		}
	}

	return g, nil
}

// Complete returns K_n.
func Complete(n int, opts ...Option) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%s: n=%d < 1: %w", methodComplete, n, ErrTooFewVertices)
	}
	g := New(n, opts...)
	w := unitWeight(g)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if err := g.AddEdge(i, j, w); err != nil {
				return nil, fmt.Errorf("%s: %w", methodComplete, err)
			}
		}
	}

	return g, nil
}
