// SPDX-License-Identifier: MIT

package graph

import (
	"errors"
	"sync"
)

// Sentinel errors for graph operations.
var (
	// ErrVertexNotFound indicates an operation referenced a vertex outside 0..Order()-1.
	ErrVertexNotFound = errors.New("graph: vertex not found")

	// ErrLoopNotAllowed indicates an attempted self-loop.
	ErrLoopNotAllowed = errors.New("graph: self-loop not allowed")

	// ErrBadWeight indicates a non-zero weight given to an unweighted graph.
	ErrBadWeight = errors.New("graph: bad weight for unweighted graph")

	// ErrTooFewVertices indicates a builder parameter below its minimum.
	ErrTooFewVertices = errors.New("graph: too few vertices")

	// ErrInvalidRange indicates a Subgraph window outside the vertex range.
	ErrInvalidRange = errors.New("graph: invalid vertex range")

	// ErrParse indicates a malformed edge-list line.
	ErrParse = errors.New("graph: malformed edge list")
)

// Edge is an undirected edge with U < V.
type Edge struct {
	U, V   int
	Weight float64
}

// Option configures a Graph before creation.
type Option func(g *Graph)

// WithWeighted allows non-zero edge weights.
func WithWeighted() Option {
	return func(g *Graph) { g.weighted = true }
}

// Graph is a simple undirected graph over vertices 0..n-1.
type Graph struct {
	mu       sync.RWMutex
	weighted bool

	// adj[u][v] = weight; mirrored for v.
	adj []map[int]float64
}

// New creates a graph with n isolated vertices (n < 0 is treated as 0).
// Complexity: O(n).
func New(n int, opts ...Option) *Graph {
	if n < 0 {
		n = 0
	}
	g := &Graph{adj: make([]map[int]float64, n)}
	for i := range g.adj {
		g.adj[i] = make(map[int]float64)
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}
