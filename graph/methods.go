// SPDX-License-Identifier: MIT

package graph

import (
	"fmt"
	"math/rand"
	"sort"
)

// defaultWindowSeed seeds RandomSubgraph when rng is nil.
const defaultWindowSeed int64 = 1

// Weighted reports whether non-zero weights are accepted.
func (g *Graph) Weighted() bool { return g.weighted }

// Order returns the number of vertices.
func (g *Graph) Order() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.adj)
}

// Size returns the number of edges.
func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var deg int
	for _, nb := range g.adj {
		deg += len(nb)
	}

	return deg / 2
}

// Vertices returns 0..Order()-1.
func (g *Graph) Vertices() []int {
	n := g.Order()
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

// AddVertex appends a new isolated vertex and returns its index.
func (g *Graph) AddVertex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.adj = append(g.adj, make(map[int]float64))

	return len(g.adj) - 1
}

func (g *Graph) hasVertex(v int) bool { return v >= 0 && v < len(g.adj) }

// AddEdge inserts the undirected edge {u, v}. Re-adding overwrites the weight.
//
// Errors: ErrVertexNotFound, ErrLoopNotAllowed, ErrBadWeight.
func (g *Graph) AddEdge(u, v int, weight float64) error {
	if u == v {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrLoopNotAllowed)
	}
	if !g.weighted && weight != 0 {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrBadWeight)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hasVertex(u) || !g.hasVertex(v) {
		return fmt.Errorf("AddEdge(%d,%d): %w", u, v, ErrVertexNotFound)
	}
	g.adj[u][v] = weight
	g.adj[v][u] = weight

	return nil
}

// RemoveEdge deletes {u, v} if present.
func (g *Graph) RemoveEdge(u, v int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.hasVertex(u) || !g.hasVertex(v) {
		return
	}
	delete(g.adj[u], v)
	delete(g.adj[v], u)
}

// HasEdge reports whether {u, v} exists.
func (g *Graph) HasEdge(u, v int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasVertex(u) || !g.hasVertex(v) {
		return false
	}
	_, ok := g.adj[u][v]

	return ok
}

// Weight returns the weight of {u, v} and whether the edge exists.
func (g *Graph) Weight(u, v int) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasVertex(u) || !g.hasVertex(v) {
		return 0, false
	}
	w, ok := g.adj[u][v]

	return w, ok
}

// Neighbors returns the neighbours of v in ascending order.
func (g *Graph) Neighbors(v int) ([]int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasVertex(v) {
		return nil, fmt.Errorf("Neighbors(%d): %w", v, ErrVertexNotFound)
	}
	out := make([]int, 0, len(g.adj[v]))
	for u := range g.adj[v] {
		out = append(out, u)
	}
	sort.Ints(out)

	return out, nil
}

// Degree returns the number of neighbours of v (0 for an unknown vertex).
func (g *Graph) Degree(v int) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.hasVertex(v) {
		return 0
	}

	return len(g.adj[v])
}

// Edges returns every edge once with U < V, sorted by (U, V).
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Edge
	for u, nb := range g.adj {
		for v, w := range nb {
			if u < v {
				out = append(out, Edge{U: u, V: v, Weight: w})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].U != out[j].U {
			return out[i].U < out[j].U
		}
		return out[i].V < out[j].V
	})

	return out
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c := &Graph{weighted: g.weighted, adj: make([]map[int]float64, len(g.adj))}
	for i, nb := range g.adj {
		c.adj[i] = make(map[int]float64, len(nb))
		for v, w := range nb {
			c.adj[i][v] = w
		}
	}

	return c
}

// Subgraph returns the subgraph induced by vertices first..first+n-1,
// relabelled to 0..n-1.
func (g *Graph) Subgraph(first, n int) (*Graph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if first < 0 || n < 0 || first+n > len(g.adj) {
		return nil, fmt.Errorf("Subgraph(%d,%d) of order %d: %w", first, n, len(g.adj), ErrInvalidRange)
	}
	sub := &Graph{weighted: g.weighted, adj: make([]map[int]float64, n)}
	for i := 0; i < n; i++ {
		sub.adj[i] = make(map[int]float64)
		for v, w := range g.adj[first+i] {
			if v >= first && v < first+n {
				sub.adj[i][v-first] = w
			}
		}
	}

	return sub, nil
}

// RandomSubgraph is Subgraph with the window start drawn uniformly from
// 0..Order()-n using rng (nil ⇒ a stream seeded with defaultWindowSeed).
// It returns the chosen start.
func (g *Graph) RandomSubgraph(n int, rng *rand.Rand) (*Graph, int, error) {
	order := g.Order()
	if n < 0 || n > order {
		return nil, 0, fmt.Errorf("RandomSubgraph(%d) of order %d: %w", n, order, ErrInvalidRange)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(defaultWindowSeed))
	}
	first := rng.Intn(order - n + 1)
	sub, err := g.Subgraph(first, n)
	if err != nil {
		return nil, 0, err
	}

	return sub, first, nil
}
