// SPDX-License-Identifier: MIT

// Package greedy rounds a stable-set relaxation by randomised greedy
// selection: the diagonal of X is read as a sampling distribution over the
// vertices, and every draw removes the chosen vertex together with its
// neighbours from the pool. Every run therefore yields a stable set; the
// largest one over all runs is returned (ties keep the first found).
package greedy

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/matrix"
)

// DefaultIterations is the number of greedy runs by default.
const DefaultIterations = 100

const defaultRNGSeed int64 = 1

// ErrDimensionMismatch indicates X and the graph disagree on the vertex count.
var ErrDimensionMismatch = matrix.ErrDimensionMismatch

// Options configure StableSet.
type Options struct {
	Iterations int
	Rand       *rand.Rand // nil ⇒ private source seeded with Seed
	Seed       int64
}

// Option mutates Options.
type Option func(*Options)

// WithIterations sets the number of greedy runs.
func WithIterations(n int) Option { return func(o *Options) { o.Iterations = n } }

// WithRand injects the random source.
func WithRand(r *rand.Rand) Option { return func(o *Options) { o.Rand = r } }

// WithSeed seeds the private random source.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// Result is the best selection found.
type Result struct {
	Assignment []int // 0/1 per vertex; nil when Iterations == 0
	Size       int   // number of selected vertices
	Found      bool
}

// Members returns the selected vertex indices in ascending order.
func (r Result) Members() []int {
	var out []int
	for v, x := range r.Assignment {
		if x == 1 {
			out = append(out, v)
		}
	}

	return out
}

// StableSet runs the greedy sampler with weights diag(x).
func StableSet(x *matrix.Dense, g *graph.Graph, opts ...Option) (Result, error) {
	if err := matrix.ValidateSquare(x); err != nil {
		return Result{}, fmt.Errorf("greedy: %w", err)
	}

	return StableSetWeights(x.Diag(), g, opts...)
}

// StableSetWeights runs the greedy sampler with explicit vertex weights.
// Negative weights are treated as 0; a pool whose weights sum to 0 is
// sampled uniformly.
func StableSetWeights(weights []float64, g *graph.Graph, opts ...Option) (Result, error) {
	if g == nil {
		return Result{}, fmt.Errorf("greedy: nil graph")
	}
	n := g.Order()
	if len(weights) != n {
		return Result{}, fmt.Errorf("greedy: %d weights for %d vertices: %w", len(weights), n, ErrDimensionMismatch)
	}
	o := Options{Iterations: DefaultIterations}
	for _, opt := range opts {
		opt(&o)
	}
	rng := o.Rand
	if rng == nil {
		s := o.Seed
		if s == 0 {
			s = defaultRNGSeed
		}
		rng = rand.New(rand.NewSource(s))
	}

	w := make([]float64, n)
	for i, v := range weights {
		if v > 0 && !math.IsInf(v, 0) {
			w[i] = v
		}
	}
	neighbors := make([][]int, n)
	for v := 0; v < n; v++ {
		neighbors[v], _ = g.Neighbors(v)
	}

	best := Result{Size: -1}
	for it := 0; it < o.Iterations; it++ {
		sel, size := run(rng, w, neighbors)
		if size > best.Size {
			best = Result{Assignment: sel, Size: size, Found: true}
		}
	}
	if !best.Found {
		return Result{}, nil
	}

	return best, nil
}

// run performs one greedy pass.
func run(rng *rand.Rand, w []float64, neighbors [][]int) ([]int, int) {
	n := len(w)
	sel := make([]int, n)
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	removed := make([]bool, n)
	var size int
	for len(pool) > 0 {
		v := draw(rng, pool, w)
		sel[v] = 1
		size++
		removed[v] = true
		for _, u := range neighbors[v] {
			removed[u] = true
		}
		next := pool[:0]
		for _, u := range pool {
			if !removed[u] {
				next = append(next, u)
			}
		}
		pool = next
	}

	return sel, size
}

// draw picks a pool member with probability proportional to w.
func draw(rng *rand.Rand, pool []int, w []float64) int {
	var total float64
	for _, v := range pool {
		total += w[v]
	}
	if total <= 0 {
		return pool[rng.Intn(len(pool))]
	}
	u := rng.Float64() * total
	var acc float64
	for _, v := range pool {
		acc += w[v]
		if u < acc {
			return v
		}
	}

	return pool[len(pool)-1]
}
