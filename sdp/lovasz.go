// SPDX-License-Identifier: MIT

package sdp

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/spectral"
)

const (
	// DefaultIterations bounds the Frank–Wolfe loop.
	DefaultIterations = 500
	// DefaultPenalty weighs the squared edge entries.
	DefaultPenalty = 10.0
	// DefaultGapTol stops the loop once the duality gap estimate falls below it.
	DefaultGapTol = 1e-9
)

// LovaszOptions configure the reference solver.
type LovaszOptions struct {
	Iterations int
	Penalty    float64
	GapTol     float64
}

// DefaultLovaszOptions returns the defaults.
func DefaultLovaszOptions() LovaszOptions {
	return LovaszOptions{Iterations: DefaultIterations, Penalty: DefaultPenalty, GapTol: DefaultGapTol}
}

// Lovasz is the theta relaxation
//
//	max tr(J·Z)  s.t.  tr Z = 1,  Z_ij = 0 for ij ∈ E,  Z ⪰ 0
//
// solved by Frank–Wolfe over the spectraplex {Z ⪰ 0, tr Z = 1}: the edge
// constraints become the penalty −(ρ/2)·Σ Z_ij² over both orientations of
// every edge, the linear minimisation oracle is the top eigenvector of the
// gradient and the step is an exact line search. Without edges the first
// step lands on J/n, which is optimal, so theta(Ē_n) = n exactly.
type Lovasz struct {
	g     *graph.Graph
	n     int
	edges []graph.Edge
	opts  LovaszOptions
}

var _ Problem = (*Lovasz)(nil)

// NewLovasz builds the theta relaxation of g. When g has edges the penalty
// leaves edge entries of order 1/ρ, so the objective is an upper estimate of
// theta rather than its exact value.
func NewLovasz(g *graph.Graph, opts LovaszOptions) (*Lovasz, error) {
	if g == nil || g.Order() == 0 {
		return nil, fmt.Errorf("sdp: empty graph: %w", matrix.ErrInvalidDimensions)
	}
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Penalty <= 0 {
		opts.Penalty = DefaultPenalty
	}
	if opts.GapTol <= 0 {
		opts.GapTol = DefaultGapTol
	}

	return &Lovasz{g: g, n: g.Order(), edges: g.Edges(), opts: opts}, nil
}

// Dim returns the vertex count.
func (l *Lovasz) Dim() int { return l.n }

// Solve maximises tr(J·Z).
func (l *Lovasz) Solve(ctx context.Context) (Solution, error) {
	j, _ := matrix.NewFilled(l.n, l.n, 1)

	return l.SolveLinear(ctx, j, Maximize)
}

// Objective returns tr(J·Z) = Σ Z_ij.
func (l *Lovasz) Objective(sol Solution) float64 {
	if sol.Re == nil {
		return math.NaN()
	}
	var s float64
	sol.Re.Do(func(_, _ int, v float64) bool {
		s += v
		return true
	})

	return s
}

// Infeasibility returns max |Z_ij| over the edges.
func (l *Lovasz) Infeasibility(sol Solution) float64 {
	var mx float64
	for _, e := range l.edges {
		v, _ := sol.Re.At(e.U, e.V)
		mx = math.Max(mx, math.Abs(v))
	}

	return mx
}

// edgePart keeps only the edge entries of z (both orientations).
func (l *Lovasz) edgePart(z *matrix.Dense) *matrix.Dense {
	out, _ := matrix.NewDense(l.n, l.n)
	for _, e := range l.edges {
		v, _ := z.At(e.U, e.V)
		_ = out.Set(e.U, e.V, v)
		_ = out.Set(e.V, e.U, v)
	}

	return out
}

// SolveLinear optimises tr(C·Z) (penalised) over the region.
func (l *Lovasz) SolveLinear(ctx context.Context, c *matrix.Dense, sense Sense) (Solution, error) {
	if err := matrix.ValidateSquare(c); err != nil {
		return Solution{}, fmt.Errorf("sdp: %w", err)
	}
	if c.Rows() != l.n {
		return Solution{}, fmt.Errorf("sdp: objective %d×%d for dim %d: %w", c.Rows(), c.Cols(), l.n, matrix.ErrDimensionMismatch)
	}
	obj, err := matrix.Symmetrize(c)
	if err != nil {
		return Solution{}, fmt.Errorf("sdp: %w", err)
	}
	if sense == Minimize {
		obj, _ = matrix.Scale(obj, -1)
	}

	z, _ := matrix.NewIdentity(l.n)
	z, _ = matrix.Scale(z, 1/float64(l.n))
	rho := l.opts.Penalty
	for k := 0; k < l.opts.Iterations; k++ {
		if err := ctx.Err(); err != nil {
			return Solution{}, fmt.Errorf("sdp: iteration %d: %w", k, err)
		}
		ze := l.edgePart(z)
		pen, _ := matrix.Scale(ze, rho)
		grad, _ := matrix.Sub(obj, pen)

		d, err := spectral.SortedEigen(grad)
		if err != nil {
			return Solution{}, fmt.Errorf("sdp: oracle: %w", err)
		}
		v := d.Vectors.Col(0)
		vcol, _ := matrix.NewColumn(v)
		s, _ := matrix.Gram(vcol)

		dir, _ := matrix.Sub(s, z)
		gap, _ := matrix.Inner(grad, dir)
		if gap < l.opts.GapTol {
			break
		}
		de := l.edgePart(dir)
		curv := rho * matrix.FrobeniusNorm(de) * matrix.FrobeniusNorm(de)
		step := 1.0
		if curv > 0 {
			step = math.Min(1, gap/curv)
		}
		move, _ := matrix.Scale(dir, step)
		z, _ = matrix.Add(z, move)
	}
	z, _ = matrix.Symmetrize(z)
	val, _ := matrix.Inner(c, z)

	return Solution{Re: z, Value: val}, nil
}
