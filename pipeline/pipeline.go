// SPDX-License-Identifier: MIT

// Package pipeline chains the post-processing stages of a stable-set
// relaxation: refine the solver's solution to a fixed point, try to read an
// exact incidence vector off it, and fall back to randomised rounding when
// the relaxation is not tight. The outcome can be persisted as a
// store.Bundle.
//
// NotExact is not an error at this level: it selects the fallback. Solver
// failures abort the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/stablesdp/elliptope"
	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/greedy"
	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/metrics"
	"github.com/katalvlaran/stablesdp/recovery"
	"github.com/katalvlaran/stablesdp/refine"
	"github.com/katalvlaran/stablesdp/rounding"
	"github.com/katalvlaran/stablesdp/sdp"
	"github.com/katalvlaran/stablesdp/spectral"
	"github.com/katalvlaran/stablesdp/store"
)

// Methods that produced a Report's vector.
const (
	MethodRecovery   = "recovery"
	MethodGreedy     = "greedy"
	MethodHyperplane = "hyperplane"
)

var (
	// ErrUnknownMethod indicates an unsupported fallback method.
	ErrUnknownMethod = errors.New("pipeline: unknown fallback method")
	// ErrInvalidTolerance indicates a negative tolerance option.
	ErrInvalidTolerance = errors.New("pipeline: tolerance must be ≥ 0")
)

// Options configure a Pipeline.
type Options struct {
	Refine     refine.Config
	Scheme     recovery.Scheme // nil ⇒ recovery.Lovasz{}
	Fallback   string          // MethodGreedy (default) or MethodHyperplane
	FactorTol  float64         // factorisation floor for hyperplane rounding (0 ⇒ spectral.DefaultFactorTol)
	ClipTol    float64         // eigenvalue floor applied to the refined solution (0 ⇒ spectral.DefaultClipTol)
	ReduceRank int             // elliptope rank drop applied to the factor before hyperplane rounding

	Iterations int   // rounding iterations (0 ⇒ package defaults)
	Seed       int64 // rounding seed
	MinRadius  float64
	MaxRadius  float64
	StallAfter int

	Case string // bundle case name; empty disables persistence
}

// Report is the outcome of a run.
type Report struct {
	Refine    refine.Result
	Vector    recovery.IncidenceVector
	Method    string
	Exact     bool
	Objective float64 // problem objective at the refined solution
	BundleKey string  // set when a bundle was written
}

// Pipeline runs the stages.
type Pipeline struct {
	opts    Options
	refiner *refine.Refiner
	log     *zap.Logger
	metrics *metrics.Collector
	store   store.SolutionStore
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger (nil ⇒ no-op).
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics sets the collector.
func WithMetrics(m *metrics.Collector) Option { return func(p *Pipeline) { p.metrics = m } }

// WithStore persists results under Options.Case.
func WithStore(s store.SolutionStore) Option { return func(p *Pipeline) { p.store = s } }

// New validates opts and builds the refiner.
func New(opts Options, o ...Option) (*Pipeline, error) {
	if opts.Scheme == nil {
		opts.Scheme = recovery.Lovasz{}
	}
	switch opts.Fallback {
	case "":
		opts.Fallback = MethodGreedy
	case MethodGreedy, MethodHyperplane:
	default:
		return nil, fmt.Errorf("%q: %w", opts.Fallback, ErrUnknownMethod)
	}
	if opts.ReduceRank < 0 {
		return nil, fmt.Errorf("pipeline: reduce rank %d: %w", opts.ReduceRank, elliptope.ErrInvalidRankReduction)
	}
	if opts.FactorTol < 0 || opts.ClipTol < 0 {
		return nil, fmt.Errorf("factor %g, clip %g: %w", opts.FactorTol, opts.ClipTol, ErrInvalidTolerance)
	}
	if opts.FactorTol == 0 {
		opts.FactorTol = spectral.DefaultFactorTol
	}
	if opts.ClipTol == 0 {
		opts.ClipTol = spectral.DefaultClipTol
	}
	if opts.MinRadius == 0 {
		opts.MinRadius = 1
	}
	if opts.MaxRadius == 0 {
		opts.MaxRadius = 1
	}

	p := &Pipeline{opts: opts, log: zap.NewNop()}
	for _, opt := range o {
		opt(p)
	}
	r, err := refine.New(opts.Refine, refine.WithLogger(p.log), refine.WithMetrics(p.metrics))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	p.refiner = r

	return p, nil
}

// Run refines prob, recovers or rounds a stable set of g and persists it.
func (p *Pipeline) Run(ctx context.Context, g *graph.Graph, prob sdp.Problem) (Report, error) {
	scheme := p.opts.Scheme.Name()
	log := p.log.With(zap.String("scheme", scheme), zap.Int("vertices", g.Order()))

	res, err := p.refiner.Run(ctx, prob)
	if err != nil {
		return Report{Refine: res}, fmt.Errorf("pipeline: %w", err)
	}
	rep := Report{Refine: res, Objective: prob.Objective(res.Solution)}
	x, err := spectral.ClipToPSD(res.Solution.Re, p.opts.ClipTol)
	if err != nil {
		return rep, fmt.Errorf("pipeline: clip: %w", err)
	}

	v, err := recovery.RecoverIncidenceVector(x, p.opts.Scheme)
	switch {
	case err == nil:
		if err := recovery.VerifyStableSet(v, g); err != nil {
			p.metrics.ObserveRecovery(scheme, "invalid")
			return rep, fmt.Errorf("pipeline: %w", err)
		}
		p.metrics.ObserveRecovery(scheme, "exact")
		rep.Vector, rep.Method, rep.Exact = v, MethodRecovery, true
	case errors.Is(err, recovery.ErrNotExact):
		p.metrics.ObserveRecovery(scheme, "not_exact")
		log.Info("relaxation not exact, rounding", zap.String("fallback", p.opts.Fallback), zap.Error(err))
		if rep.Vector, err = p.round(x, g); err != nil {
			return rep, err
		}
		rep.Method = p.opts.Fallback
	default:
		p.metrics.ObserveRecovery(scheme, "error")
		return rep, fmt.Errorf("pipeline: %w", err)
	}
	log.Info("stable set",
		zap.String("method", rep.Method),
		zap.Int("size", rep.Vector.Size()),
		zap.Float64("objective", rep.Objective),
		zap.Int("iterations", res.Iterations))

	if p.store != nil && p.opts.Case != "" {
		b := store.NewBundle(p.opts.Case, scheme, rep.Objective, x)
		b.CustomKind = rep.Method
		b.Aux = map[string][]float64{"incidence": toFloats(rep.Vector)}
		if err := p.store.SaveBundle(ctx, b); err != nil {
			return rep, fmt.Errorf("pipeline: %w", err)
		}
		rep.BundleKey = b.Key()
	}

	return rep, nil
}

func (p *Pipeline) round(x *matrix.Dense, g *graph.Graph) (recovery.IncidenceVector, error) {
	n := g.Order()
	if x.Rows() < n {
		return nil, fmt.Errorf("pipeline: %d×%d solution for %d vertices: %w", x.Rows(), x.Cols(), n, matrix.ErrDimensionMismatch)
	}
	switch p.opts.Fallback {
	case MethodHyperplane:
		return p.hyperplane(x, g)
	default:
		iters := p.iterations()
		r, err := greedy.StableSetWeights(x.Diag()[:n], g, greedy.WithIterations(iters), greedy.WithSeed(p.opts.Seed))
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		p.metrics.ObserveCandidates(MethodGreedy, iters)

		return recovery.IncidenceVector(r.Assignment), nil
	}
}

// DecodeSigns turns a rounded vector s into a stable set of g. Vertex i is
// selected when s[i] agrees in sign with the reference: +1, or s[n] when
// calibrated (Benson solutions carry a trailing calibration coordinate).
// Edges with both ends selected lose their later endpoint.
func DecodeSigns(s []float64, g *graph.Graph, calibrated bool) recovery.IncidenceVector {
	n := g.Order()
	v := make(recovery.IncidenceVector, n)
	if len(s) < n || (calibrated && len(s) <= n) {
		return v
	}
	ref := 1.0
	if calibrated {
		ref = s[n]
	}
	for i := 0; i < n; i++ {
		if s[i]*ref > 0 {
			v[i] = 1
		}
	}
	for _, e := range g.Edges() {
		if v[e.U] == 1 && v[e.V] == 1 {
			v[e.V] = 0
		}
	}

	return v
}

// hyperplane rounds a factor of x; the cost of a candidate is minus the size
// of its decoded stable set.
func (p *Pipeline) hyperplane(x *matrix.Dense, g *graph.Graph) (recovery.IncidenceVector, error) {
	n := g.Order()
	y, err := spectral.FactorizePSD(x, p.opts.FactorTol)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if p.opts.ReduceRank > 0 {
		var rank int
		if y, rank, err = elliptope.Project(y, p.opts.ReduceRank); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		p.log.Debug("factor projected", zap.Int("rank", rank))
	}
	calibrated := x.Rows() > n
	decode := func(s []float64) recovery.IncidenceVector { return DecodeSigns(s, g, calibrated) }

	res, err := rounding.Hyperplane(y, func(s []float64) float64 { return -float64(decode(s).Size()) },
		rounding.WithIterations(p.iterations()),
		rounding.WithSeed(p.opts.Seed),
		rounding.WithRadii(rounding.Uniform(p.opts.MinRadius), rounding.Uniform(p.opts.MaxRadius)),
		rounding.WithStallAfter(p.opts.StallAfter))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	p.metrics.ObserveCandidates(MethodHyperplane, res.Evaluated)
	if !res.Found {
		return make(recovery.IncidenceVector, n), nil
	}

	return decode(res.Assignment), nil
}

// iterations defaults to 100, the default of both rounding packages.
func (p *Pipeline) iterations() int {
	if p.opts.Iterations == 0 {
		return greedy.DefaultIterations
	}

	return p.opts.Iterations
}

func toFloats(v recovery.IncidenceVector) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}

	return out
}
