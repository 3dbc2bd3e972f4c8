// SPDX-License-Identifier: MIT

// Package refine implements the fixed-point refinement of a relaxation: the
// problem is re-solved with the linear objective trace(X·(X_prev + shift))
// over its unchanged feasible region until successive solutions agree to
// within a tolerance. Pushing the solution towards its own previous value
// drives it to extreme points of the region, which for 0/1 relaxations tend
// to be low-rank.
//
// The loop is bounded by Config.MaxIterations and optionally by
// Config.StallAfter. Solver failures abort immediately and are reported as
// sdp.ErrRelaxationSolveFailed; there is no retry.
//
// A Refiner keeps no state between runs, but a single Problem must not be
// refined concurrently.
package refine

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/metrics"
	"github.com/katalvlaran/stablesdp/sdp"
	"github.com/katalvlaran/stablesdp/spectral"
)

// Reason is why a run stopped.
type Reason string

const (
	ReasonConverged     Reason = "converged"
	ReasonMaxIterations Reason = "max_iterations"
	ReasonStalled       Reason = "stalled"
	ReasonError         Reason = "error"
)

// Result of a run.
type Result struct {
	Solution   sdp.Solution   // last solution
	Path       []sdp.Solution // every re-solve, when Config.ReturnPath
	Iterations int
	Converged  bool
	Reason     Reason
	LastDelta  float64
}

// Refiner runs the fixed-point iteration.
type Refiner struct {
	cfg     Config
	log     *zap.Logger
	metrics *metrics.Collector
}

// Option configures a Refiner.
type Option func(*Refiner)

// WithLogger sets the diagnostic logger (nil ⇒ no-op).
func WithLogger(l *zap.Logger) Option {
	return func(r *Refiner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics sets the Prometheus collector (nil ⇒ no-op).
func WithMetrics(m *metrics.Collector) Option { return func(r *Refiner) { r.metrics = m } }

// New validates cfg and returns a Refiner.
func New(cfg Config, opts ...Option) (*Refiner, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("refine: %w", err)
	}
	r := &Refiner{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Run solves p once and refines from that solution.
func (r *Refiner) Run(ctx context.Context, p sdp.Problem) (Result, error) {
	start, err := p.Solve(ctx)
	if err != nil {
		r.metrics.ObserveRun(string(ReasonError))
		return Result{Reason: ReasonError}, fmt.Errorf("refine: initial solve: %w: %w", sdp.ErrRelaxationSolveFailed, err)
	}

	return r.RunFrom(ctx, p, start)
}

// RunFrom refines starting from the snapshot initial.
func (r *Refiner) RunFrom(ctx context.Context, p sdp.Problem, initial sdp.Solution) (Result, error) {
	if initial.Re == nil {
		return Result{}, fmt.Errorf("refine: initial solution: %w", matrix.ErrNilMatrix)
	}
	if initial.Re.Rows() != p.Dim() {
		return Result{}, fmt.Errorf("refine: solution %d for dim %d: %w", initial.Re.Rows(), p.Dim(), matrix.ErrDimensionMismatch)
	}
	if r.cfg.Shift != nil && r.cfg.Shift.Rows() != p.Dim() {
		return Result{}, fmt.Errorf("refine: shift %d for dim %d: %w", r.cfg.Shift.Rows(), p.Dim(), matrix.ErrDimensionMismatch)
	}

	prev := initial
	r.logPhase("initial", p, prev, true)

	res := Result{LastDelta: math.Inf(1)}
	bestDelta := math.Inf(1)
	var stall int
	for res.Iterations < r.cfg.MaxIterations {
		c, err := r.objective(prev)
		if err != nil {
			return res, fmt.Errorf("refine: objective: %w", err)
		}
		t0 := time.Now()
		sol, err := p.SolveLinear(ctx, c, sdp.Maximize)
		r.metrics.ObserveIteration(time.Since(t0))
		if err != nil {
			res.Reason = ReasonError
			r.metrics.ObserveRun(string(res.Reason))
			return res, fmt.Errorf("refine: iteration %d: %w: %w", res.Iterations+1, sdp.ErrRelaxationSolveFailed, err)
		}
		res.Iterations++
		if r.cfg.ReturnPath {
			res.Path = append(res.Path, sol)
		}
		res.Solution = sol

		delta, err := r.distance(sol, prev)
		if err != nil {
			return res, fmt.Errorf("refine: distance: %w", err)
		}
		res.LastDelta = delta
		if delta < r.cfg.Tolerance {
			res.Converged, res.Reason = true, ReasonConverged
			break
		}
		r.logPhase("current", p, sol, r.cfg.Verbose)
		if delta < bestDelta {
			bestDelta, stall = delta, 0
		} else {
			stall++
		}
		if r.cfg.StallAfter > 0 && stall >= r.cfg.StallAfter {
			res.Reason = ReasonStalled
			break
		}
		prev = sol
	}
	if res.Reason == "" {
		res.Reason = ReasonMaxIterations
	}
	if res.Iterations == 0 {
		res.Solution = initial
	}

	r.logPhase("fixed point", p, res.Solution, true)
	r.log.Info("refinement finished",
		zap.Int("iterations", res.Iterations),
		zap.String("reason", string(res.Reason)),
		zap.Float64("delta", res.LastDelta))
	r.metrics.ObserveRun(string(res.Reason))

	return res, nil
}

// objective returns Re(prev) + shift.
func (r *Refiner) objective(prev sdp.Solution) (*matrix.Dense, error) {
	if r.cfg.Shift == nil {
		return prev.Re.Copy(), nil
	}

	return matrix.Add(prev.Re, r.cfg.Shift)
}

// distance is ‖a − b‖ in the configured norm, over both parts of a
// Hermitian solution.
func (r *Refiner) distance(a, b sdp.Solution) (float64, error) {
	dRe, err := matrix.Sub(a.Re, b.Re)
	if err != nil {
		return 0, err
	}
	var dIm *matrix.Dense
	if a.Im != nil || b.Im != nil {
		ai, bi := imagOrZero(a), imagOrZero(b)
		if dIm, err = matrix.Sub(ai, bi); err != nil {
			return 0, err
		}
	}

	switch r.cfg.Norm {
	case Spectral:
		if dIm == nil {
			return spectral.SpectralNorm(dRe)
		}
		h, err := matrix.NewCDenseFromParts(dRe, dIm)
		if err != nil {
			return 0, err
		}
		return spectral.SpectralNormHermitian(h)
	default:
		f := matrix.FrobeniusNorm(dRe)
		if dIm == nil {
			return f, nil
		}
		fi := matrix.FrobeniusNorm(dIm)
		return math.Hypot(f, fi), nil
	}
}

func imagOrZero(s sdp.Solution) *matrix.Dense {
	if s.Im != nil {
		return s.Im
	}
	z, _ := matrix.NewDense(s.Re.Rows(), s.Re.Cols())

	return z
}

// logPhase logs the objective at Info and the spectrum at Info (spectrum
// true) or Debug.
func (r *Refiner) logPhase(phase string, p sdp.Problem, sol sdp.Solution, spectrum bool) {
	r.log.Info("objective", zap.String("phase", phase), zap.Float64("objective", p.Objective(sol)))
	level := zap.DebugLevel
	if spectrum {
		level = zap.InfoLevel
	}
	if ce := r.log.Check(level, "eigenvalues"); ce != nil {
		vals, err := eigenvalues(sol)
		if err != nil {
			ce.Write(zap.String("phase", phase), zap.Error(err))
			return
		}
		ce.Write(zap.String("phase", phase), zap.Float64s("eigenvalues", vals))
	}
}

// eigenvalues returns the ascending spectrum of sol.
func eigenvalues(sol sdp.Solution) ([]float64, error) {
	if sol.Im == nil {
		return spectral.Eigenvalues(sol.Re)
	}
	h, err := sol.Complex()
	if err != nil {
		return nil, err
	}
	d, err := spectral.SortedEigenHermitian(h)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(d.Values))
	for i, v := range d.Values {
		out[len(out)-1-i] = v
	}

	return out, nil
}
