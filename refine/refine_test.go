// SPDX-License-Identifier: MIT

package refine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/stablesdp/graph"
	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/refine"
	"github.com/katalvlaran/stablesdp/sdp"
)

// scripted replays a fixed sequence of solutions and records every objective.
type scripted struct {
	dim      int
	initial  sdp.Solution
	replies  []sdp.Solution
	failAt   int // 1-based call index that fails; 0 never
	cause    error
	calls    int
	received []*matrix.Dense
}

func (s *scripted) Dim() int { return s.dim }

func (s *scripted) Solve(context.Context) (sdp.Solution, error) { return s.initial, nil }

func (s *scripted) SolveLinear(_ context.Context, c *matrix.Dense, _ sdp.Sense) (sdp.Solution, error) {
	s.calls++
	s.received = append(s.received, c)
	if s.calls == s.failAt {
		return sdp.Solution{}, s.cause
	}
	reply := s.replies[(s.calls-1)%len(s.replies)]

	return reply, nil
}

func (s *scripted) Objective(sol sdp.Solution) float64 {
	tr, _ := matrix.Trace(sol.Re)
	return tr
}

func diag(t require.TestingT, d ...float64) sdp.Solution {
	m, err := matrix.NewDiagonal(d)
	require.NoError(t, err)

	return sdp.Solution{Re: m}
}

type RefineSuite struct {
	suite.Suite
	x0, a, b sdp.Solution
}

func (s *RefineSuite) SetupTest() {
	s.x0 = diag(s.T(), 10, 0)
	s.a = diag(s.T(), 1, 0)
	s.b = diag(s.T(), 0.5, 0.5)
}

func (s *RefineSuite) newRefiner(cfg refine.Config, opts ...refine.Option) *refine.Refiner {
	opts = append(opts, refine.WithLogger(zaptest.NewLogger(s.T())))
	r, err := refine.New(cfg, opts...)
	s.Require().NoError(err)

	return r
}

func (s *RefineSuite) TestConvergesAndKeepsPath() {
	p := &scripted{dim: 2, initial: s.x0, replies: []sdp.Solution{s.a, s.b, s.b}}
	cfg := refine.DefaultConfig()
	cfg.ReturnPath = true
	res, err := s.newRefiner(cfg).Run(context.Background(), p)
	s.Require().NoError(err)
	s.True(res.Converged)
	s.Equal(refine.ReasonConverged, res.Reason)
	s.Equal(3, res.Iterations)
	s.Len(res.Path, 3)
	s.Same(s.b.Re, res.Solution.Re)
	s.Zero(res.LastDelta)

	// objective of call k is the solution of call k−1
	v, _ := p.received[0].At(0, 0)
	s.Equal(10.0, v)
	v, _ = p.received[1].At(0, 0)
	s.Equal(1.0, v)
}

func (s *RefineSuite) TestSolverFailureIsSurfaced() {
	cause := errors.New("backend crashed")
	p := &scripted{dim: 2, initial: s.x0, replies: []sdp.Solution{s.a, s.b}, failAt: 2, cause: cause}
	res, err := s.newRefiner(refine.DefaultConfig()).Run(context.Background(), p)
	s.Require().Error(err)
	s.ErrorIs(err, sdp.ErrRelaxationSolveFailed)
	s.ErrorIs(err, cause)
	s.Equal(refine.ReasonError, res.Reason)
	s.Equal(1, res.Iterations)
	s.Equal(2, p.calls) // no retry
}

func (s *RefineSuite) TestMaxIterations() {
	p := &scripted{dim: 2, initial: s.x0, replies: []sdp.Solution{s.a, s.b}}
	cfg := refine.DefaultConfig()
	cfg.MaxIterations = 4
	res, err := s.newRefiner(cfg).Run(context.Background(), p)
	s.Require().NoError(err)
	s.False(res.Converged)
	s.Equal(refine.ReasonMaxIterations, res.Reason)
	s.Equal(4, res.Iterations)
	s.Nil(res.Path)
}

func (s *RefineSuite) TestStall() {
	p := &scripted{dim: 2, initial: s.x0, replies: []sdp.Solution{s.a, s.b}}
	cfg := refine.DefaultConfig()
	cfg.StallAfter = 2
	res, err := s.newRefiner(cfg).Run(context.Background(), p)
	s.Require().NoError(err)
	s.Equal(refine.ReasonStalled, res.Reason)
	s.Equal(4, res.Iterations)
}

func (s *RefineSuite) TestShiftEntersObjective() {
	shift, _ := matrix.NewFilled(2, 2, 1)
	p := &scripted{dim: 2, initial: s.x0, replies: []sdp.Solution{s.x0}}
	cfg := refine.DefaultConfig()
	cfg.Shift = shift
	res, err := s.newRefiner(cfg).RunFrom(context.Background(), p, s.x0)
	s.Require().NoError(err)
	s.True(res.Converged)
	s.Equal(1, res.Iterations)
	v, _ := p.received[0].At(0, 0)
	s.Equal(11.0, v)
	v, _ = p.received[0].At(0, 1)
	s.Equal(1.0, v)
}

func (s *RefineSuite) TestComplexSolutions() {
	im, _ := matrix.NewFromRows([][]float64{{0, 0.5}, {-0.5, 0}})
	c := sdp.Solution{Re: s.b.Re, Im: im}
	p := &scripted{dim: 2, initial: s.b, replies: []sdp.Solution{c, c}}
	for _, norm := range []refine.Norm{refine.Frobenius, refine.Spectral} {
		p.calls = 0
		cfg := refine.DefaultConfig()
		cfg.Norm = norm
		res, err := s.newRefiner(cfg).Run(context.Background(), p)
		s.Require().NoError(err)
		s.True(res.Converged, norm.String())
		s.Equal(2, res.Iterations)
	}
}

func (s *RefineSuite) TestDimensionChecks() {
	p := &scripted{dim: 3, initial: s.x0, replies: []sdp.Solution{s.a}}
	_, err := s.newRefiner(refine.DefaultConfig()).Run(context.Background(), p)
	s.ErrorIs(err, matrix.ErrDimensionMismatch)

	_, err = s.newRefiner(refine.DefaultConfig()).RunFrom(context.Background(), p, sdp.Solution{})
	s.ErrorIs(err, matrix.ErrNilMatrix)
}

func TestRefineSuite(t *testing.T) {
	suite.Run(t, new(RefineSuite))
}

func TestConfigValidate(t *testing.T) {
	cfg := refine.DefaultConfig()
	cfg.Tolerance = -1
	_, err := refine.New(cfg)
	require.ErrorIs(t, err, refine.ErrInvalidConfig)

	cfg = refine.DefaultConfig()
	cfg.Norm = refine.Norm(7)
	_, err = refine.New(cfg)
	require.ErrorIs(t, err, refine.ErrInvalidConfig)

	n, err := refine.ParseNorm("spectral")
	require.NoError(t, err)
	require.Equal(t, refine.Spectral, n)
	_, err = refine.ParseNorm("nuclear")
	require.ErrorIs(t, err, refine.ErrInvalidConfig)
}

func TestLogsPhases(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	x0 := diag(t, 1, 0)
	p := &scripted{dim: 2, initial: x0, replies: []sdp.Solution{x0}}
	r, err := refine.New(refine.DefaultConfig(), refine.WithLogger(zap.New(core)))
	require.NoError(t, err)
	_, err = r.Run(context.Background(), p)
	require.NoError(t, err)

	var phases []string
	for _, e := range logs.FilterMessage("objective").All() {
		phases = append(phases, e.ContextMap()["phase"].(string))
	}
	require.Equal(t, []string{"initial", "fixed point"}, phases)
	require.Equal(t, 2, logs.FilterMessage("eigenvalues").Len())
}

// The theta relaxation of an edgeless graph is already a fixed point.
func TestLovaszEdgelessFixedPoint(t *testing.T) {
	g := graph.New(5)
	p, err := sdp.NewLovasz(g, sdp.DefaultLovaszOptions())
	require.NoError(t, err)
	r, err := refine.New(refine.DefaultConfig(), refine.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	res, err := r.Run(context.Background(), p)
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Equal(t, 1, res.Iterations)
	require.InDelta(t, 5.0, p.Objective(res.Solution), 1e-9)
}
