// SPDX-License-Identifier: MIT

// Package sampling draws points of a relaxation's feasible region by
// minimising random linear objectives trace(C·X), C = A + Aᵀ with A
// uniform on [−1, 1]. Samples accumulate across runs in a store.SampleStore.
package sampling

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/katalvlaran/stablesdp/matrix"
	"github.com/katalvlaran/stablesdp/sdp"
	"github.com/katalvlaran/stablesdp/store"
)

const defaultRNGSeed int64 = 1

// ErrInvalidIterations indicates a negative sample count.
var ErrInvalidIterations = errors.New("sampling: iterations must be ≥ 0")

// Sampler draws feasible-region samples.
type Sampler struct {
	store store.SampleStore
	log   *zap.Logger
	rng   *rand.Rand
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithStore persists samples; without it nothing is loaded or saved.
func WithStore(s store.SampleStore) Option { return func(sm *Sampler) { sm.store = s } }

// WithLogger sets the logger (nil ⇒ no-op).
func WithLogger(l *zap.Logger) Option {
	return func(sm *Sampler) {
		if l != nil {
			sm.log = l
		}
	}
}

// WithRand injects the random source.
func WithRand(r *rand.Rand) Option {
	return func(sm *Sampler) {
		if r != nil {
			sm.rng = r
		}
	}
}

// WithSeed seeds a private random source (0 ⇒ fixed default).
func WithSeed(seed int64) Option {
	return func(sm *Sampler) {
		if seed == 0 {
			seed = defaultRNGSeed
		}
		sm.rng = rand.New(rand.NewSource(seed))
	}
}

// New returns a Sampler.
func New(opts ...Option) *Sampler {
	s := &Sampler{log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(defaultRNGSeed))
	}

	return s
}

// RandomObjective returns A + Aᵀ for an n×n A with entries uniform on [−1, 1].
func RandomObjective(n int, rng *rand.Rand) (*matrix.Dense, error) {
	a, err := matrix.NewDense(n, n)
	if err != nil {
		return nil, err
	}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			_ = a.Set(i, j, 2*rng.Float64()-1)
		}
	}
	at, _ := matrix.Transpose(a)

	return matrix.Add(a, at)
}

// FeasibleRegion draws iterations new samples of p's feasible region and
// returns them appended to whatever the store already holds under key.
// The combined sequence is written back when new samples were drawn.
//
// Errors: ErrInvalidIterations; sdp.ErrRelaxationSolveFailed wrapping the
// solver cause; store errors other than store.ErrNotFound.
func (s *Sampler) FeasibleRegion(ctx context.Context, p sdp.Problem, key string, iterations int) ([]*matrix.Dense, error) {
	if iterations < 0 {
		return nil, ErrInvalidIterations
	}
	log := s.log.With(zap.String("key", key))

	var samples []*matrix.Dense
	if s.store != nil {
		prev, err := s.store.LoadSamples(ctx, key)
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Debug("no stored samples")
		case err != nil:
			return nil, fmt.Errorf("sampling: %w", err)
		default:
			samples = prev
			log.Debug("loaded samples", zap.Int("count", len(prev)))
		}
	}

	n := p.Dim()
	for i := 0; i < iterations; i++ {
		c, err := RandomObjective(n, s.rng)
		if err != nil {
			return nil, fmt.Errorf("sampling: %w", err)
		}
		sol, err := p.SolveLinear(ctx, c, sdp.Minimize)
		if err != nil {
			return nil, fmt.Errorf("sampling: sample %d: %w: %w", i, sdp.ErrRelaxationSolveFailed, err)
		}
		samples = append(samples, sol.Re)
		log.Debug("sample", zap.Int("index", i), zap.Float64("value", sol.Value))
	}

	if s.store != nil && iterations > 0 {
		if err := s.store.SaveSamples(ctx, key, samples); err != nil {
			return nil, fmt.Errorf("sampling: %w", err)
		}
	}
	log.Info("feasible region sampled", zap.Int("new", iterations), zap.Int("total", len(samples)))

	return samples, nil
}
