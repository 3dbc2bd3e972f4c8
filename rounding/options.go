// SPDX-License-Identifier: MIT

package rounding

import "math/rand"

// DefaultIterations is the number of random directions drawn by default.
const DefaultIterations = 100

// defaultRNGSeed is used when Options.Seed == 0 and no Rand is supplied.
const defaultRNGSeed int64 = 1

// Options configure Hyperplane and HyperplaneComplex.
type Options struct {
	// Iterations is the number of random directions (0 yields no assignment).
	Iterations int
	// MinRadius and MaxRadius describe the target annulus; both Uniform(1)
	// selects the unit-sphere rounding.
	MinRadius, MaxRadius Radius
	// Rand is the random source. When nil, a private source seeded with Seed is used.
	Rand *rand.Rand
	// Seed seeds the private source (0 ⇒ fixed default).
	Seed int64
	// StallAfter stops the search after this many consecutive candidates
	// without strict improvement (0 disables).
	StallAfter int
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns 100 iterations onto the unit sphere.
func DefaultOptions() Options {
	return Options{
		Iterations: DefaultIterations,
		MinRadius:  Uniform(1),
		MaxRadius:  Uniform(1),
	}
}

// WithIterations sets the number of random directions.
func WithIterations(n int) Option { return func(o *Options) { o.Iterations = n } }

// WithRadii sets the target annulus.
func WithRadii(minR, maxR Radius) Option {
	return func(o *Options) { o.MinRadius, o.MaxRadius = minR, maxR }
}

// WithRand injects the random source.
func WithRand(r *rand.Rand) Option { return func(o *Options) { o.Rand = r } }

// WithSeed seeds the private random source.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithStallAfter enables early stopping after k non-improving candidates.
func WithStallAfter(k int) Option { return func(o *Options) { o.StallAfter = k } }

func (o Options) unitSphere() bool {
	return o.MinRadius.IsUniform() && o.MaxRadius.IsUniform() &&
		o.MinRadius.At(0) == 1 && o.MaxRadius.At(0) == 1
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	s := o.Seed
	if s == 0 {
		s = defaultRNGSeed
	}

	return rand.New(rand.NewSource(s))
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
