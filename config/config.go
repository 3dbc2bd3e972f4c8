// SPDX-License-Identifier: MIT

// Package config loads the TOML run configuration and turns each section into
// the option types of the library packages.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/katalvlaran/stablesdp/greedy"
	"github.com/katalvlaran/stablesdp/recovery"
	"github.com/katalvlaran/stablesdp/refine"
	"github.com/katalvlaran/stablesdp/rounding"
	"github.com/katalvlaran/stablesdp/sdp"
	"github.com/katalvlaran/stablesdp/spectral"
	"github.com/katalvlaran/stablesdp/store"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Rounding modes of the fallback stage.
const (
	RoundingGreedy     = "greedy"
	RoundingHyperplane = "hyperplane"
)

// Config is the full run configuration.
type Config struct {
	Spectral SpectralConfig `toml:"spectral"`
	Refine   RefineConfig   `toml:"refine"`
	Rounding RoundingConfig `toml:"rounding"`
	Recovery RecoveryConfig `toml:"recovery"`
	Solver   SolverConfig   `toml:"solver"`
	Store    StoreConfig    `toml:"store"`
	Log      LogConfig      `toml:"log"`
}

// SpectralConfig holds eigenvalue thresholds.
type SpectralConfig struct {
	FactorTolerance float64 `toml:"factor_tolerance"`
	ClipTolerance   float64 `toml:"clip_tolerance"`
}

// RefineConfig mirrors refine.Config.
type RefineConfig struct {
	MaxIterations int     `toml:"max_iterations"`
	Tolerance     float64 `toml:"tolerance"`
	Norm          string  `toml:"norm"`
	StallAfter    int     `toml:"stall_after"`
	Verbose       bool    `toml:"verbose"`
}

// RoundingConfig drives the fallback rounding stage.
type RoundingConfig struct {
	Mode       string  `toml:"mode"`
	Iterations int     `toml:"iterations"`
	Seed       int64   `toml:"seed"`
	MinRadius  float64 `toml:"min_radius"`
	MaxRadius  float64 `toml:"max_radius"`
	StallAfter int     `toml:"stall_after"`
	ReduceRank int     `toml:"reduce_rank"`
}

// RecoveryConfig selects the incidence-vector scheme.
type RecoveryConfig struct {
	Scheme    string  `toml:"scheme"`
	Tolerance float64 `toml:"tolerance"`
}

// SolverConfig tunes the reference Lovász solver.
type SolverConfig struct {
	Iterations int     `toml:"iterations"`
	Penalty    float64 `toml:"penalty"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`
	RedisAddr string `toml:"redis_addr"`
	Prefix    string `toml:"prefix"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Debug bool `toml:"debug"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Spectral: SpectralConfig{FactorTolerance: spectral.DefaultFactorTol, ClipTolerance: spectral.DefaultClipTol},
		Refine: RefineConfig{
			MaxIterations: refine.DefaultMaxIterations,
			Tolerance:     refine.DefaultTolerance,
			Norm:          refine.Frobenius.String(),
		},
		Rounding: RoundingConfig{
			Mode:       RoundingGreedy,
			Iterations: rounding.DefaultIterations,
			MinRadius:  1,
			MaxRadius:  1,
		},
		Recovery: RecoveryConfig{Scheme: "lovasz", Tolerance: recovery.DefaultTol},
		Solver:   SolverConfig{Iterations: sdp.DefaultIterations, Penalty: sdp.DefaultPenalty},
		Store:    StoreConfig{Backend: store.BackendMemory},
	}
}

// WithDefaults fills every zero field from Default.
func (c Config) WithDefaults() Config {
	d := Default()
	if c.Spectral.FactorTolerance == 0 {
		c.Spectral.FactorTolerance = d.Spectral.FactorTolerance
	}
	if c.Spectral.ClipTolerance == 0 {
		c.Spectral.ClipTolerance = d.Spectral.ClipTolerance
	}
	if c.Refine.MaxIterations == 0 {
		c.Refine.MaxIterations = d.Refine.MaxIterations
	}
	if c.Refine.Tolerance == 0 {
		c.Refine.Tolerance = d.Refine.Tolerance
	}
	if c.Refine.Norm == "" {
		c.Refine.Norm = d.Refine.Norm
	}
	if c.Rounding.Mode == "" {
		c.Rounding.Mode = d.Rounding.Mode
	}
	if c.Rounding.Iterations == 0 {
		c.Rounding.Iterations = d.Rounding.Iterations
	}
	if c.Rounding.MinRadius == 0 {
		c.Rounding.MinRadius = d.Rounding.MinRadius
	}
	if c.Rounding.MaxRadius == 0 {
		c.Rounding.MaxRadius = d.Rounding.MaxRadius
	}
	if c.Recovery.Scheme == "" {
		c.Recovery.Scheme = d.Recovery.Scheme
	}
	if c.Recovery.Tolerance == 0 {
		c.Recovery.Tolerance = d.Recovery.Tolerance
	}
	if c.Solver.Iterations == 0 {
		c.Solver.Iterations = d.Solver.Iterations
	}
	if c.Solver.Penalty == 0 {
		c.Solver.Penalty = d.Solver.Penalty
	}
	if c.Store.Backend == "" {
		c.Store.Backend = d.Store.Backend
	}

	return c
}

// Validate rejects negative numbers and unknown enum values.
func (c Config) Validate() error {
	if c.Spectral.FactorTolerance < 0 || c.Spectral.ClipTolerance < 0 {
		return errors.Wrap(ErrInvalid, "spectral tolerances must be ≥ 0")
	}
	if _, err := c.RefineConfig(); err != nil {
		return errors.Wrapf(ErrInvalid, "refine: %v", err)
	}
	switch c.Rounding.Mode {
	case RoundingGreedy, RoundingHyperplane:
	default:
		return errors.Wrapf(ErrInvalid, "rounding mode %q", c.Rounding.Mode)
	}
	if c.Rounding.Iterations < 0 || c.Rounding.StallAfter < 0 || c.Rounding.ReduceRank < 0 {
		return errors.Wrap(ErrInvalid, "rounding counts must be ≥ 0")
	}
	if c.Rounding.MinRadius < 0 || c.Rounding.MaxRadius < c.Rounding.MinRadius {
		return errors.Wrapf(ErrInvalid, "rounding radii [%g, %g]", c.Rounding.MinRadius, c.Rounding.MaxRadius)
	}
	if c.Recovery.Tolerance < 0 {
		return errors.Wrap(ErrInvalid, "recovery tolerance must be ≥ 0")
	}
	if _, err := c.Scheme(); err != nil {
		return errors.Wrapf(ErrInvalid, "recovery: %v", err)
	}
	if c.Solver.Iterations < 0 || c.Solver.Penalty < 0 {
		return errors.Wrap(ErrInvalid, "solver parameters must be ≥ 0")
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendPebble, store.BackendRedis:
	default:
		return errors.Wrapf(ErrInvalid, "store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == store.BackendPebble && c.Store.Path == "" {
		return errors.Wrap(ErrInvalid, "pebble store needs a path")
	}
	if c.Store.Backend == store.BackendRedis && c.Store.RedisAddr == "" {
		return errors.Wrap(ErrInvalid, "redis store needs redis_addr")
	}

	return nil
}

// Parse decodes TOML, fills defaults and validates.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Load reads and parses the TOML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %q", path)
	}

	return Parse(data)
}

// RefineConfig converts the [refine] section.
func (c Config) RefineConfig() (refine.Config, error) {
	norm, err := refine.ParseNorm(c.Refine.Norm)
	if err != nil {
		return refine.Config{}, err
	}
	rc := refine.Config{
		MaxIterations: c.Refine.MaxIterations,
		Tolerance:     c.Refine.Tolerance,
		Norm:          norm,
		StallAfter:    c.Refine.StallAfter,
		Verbose:       c.Refine.Verbose,
	}

	return rc, rc.Validate()
}

// Scheme converts the [recovery] section.
func (c Config) Scheme() (recovery.Scheme, error) {
	s, err := recovery.ParseScheme(c.Recovery.Scheme, c.Recovery.Tolerance)
	if err != nil {
		return nil, err
	}
	if l, ok := s.(recovery.Lovasz); ok {
		l.FactorTol = c.Spectral.FactorTolerance
		return l, nil
	}

	return s, nil
}

// HyperplaneOptions converts the [rounding] section for rounding.Hyperplane.
func (c Config) HyperplaneOptions() []rounding.Option {
	return []rounding.Option{
		rounding.WithIterations(c.Rounding.Iterations),
		rounding.WithSeed(c.Rounding.Seed),
		rounding.WithRadii(rounding.Uniform(c.Rounding.MinRadius), rounding.Uniform(c.Rounding.MaxRadius)),
		rounding.WithStallAfter(c.Rounding.StallAfter),
	}
}

// GreedyOptions converts the [rounding] section for greedy.StableSet.
func (c Config) GreedyOptions() []greedy.Option {
	return []greedy.Option{
		greedy.WithIterations(c.Rounding.Iterations),
		greedy.WithSeed(c.Rounding.Seed),
	}
}

// LovaszOptions converts the [solver] section.
func (c Config) LovaszOptions() sdp.LovaszOptions {
	o := sdp.DefaultLovaszOptions()
	o.Iterations = c.Solver.Iterations
	o.Penalty = c.Solver.Penalty

	return o
}

// StoreOptions converts the [store] section.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend: c.Store.Backend,
		Path:    c.Store.Path,
		Redis:   store.RedisConfig{Addr: c.Store.RedisAddr, Prefix: c.Store.Prefix},
	}
}

// NewLogger builds a development logger when debug is set, a production one
// otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}

	return l, errors.Wrap(err, "build logger")
}
