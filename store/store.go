// SPDX-License-Identifier: MIT

// Package store persists feasible-region samples and solution bundles.
//
// Three backends share one byte-level contract (Get/Set on string keys) and
// one JSON codec:
//   - Memory: process-local map, for tests and one-shot CLI runs
//   - Pebble: embedded LSM store under a directory
//   - Redis: shared remote store for several workers
//
// Keys follow the experiment folder layout:
// SampleKey gives "<scheme>_samples_<graph>_<n>" and BundleKey gives
// "<case>/<case>[_<custom>]_<kind>_sol".
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/katalvlaran/stablesdp/matrix"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("store: not found")

// SampleStore loads and saves sample sequences.
type SampleStore interface {
	// LoadSamples returns the samples under key or ErrNotFound.
	LoadSamples(ctx context.Context, key string) ([]*matrix.Dense, error)
	// SaveSamples replaces the samples under key.
	SaveSamples(ctx context.Context, key string, samples []*matrix.Dense) error
}

// SolutionStore loads and saves solution bundles.
type SolutionStore interface {
	// LoadBundle returns the bundle under key or ErrNotFound.
	LoadBundle(ctx context.Context, key string) (Bundle, error)
	// SaveBundle stores b under b.Key().
	SaveBundle(ctx context.Context, b Bundle) error
}

// Store is a backend serving both sample and solution persistence.
type Store interface {
	SampleStore
	SolutionStore
	io.Closer
}

// Bundle is a named solution: a cost, a matrix (X = V·Vᴴ or the factor V
// itself) and optional auxiliary vectors.
type Bundle struct {
	ID         uuid.UUID
	Case       string
	Kind       string
	CustomKind string
	Cost       float64
	Solution   *matrix.Dense
	Aux        map[string][]float64
}

// NewBundle stamps a fresh identifier on a bundle.
func NewBundle(caseName, kind string, cost float64, sol *matrix.Dense) Bundle {
	return Bundle{
		ID:       uuid.New(),
		Case:     caseName,
		Kind:     kind,
		Cost:     cost,
		Solution: sol,
	}
}

// Key returns the bundle's storage key.
func (b Bundle) Key() string { return BundleKey(b.Case, b.Kind, b.CustomKind) }

// SampleKey builds "<scheme>_samples_<graph>_<n>".
func SampleKey(scheme, graphName string, n int) string {
	return fmt.Sprintf("%s_samples_%s_%d", scheme, graphName, n)
}

// BundleKey builds "<case>/<case>[_<custom>]_<kind>_sol".
func BundleKey(caseName, kind, custom string) string {
	if custom != "" {
		return fmt.Sprintf("%s/%s_%s_%s_sol", caseName, caseName, custom, kind)
	}

	return fmt.Sprintf("%s/%s_%s_sol", caseName, caseName, kind)
}

// kv is the byte-level contract every backend implements.
type kv interface {
	get(ctx context.Context, key string) ([]byte, error)
	set(ctx context.Context, key string, value []byte) error
}

// codecStore adds the JSON codec on top of a kv backend.
type codecStore struct {
	kv kv
}

func (s codecStore) LoadSamples(ctx context.Context, key string) ([]*matrix.Dense, error) {
	raw, err := s.kv.get(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "load samples %q", key)
	}
	out, err := decodeSamples(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "load samples %q", key)
	}

	return out, nil
}

func (s codecStore) SaveSamples(ctx context.Context, key string, samples []*matrix.Dense) error {
	raw, err := encodeSamples(samples)
	if err != nil {
		return errors.Wrapf(err, "save samples %q", key)
	}

	return errors.Wrapf(s.kv.set(ctx, key, raw), "save samples %q", key)
}

func (s codecStore) LoadBundle(ctx context.Context, key string) (Bundle, error) {
	raw, err := s.kv.get(ctx, key)
	if err != nil {
		return Bundle{}, errors.Wrapf(err, "load bundle %q", key)
	}
	b, err := decodeBundle(raw)
	if err != nil {
		return Bundle{}, errors.Wrapf(err, "load bundle %q", key)
	}

	return b, nil
}

func (s codecStore) SaveBundle(ctx context.Context, b Bundle) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	raw, err := encodeBundle(b)
	if err != nil {
		return errors.Wrapf(err, "save bundle %q", b.Key())
	}

	return errors.Wrapf(s.kv.set(ctx, b.Key(), raw), "save bundle %q", b.Key())
}
