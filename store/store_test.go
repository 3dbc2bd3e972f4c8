// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/stablesdp/matrix"
)

type BackendSuite struct {
	suite.Suite
	open  func() Store
	store Store
	ctx   context.Context
}

func (s *BackendSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.open()
}

func (s *BackendSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *BackendSuite) sample(v float64) *matrix.Dense {
	m, err := matrix.NewFromRows([][]float64{{v, 0.5}, {0.5, v}})
	s.Require().NoError(err)

	return m
}

func (s *BackendSuite) TestMissingKey() {
	_, err := s.store.LoadSamples(s.ctx, "nope")
	s.ErrorIs(err, ErrNotFound)
	_, err = s.store.LoadBundle(s.ctx, "nope")
	s.ErrorIs(err, ErrNotFound)
}

func (s *BackendSuite) TestSamplesRoundTrip() {
	key := SampleKey("lovasz", "toruspm3-8-50", 2)
	in := []*matrix.Dense{s.sample(1), s.sample(2)}
	s.Require().NoError(s.store.SaveSamples(s.ctx, key, in))

	out, err := s.store.LoadSamples(s.ctx, key)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(in[1].RawRowMajor(), out[1].RawRowMajor())

	// Save replaces.
	s.Require().NoError(s.store.SaveSamples(s.ctx, key, in[:1]))
	out, err = s.store.LoadSamples(s.ctx, key)
	s.Require().NoError(err)
	s.Len(out, 1)
}

func (s *BackendSuite) TestBundleRoundTrip() {
	b := NewBundle("c5", "lovasz", -2, s.sample(3))
	b.CustomKind = "refined"
	b.Aux = map[string][]float64{"p_g": {1, 2}}
	s.Require().NoError(s.store.SaveBundle(s.ctx, b))

	got, err := s.store.LoadBundle(s.ctx, "c5/c5_refined_lovasz_sol")
	s.Require().NoError(err)
	s.Equal(b.ID, got.ID)
	s.Equal(-2.0, got.Cost)
	s.Equal(b.Aux, got.Aux)
	s.Equal(b.Solution.RawRowMajor(), got.Solution.RawRowMajor())
}

func (s *BackendSuite) TestBundleWithoutSolutionGetsID() {
	s.Require().NoError(s.store.SaveBundle(s.ctx, Bundle{Case: "k3", Kind: "greedy", Cost: 1}))
	got, err := s.store.LoadBundle(s.ctx, BundleKey("k3", "greedy", ""))
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, got.ID)
	s.Nil(got.Solution)
}

func TestMemoryBackend(t *testing.T) {
	suite.Run(t, &BackendSuite{open: func() Store { return NewMemory() }})
}

func TestPebbleBackend(t *testing.T) {
	suite.Run(t, &BackendSuite{open: func() Store {
		p, err := OpenPebble("samples", vfs.NewMem())
		require.NoError(t, err)

		return p
	}})
}

func TestKeys(t *testing.T) {
	require.Equal(t, "benson_samples_g_7", SampleKey("benson", "g", 7))
	require.Equal(t, "c/c_x_sol", BundleKey("c", "x", ""))
	require.Equal(t, "pfx:k", redisKV{prefix: "pfx"}.key("k"))
	require.Equal(t, "k", redisKV{}.key("k"))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "mongo"})
	require.ErrorIs(t, err, ErrUnknownBackend)

	s, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)
}

func TestEncodeRejectsNilSample(t *testing.T) {
	_, err := encodeSamples([]*matrix.Dense{nil})
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
