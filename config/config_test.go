// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/stablesdp/config"
	"github.com/katalvlaran/stablesdp/recovery"
	"github.com/katalvlaran/stablesdp/refine"
	"github.com/katalvlaran/stablesdp/store"
)

const sample = `
[refine]
max_iterations = 50
norm = "spectral"
stall_after = 3

[rounding]
mode = "hyperplane"
iterations = 20
seed = 9

[recovery]
scheme = "benson"
tolerance = 1e-5

[store]
backend = "pebble"
path = "/tmp/stablesdp"

[log]
debug = true
`

func TestParseFillsDefaults(t *testing.T) {
	c, err := config.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 50, c.Refine.MaxIterations)
	assert.Equal(t, refine.DefaultTolerance, c.Refine.Tolerance)
	assert.Equal(t, 1.0, c.Rounding.MinRadius)
	assert.True(t, c.Log.Debug)

	rc, err := c.RefineConfig()
	require.NoError(t, err)
	assert.Equal(t, refine.Spectral, rc.Norm)
	assert.Equal(t, 3, rc.StallAfter)

	s, err := c.Scheme()
	require.NoError(t, err)
	assert.Equal(t, recovery.Benson{Tol: 1e-5}, s)

	so := c.StoreOptions()
	assert.Equal(t, store.BackendPebble, so.Backend)
	assert.Equal(t, "/tmp/stablesdp", so.Path)
	assert.Len(t, c.HyperplaneOptions(), 4)
	assert.Len(t, c.GreedyOptions(), 2)
	assert.Equal(t, 10.0, c.LovaszOptions().Penalty)
}

func TestDefaultIsValid(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	s, err := c.Scheme()
	require.NoError(t, err)
	assert.Equal(t, recovery.Lovasz{FactorTol: 1e-9, PositiveTol: 1e-6}, s)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*config.Config){
		"norm":         func(c *config.Config) { c.Refine.Norm = "nuclear" },
		"mode":         func(c *config.Config) { c.Rounding.Mode = "threshold" },
		"radii":        func(c *config.Config) { c.Rounding.MinRadius, c.Rounding.MaxRadius = 2, 1 },
		"scheme":       func(c *config.Config) { c.Recovery.Scheme = "goemans" },
		"backend":      func(c *config.Config) { c.Store.Backend = "mongo" },
		"pebble path":  func(c *config.Config) { c.Store.Backend = store.BackendPebble },
		"redis addr":   func(c *config.Config) { c.Store.Backend = store.BackendRedis },
		"negative tol": func(c *config.Config) { c.Spectral.ClipTolerance = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := config.Default()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), config.ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "benson", c.Recovery.Scheme)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = config.Parse([]byte("[refine\n"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l, err := config.NewLogger(debug)
		require.NoError(t, err)
		require.NotNil(t, l)
	}
}
