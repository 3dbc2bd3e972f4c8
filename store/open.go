// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
	BackendRedis  = "redis"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("store: unknown backend")

// Options selects and addresses a backend.
type Options struct {
	Backend string
	Path    string // pebble directory
	Redis   RedisConfig
}

// Open builds the backend named by opts.Backend ("" means memory).
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendPebble:
		p, err := OpenPebble(opts.Path, nil)
		if err != nil {
			return nil, err
		}

		return p, nil
	case BackendRedis:
		r, err := OpenRedis(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}

		return r, nil
	default:
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", opts.Backend)
	}
}
