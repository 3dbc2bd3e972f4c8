// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/pkg/errors"
)

// Pebble is a Store over an embedded pebble database.
type Pebble struct {
	codecStore
	db *pebble.DB
}

type pebbleKV struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a pebble database in dir. A nil fs uses the
// operating system; tests pass vfs.NewMem().
func OpenPebble(dir string, fs vfs.FS) (*Pebble, error) {
	opts := &pebble.Options{}
	if fs != nil {
		opts.FS = fs
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble %q", dir)
	}

	return &Pebble{codecStore: codecStore{kv: pebbleKV{db: db}}, db: db}, nil
}

func (p pebbleKV) get(_ context.Context, key string) ([]byte, error) {
	v, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "pebble get")
	}
	defer closer.Close()
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (p pebbleKV) set(_ context.Context, key string, value []byte) error {
	return errors.Wrap(p.db.Set([]byte(key), value, pebble.Sync), "pebble set")
}

// Close flushes and closes the database.
func (p *Pebble) Close() error {
	return errors.Wrap(p.db.Close(), "close pebble")
}

var _ Store = (*Pebble)(nil)
