// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"sync"
)

// Memory is a process-local Store.
type Memory struct {
	codecStore
	m *memoryKV
}

type memoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	m := &memoryKV{data: make(map[string][]byte)}

	return &Memory{codecStore: codecStore{kv: m}, m: m}
}

func (m *memoryKV) get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (m *memoryKV) set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v

	return nil
}

// Len returns the number of stored keys.
func (s *Memory) Len() int {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	return len(s.m.data)
}

// Close implements io.Closer.
func (s *Memory) Close() error { return nil }

var _ Store = (*Memory)(nil)
