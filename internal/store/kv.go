// Package store provides the durable key-value persistence port for the
// editing subsystem, plus the typed stores (geometry, content) layered on
// top of it. All region state shares one process-wide KV; region keys
// never collide because region ids differ, and same-key writes are
// last-write-wins by user interaction ordering.
package store

import "sync"

// KV is the persistence port: synchronous get/set/delete of string values
// by string key. Implementations must be safe for concurrent use.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemKV is the in-memory KV backend. It backs tests and serves as the
// degraded fallback when the sqlite store cannot be opened: the page keeps
// working, edits just don't survive a restart.
type MemKV struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemKV creates an empty in-memory store.
func NewMemKV() *MemKV {
	return &MemKV{m: make(map[string]string)}
}

func (s *MemKV) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MemKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// Len reports the number of stored keys.
func (s *MemKV) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
