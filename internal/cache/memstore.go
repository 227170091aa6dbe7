package cache

import (
	"sync"
)

// MemoryStore is an in-process cache backend. It backs tests and
// embedders that want compilation deduplication without touching disk.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	locks   map[string]*sync.Mutex
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Has reports whether an entry exists for the key.
func (s *MemoryStore) Has(kind Kind, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[Filename(kind, key)]
	return ok
}

// Read returns a copy of the stored document for the key.
func (s *MemoryStore) Read(kind Kind, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.entries[Filename(kind, key)]
	if !ok {
		return nil, &NotCachedError{Kind: kind, Key: key}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write stores a copy of the document under the key.
func (s *MemoryStore) Write(kind Kind, key string, data []byte) error {
	if !isValidKey(key) {
		return &InvalidKeyError{Key: key}
	}
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[Filename(kind, key)] = stored
	return nil
}

// Lock acquires the per-key mutex and returns its release function.
func (s *MemoryStore) Lock(key string) (func() error, error) {
	if !isValidKey(key) {
		return nil, &InvalidKeyError{Key: key}
	}

	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return func() error {
		m.Unlock()
		return nil
	}, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
