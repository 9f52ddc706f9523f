package localstore

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryProvider keeps session state in process memory. Used in tests and
// single-node development; production uses the Redis provider so sessions
// survive restarts.
type MemoryProvider struct {
	mu       sync.Mutex
	sessions map[string]*memoryStore
}

// NewMemoryProvider creates a new in-memory session provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{sessions: make(map[string]*memoryStore)}
}

// ForSession returns the store for the given session, creating it on first use
func (p *MemoryProvider) ForSession(id string) Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[id]
	if !ok {
		s = &memoryStore{values: make(map[string]json.RawMessage)}
		p.sessions[id] = s
	}
	return s
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string]json.RawMessage
}

func (s *memoryStore) Get(_ context.Context, key string, v any) error {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, v)
}

func (s *memoryStore) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}
