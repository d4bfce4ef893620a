package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. Sessions do not
// survive a restart; meant for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := s
	return &out, nil
}

func (m *MemoryStore) Put(ctx context.Context, id string, s *Session) error {
	if s == nil || s.Token == "" || s.User == nil {
		return ErrIncompleteSession
	}
	m.mu.Lock()
	m.sessions[id] = *s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
