package session

import (
	"context"
	"sync"
)

// Store is the durable session state store, keyed by student id.
// Load returns (nil, nil) when the student has no stored session.
// Save is a full replace and a synchronous commit: once it returns nil the
// session must survive a crash-and-restart. A failed Save must leave the
// previously persisted session unchanged.
type Store interface {
	Load(ctx context.Context, studentID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, studentID string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewInMemoryStore() Store {
	return &memoryStore{sessions: map[string]*Session{}}
}

func (m *memoryStore) Load(_ context.Context, studentID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[studentID].Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.StudentID] = s.Clone()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, studentID)
	return nil
}
