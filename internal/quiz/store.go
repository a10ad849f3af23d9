package quiz

import (
	"context"
	"errors"
	"sync"
)

// ErrTestNotFound is returned when a test id resolves to nothing.
var ErrTestNotFound = errors.New("quiz: test not found")

// Store holds test definitions. The session engine only reads; the teacher
// upload endpoint is the single writer.
type Store interface {
	PutTest(ctx context.Context, t Test) error
	// GetTest returns the student-safe view (answer keys stripped).
	GetTest(ctx context.Context, id string) (Test, error)
	// GetTestFull returns the test with answer keys, for validation and scoring.
	GetTestFull(ctx context.Context, id string) (Test, error)
}

type memoryStore struct {
	mu    sync.RWMutex
	tests map[string]Test
}

func NewInMemoryStore() Store {
	return &memoryStore{tests: map[string]Test{}}
}

func (m *memoryStore) PutTest(_ context.Context, t Test) error {
	if err := t.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[t.ID] = t
	return nil
}

func (m *memoryStore) GetTest(ctx context.Context, id string) (Test, error) {
	t, err := m.GetTestFull(ctx, id)
	if err != nil {
		return Test{}, err
	}
	qs := make([]Question, len(t.Questions))
	for i, q := range t.Questions {
		qs[i] = q.Sanitized()
	}
	t.Questions = qs
	return t, nil
}

func (m *memoryStore) GetTestFull(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, ErrTestNotFound
	}
	qs := make([]Question, len(t.Questions))
	copy(qs, t.Questions)
	t.Questions = qs
	return t, nil
}
