package results

import (
	"context"
	"sync"
)

// Store is the append-only result record store.
type Store interface {
	Append(ctx context.Context, r Result) error
	// ListByTest returns results for a test, newest first. limit <= 0 means all.
	ListByTest(ctx context.Context, testID string, limit int) ([]Result, error)
}

type memoryStore struct {
	mu      sync.RWMutex
	records []Result
}

func NewInMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Append(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *memoryStore) ListByTest(_ context.Context, testID string, limit int) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Result
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].TestID != testID {
			continue
		}
		out = append(out, m.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
