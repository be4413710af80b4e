package catalog

import (
	"context"
	"sync"
)

// Source yields the current normalized records of one kind.
type Source interface {
	Records(ctx context.Context, kind Kind) ([]Record, error)
}

// Store is a Source that can also replace a kind wholesale, as an import does.
type Store interface {
	Source
	ReplaceCatalog(ctx context.Context, kind Kind, records []Record) error
}

// Memory is a process-local Store used when no database is configured.
type Memory struct {
	mu    sync.RWMutex
	kinds map[Kind][]Record
}

func NewMemory() *Memory {
	return &Memory{kinds: make(map[Kind][]Record)}
}

func (m *Memory) Records(_ context.Context, kind Kind) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Record(nil), m.kinds[kind]...), nil
}

func (m *Memory) ReplaceCatalog(_ context.Context, kind Kind, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kinds[kind] = append([]Record(nil), records...)
	return nil
}
