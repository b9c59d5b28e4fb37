package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory RowStore used by tests and local development
// without sheet credentials. It mimics the sheet's row-index behavior:
// deleting a row shifts every later row up by one.
type MemoryStore struct {
	mu   sync.Mutex
	tabs map[string][][]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tabs: make(map[string][][]interface{})}
}

func (m *MemoryStore) ReadRows(_ context.Context, tab string) ([][]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.tabs[tab]
	out := make([][]interface{}, len(src))
	for i, r := range src {
		out[i] = append([]interface{}(nil), r...)
	}
	return out, nil
}

func (m *MemoryStore) ReadRow(_ context.Context, tab string, rowIndex int) ([]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tabs[tab]
	i := rowIndex - 2
	if i < 0 || i >= len(rows) {
		return nil, ErrRowNotFound
	}
	return append([]interface{}(nil), rows[i]...), nil
}

func (m *MemoryStore) AppendRow(_ context.Context, tab string, row []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tabs[tab] = append(m.tabs[tab], append([]interface{}(nil), row...))
	return nil
}

func (m *MemoryStore) UpdateRow(_ context.Context, tab string, rowIndex int, row []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tabs[tab]
	i := rowIndex - 2
	if i < 0 || i >= len(rows) {
		return ErrRowNotFound
	}
	rows[i] = append([]interface{}(nil), row...)
	return nil
}

func (m *MemoryStore) DeleteRows(_ context.Context, tab string, start, end int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tabs[tab]
	// start/end are 0-based sheet indexes; row 0 is the header, data rows
	// start at sheet index 1 which is rows[0] here.
	lo, hi := start-1, end-1
	if lo < 0 {
		lo = 0
	}
	if hi > len(rows) {
		hi = len(rows)
	}
	if lo >= hi {
		return nil
	}
	m.tabs[tab] = append(rows[:lo], rows[hi:]...)
	return nil
}

func (m *MemoryStore) EnsureTab(_ context.Context, tab string, _ []interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tabs[tab]; !ok {
		m.tabs[tab] = nil
	}
	return nil
}
