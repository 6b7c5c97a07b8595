package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory keeps records in process memory. It is used when no database path
// is configured and in tests.
type Memory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[uuid.UUID]Record)}
}

// Save stores rec. Saving an existing ID is an error.
func (m *Memory) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.ID]; exists {
		return fmt.Errorf("analysis %s already exists", rec.ID)
	}
	m.records[rec.ID] = rec
	return nil
}

// Get returns the record with the given ID.
func (m *Memory) Get(_ context.Context, id uuid.UUID) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// List returns all records, newest first.
func (m *Memory) List(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]Summary, 0, len(m.records))
	for _, rec := range m.records {
		summaries = append(summaries, Summarize(rec))
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID.String() < summaries[j].ID.String()
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Delete removes the record with the given ID.
func (m *Memory) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
