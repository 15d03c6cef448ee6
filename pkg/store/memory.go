package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/roomforge/pkg/layout"
)

// MemoryStore is a thread-safe in-memory layout store.
type MemoryStore struct {
	mu      sync.RWMutex
	layouts map[string]layout.Layout
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{layouts: make(map[string]layout.Layout)}
}

// Save stores the layout, assigning a UUID when it has none.
func (s *MemoryStore) Save(_ context.Context, l layout.Layout) (string, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.layouts[l.ID] = l
	s.mu.Unlock()
	return l.ID, nil
}

// Get retrieves a layout by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (layout.Layout, error) {
	s.mu.RLock()
	l, ok := s.layouts[id]
	s.mu.RUnlock()
	if !ok {
		return layout.Layout{}, ErrNotFound
	}
	return l, nil
}

// List returns all stored IDs in sorted order.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.layouts))
	for id := range s.layouts {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}

// Delete removes a layout.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.layouts, id)
	s.mu.Unlock()
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
