package knowledge

import (
	"context"
	"sync"
)

// MemoryStore is the in-process insight store used by default and in
// tests. A bounded ring keeps the newest maxEntries records.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    []Insight
	maxEntries int
}

// NewMemoryStore creates a memory store keeping up to maxEntries
// insights (1000 if non-positive).
func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &MemoryStore{maxEntries: maxEntries}
}

// Append records an insight, evicting the oldest past capacity.
func (s *MemoryStore) Append(_ context.Context, insight Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, insight)
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[len(s.entries)-s.maxEntries:]
	}
	return nil
}

// Recent returns up to limit insights, newest first.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]Insight, 0, limit)
	for i := len(s.entries) - 1; i >= len(s.entries)-limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}
