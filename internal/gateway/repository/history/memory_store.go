package history

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps the most recent records up to a fixed capacity.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	max     int
}

func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = 256
	}
	return &MemoryStore{max: max}
}

func (s *MemoryStore) Add(_ context.Context, rec Record) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if over := len(s.records) - s.max; over > 0 {
		s.records = append([]Record(nil), s.records[over:]...)
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, min(limit, len(s.records)))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
