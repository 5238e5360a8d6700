package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the last limit entries in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
	limit   int
	nextID  int64
}

// NewMemoryStore keeps at most limit entries, dropping the oldest first.
func NewMemoryStore(limit int) *MemoryStore {
	if limit < 1 {
		limit = 1
	}
	return &MemoryStore{limit: limit, nextID: 1}
}

func (s *MemoryStore) Append(_ context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, e)
	if over := len(s.entries) - s.limit; over > 0 {
		s.entries = append(s.entries[:0], s.entries[over:]...)
	}
	return e, nil
}

func (s *MemoryStore) Recent(_ context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
