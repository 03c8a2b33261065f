package stats

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps counters in process. Buckets are never expired.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]map[Counter]int64
}

// NewMemoryStore creates a new in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]map[Counter]int64)}
}

func (s *MemoryStore) Increment(_ context.Context, counter Counter, at time.Time) error {
	day := at.UTC().Format(DayLayout)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.counts[day] == nil {
		s.counts[day] = make(map[Counter]int64)
	}

	s.counts[day][counter]++

	return nil
}

func (s *MemoryStore) Daily(_ context.Context, days int, until time.Time) ([]Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Day, 0, days)

	for _, day := range dates(days, until) {
		counts := make(map[Counter]int64, len(All))
		for _, c := range All {
			counts[c] = s.counts[day][c]
		}

		out = append(out, Day{Date: day, Counts: counts})
	}

	return out, nil
}
