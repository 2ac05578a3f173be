package supportstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/support-bot/internal/domain/support"
)

type sessionRecord struct {
	payload   support.Session
	expiresAt time.Time
}

// MemoryStore is an in-memory implementation of the support store for
// tests/dev and single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionRecord
	trending map[string]int64
	displays map[string]string
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]sessionRecord),
		trending: make(map[string]int64),
		displays: make(map[string]string),
	}
}

// GetSession implements support.Store.
func (s *MemoryStore) GetSession(_ context.Context, id string) (support.Session, bool, error) {
	if id == "" {
		return support.Session{}, false, nil
	}
	s.mu.RLock()
	record, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return support.Session{}, false, nil
	}
	if hasExpired(record.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return support.Session{}, false, nil
	}
	return record.payload, true, nil
}

// SaveSession stores the session memory with optional TTL.
func (s *MemoryStore) SaveSession(_ context.Context, session support.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.sessions[session.ID] = sessionRecord{
		payload:   session,
		expiresAt: exp,
	}
	return nil
}

// DeleteSession clears the memory for one session.
func (s *MemoryStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// IncrementQuery bumps the counter for a canonical question and records a
// display string for it.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trending[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = display
	}
	return nil
}

// TopQueries returns the most frequent canonical questions.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]support.TrendingQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.trending)
	}
	items := make([]support.TrendingQuery, 0, len(s.trending))
	for canonical, count := range s.trending {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, support.TrendingQuery{Query: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ support.Store = (*MemoryStore)(nil)
