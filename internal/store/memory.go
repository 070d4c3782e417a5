package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ritu28-coder/stock-dashboard/internal/model"
)

// MemoryStore keeps observations in memory. Used in tests and when no
// database is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]model.Observation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]model.Observation)}
}

func (s *MemoryStore) Upsert(_ context.Context, obs model.Observation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := obs.Key()
	if _, exists := s.rows[key]; exists {
		return false, nil
	}
	s.rows[key] = obs
	return true, nil
}

func (s *MemoryStore) ReadAll(_ context.Context) ([]model.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(model.Observation) bool { return true }), nil
}

func (s *MemoryStore) ReadWindow(_ context.Context, start, end time.Time) ([]model.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(o model.Observation) bool {
		return !o.Timestamp.Before(start) && !o.Timestamp.After(end)
	}), nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) sorted(keep func(model.Observation) bool) []model.Observation {
	obs := make([]model.Observation, 0, len(s.rows))
	for _, o := range s.rows {
		if keep(o) {
			obs = append(obs, o)
		}
	}
	sort.Slice(obs, func(i, j int) bool {
		if !obs[i].Timestamp.Equal(obs[j].Timestamp) {
			return obs[i].Timestamp.Before(obs[j].Timestamp)
		}
		return obs[i].Symbol < obs[j].Symbol
	})
	return obs
}
