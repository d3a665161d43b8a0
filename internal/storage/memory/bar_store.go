package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// BarCacheStore is an in-memory implementation of storage.BarCacheStore.
type BarCacheStore struct {
	mu   sync.RWMutex
	data map[barKey]domain.Bar
}

type barKey struct {
	symbol string
	date   string
}

// NewBarCacheStore creates a new in-memory bar cache store.
func NewBarCacheStore() *BarCacheStore {
	return &BarCacheStore{data: make(map[barKey]domain.Bar)}
}

// InsertBulk adds bars, skipping (symbol, date) pairs already present.
func (s *BarCacheStore) InsertBulk(_ context.Context, barSlice []domain.Bar) error {
	for _, b := range barSlice {
		if b.Symbol == "" || !b.ValidDate() {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range barSlice {
		k := barKey{b.Symbol, b.Date}
		if _, exists := s.data[k]; exists {
			continue
		}
		s.data[k] = b
	}
	return nil
}

// GetRange retrieves cached bars for [start, end], ordered by date ASC.
func (s *BarCacheStore) GetRange(_ context.Context, symbol, start, end string) ([]domain.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Bar
	for k, b := range s.data {
		if k.symbol == symbol && k.date >= start && k.date <= end {
			result = append(result, b)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result, nil
}

// LatestDate returns the most recent cached session date for a symbol.
func (s *BarCacheStore) LatestDate(_ context.Context, symbol string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := ""
	for k := range s.data {
		if k.symbol == symbol && k.date > latest {
			latest = k.date
		}
	}
	if latest == "" {
		return "", storage.ErrNotFound
	}
	return latest, nil
}

// EarliestDate returns the oldest cached session date for a symbol.
func (s *BarCacheStore) EarliestDate(_ context.Context, symbol string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	earliest := ""
	for k := range s.data {
		if k.symbol == symbol && (earliest == "" || k.date < earliest) {
			earliest = k.date
		}
	}
	if earliest == "" {
		return "", storage.ErrNotFound
	}
	return earliest, nil
}

// Verify interface compliance at compile time.
var _ storage.BarCacheStore = (*BarCacheStore)(nil)
