package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// TradeJournalStore is an in-memory implementation of storage.TradeJournalStore.
type TradeJournalStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries []*domain.JournalEntry
}

// NewTradeJournalStore creates a new in-memory trade journal store.
func NewTradeJournalStore() *TradeJournalStore {
	return &TradeJournalStore{}
}

// Insert adds an entry and assigns its ID.
func (s *TradeJournalStore) Insert(_ context.Context, e *domain.JournalEntry) error {
	if e == nil || e.Symbol == "" || e.EntryDate == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e.ID = s.nextID
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}

	entryCopy := *e
	s.entries = append(s.entries, &entryCopy)
	return nil
}

// GetBySymbol retrieves entries for a symbol, ordered by entry date ASC.
func (s *TradeJournalStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.JournalEntry
	for _, e := range s.entries {
		if e.Symbol == symbol {
			entryCopy := *e
			result = append(result, &entryCopy)
		}
	}

	sortJournal(result)
	return result, nil
}

// GetAll retrieves every entry, ordered by entry date ASC, ID ASC.
func (s *TradeJournalStore) GetAll(_ context.Context) ([]*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entryCopy := *e
		result = append(result, &entryCopy)
	}

	sortJournal(result)
	return result, nil
}

func sortJournal(entries []*domain.JournalEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EntryDate != entries[j].EntryDate {
			return entries[i].EntryDate < entries[j].EntryDate
		}
		return entries[i].ID < entries[j].ID
	})
}

// Verify interface compliance at compile time.
var _ storage.TradeJournalStore = (*TradeJournalStore)(nil)
