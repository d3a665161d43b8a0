package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// GapScanStore is an in-memory implementation of storage.GapScanStore.
type GapScanStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[scanKey]*domain.GapScanRecord
}

type scanKey struct {
	symbol   string
	scanDate string
}

// NewGapScanStore creates a new in-memory gap scan store.
func NewGapScanStore() *GapScanStore {
	return &GapScanStore{data: make(map[scanKey]*domain.GapScanRecord)}
}

// Insert adds a scan row. Returns ErrDuplicateKey if (symbol, scan date) exists.
func (s *GapScanStore) Insert(_ context.Context, r *domain.GapScanRecord) error {
	if r == nil || r.Symbol == "" || r.ScanDate == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := scanKey{r.Symbol, r.ScanDate}
	if _, exists := s.data[k]; exists {
		return storage.ErrDuplicateKey
	}

	s.nextID++
	r.ID = s.nextID
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UnixMilli()
	}

	// Store a copy to prevent external mutation
	recordCopy := *r
	s.data[k] = &recordCopy
	return nil
}

// GetBySymbolDate retrieves one row. Returns ErrNotFound if absent.
func (s *GapScanStore) GetBySymbolDate(_ context.Context, symbol, scanDate string) (*domain.GapScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[scanKey{symbol, scanDate}]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recordCopy := *r
	return &recordCopy, nil
}

// GetBySymbol retrieves all rows for a symbol, ordered by scan date ASC.
func (s *GapScanStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.GapScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.GapScanRecord
	for _, r := range s.data {
		if r.Symbol == symbol {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ScanDate < result[j].ScanDate
	})

	return result, nil
}

// GetByDate retrieves all rows for a scan date, ordered by symbol ASC.
func (s *GapScanStore) GetByDate(_ context.Context, scanDate string) ([]*domain.GapScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.GapScanRecord
	for _, r := range s.data {
		if r.ScanDate == scanDate {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})

	return result, nil
}

// MarkFilled records a fill follow-up. Returns ErrNotFound if absent.
func (s *GapScanStore) MarkFilled(_ context.Context, symbol, scanDate, fillDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, exists := s.data[scanKey{symbol, scanDate}]
	if !exists {
		return storage.ErrNotFound
	}

	r.Filled = true
	r.FillDate = fillDate
	return nil
}

// Verify interface compliance at compile time.
var _ storage.GapScanStore = (*GapScanStore)(nil)
