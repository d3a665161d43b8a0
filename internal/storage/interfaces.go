// Package storage defines the persistence contracts of the serving layer:
// the gap scan cache, the trade journal and the daily bar cache. The
// analysis engine itself holds no state; everything here is regenerable.
package storage

import (
	"context"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// GapScanStore caches computed gap scan rows keyed by (symbol, scan date).
type GapScanStore interface {
	// Insert adds a scan row. Returns ErrDuplicateKey if a row for the
	// (symbol, scan date) pair exists.
	Insert(ctx context.Context, r *domain.GapScanRecord) error

	// GetBySymbolDate retrieves one row. Returns ErrNotFound if absent.
	GetBySymbolDate(ctx context.Context, symbol, scanDate string) (*domain.GapScanRecord, error)

	// GetBySymbol retrieves all rows for a symbol, ordered by scan date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.GapScanRecord, error)

	// GetByDate retrieves all rows for a scan date, ordered by symbol ASC.
	GetByDate(ctx context.Context, scanDate string) ([]*domain.GapScanRecord, error)

	// MarkFilled records a fill follow-up for a previously stored row.
	// Returns ErrNotFound if the row is absent.
	MarkFilled(ctx context.Context, symbol, scanDate, fillDate string) error
}

// TradeJournalStore persists trade journal entries.
type TradeJournalStore interface {
	// Insert adds an entry and assigns its ID.
	Insert(ctx context.Context, e *domain.JournalEntry) error

	// GetBySymbol retrieves entries for a symbol, ordered by entry date ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.JournalEntry, error)

	// GetAll retrieves every entry, ordered by entry date ASC, ID ASC.
	GetAll(ctx context.Context) ([]*domain.JournalEntry, error)
}

// BarCacheStore caches daily bars fetched from the market-data provider.
// Each entry is tagged with the session date it describes, so staleness is
// explicit and at most one provider fetch per (symbol, date) is needed.
type BarCacheStore interface {
	// InsertBulk adds bars, skipping (symbol, date) pairs already present.
	InsertBulk(ctx context.Context, barSlice []domain.Bar) error

	// GetRange retrieves cached bars for [start, end] (inclusive), ordered
	// by date ASC.
	GetRange(ctx context.Context, symbol, start, end string) ([]domain.Bar, error)

	// LatestDate returns the most recent cached session date for a symbol.
	// Returns ErrNotFound when nothing is cached.
	LatestDate(ctx context.Context, symbol string) (string, error)

	// EarliestDate returns the oldest cached session date for a symbol.
	// Returns ErrNotFound when nothing is cached.
	EarliestDate(ctx context.Context, symbol string) (string, error)
}
