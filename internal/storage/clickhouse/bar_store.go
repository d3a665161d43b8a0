package clickhouse

import (
	"context"
	"fmt"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// BarCacheStore implements storage.BarCacheStore using ClickHouse.
// The daily_bars table uses ReplacingMergeTree keyed by (symbol, date), so
// re-inserting an existing session is harmless.
type BarCacheStore struct {
	conn *Conn
}

// NewBarCacheStore creates a new BarCacheStore.
func NewBarCacheStore(conn *Conn) *BarCacheStore {
	return &BarCacheStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarCacheStore = (*BarCacheStore)(nil)

// InsertBulk adds bars. Existing (symbol, date) pairs are collapsed by the
// ReplacingMergeTree engine rather than rejected.
func (s *BarCacheStore) InsertBulk(ctx context.Context, barSlice []domain.Bar) error {
	if len(barSlice) == 0 {
		return nil
	}

	for _, b := range barSlice {
		if b.Symbol == "" || !b.ValidDate() {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_bars (
			symbol, date, open, high, low, close, volume, vwap
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range barSlice {
		err = batch.Append(
			b.Symbol, b.Date, b.Open, b.High, b.Low, b.Close,
			uint64(b.Volume), b.VWAP,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetRange retrieves cached bars for [start, end], ordered by date ASC.
func (s *BarCacheStore) GetRange(ctx context.Context, symbol, start, end string) ([]domain.Bar, error) {
	query := `
		SELECT symbol, date, open, high, low, close, volume, vwap
		FROM daily_bars FINAL
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("query bar range: %w", err)
	}
	defer rows.Close()

	var out []domain.Bar
	for rows.Next() {
		var b domain.Bar
		var volume uint64
		if err := rows.Scan(&b.Symbol, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &volume, &b.VWAP); err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}
		b.Volume = int64(volume)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}

	return out, nil
}

// LatestDate returns the most recent cached session date for a symbol.
func (s *BarCacheStore) LatestDate(ctx context.Context, symbol string) (string, error) {
	query := `
		SELECT max(date)
		FROM daily_bars
		WHERE symbol = ?
	`

	row := s.conn.QueryRow(ctx, query, symbol)

	var date string
	if err := row.Scan(&date); err != nil {
		return "", fmt.Errorf("query latest date: %w", err)
	}
	if date == "" {
		return "", storage.ErrNotFound
	}
	return date, nil
}

// EarliestDate returns the oldest cached session date for a symbol.
func (s *BarCacheStore) EarliestDate(ctx context.Context, symbol string) (string, error) {
	query := `
		SELECT min(date)
		FROM daily_bars
		WHERE symbol = ?
	`

	row := s.conn.QueryRow(ctx, query, symbol)

	var date string
	if err := row.Scan(&date); err != nil {
		return "", fmt.Errorf("query earliest date: %w", err)
	}
	if date == "" {
		return "", storage.ErrNotFound
	}
	return date, nil
}
