package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// GapScanStore implements storage.GapScanStore using PostgreSQL.
type GapScanStore struct {
	pool *Pool
}

// NewGapScanStore creates a new GapScanStore.
func NewGapScanStore(pool *Pool) *GapScanStore {
	return &GapScanStore{pool: pool}
}

// Compile-time interface check.
var _ storage.GapScanStore = (*GapScanStore)(nil)

// Insert adds a scan row. Returns ErrDuplicateKey if (symbol, scan_date) exists.
func (s *GapScanStore) Insert(ctx context.Context, r *domain.GapScanRecord) error {
	if r == nil || r.Symbol == "" || r.ScanDate == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO gap_scans (
			symbol, scan_date, gap_percent, price, volume, volume_ratio,
			fill_probability, sentiment_score, conviction, filled, fill_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12)
		RETURNING id
	`

	createdAt := r.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	err := s.pool.QueryRow(ctx, query,
		r.Symbol,
		r.ScanDate,
		r.GapPercent,
		r.Price,
		r.Volume,
		r.VolumeRatio,
		r.FillProbability,
		r.SentimentScore,
		r.Conviction,
		r.Filled,
		r.FillDate,
		createdAt,
	).Scan(&r.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert gap scan: %w", err)
	}
	r.CreatedAt = createdAt
	return nil
}

// GetBySymbolDate retrieves one row. Returns ErrNotFound if absent.
func (s *GapScanStore) GetBySymbolDate(ctx context.Context, symbol, scanDate string) (*domain.GapScanRecord, error) {
	query := selectGapScan + ` WHERE symbol = $1 AND scan_date = $2`

	row := s.pool.QueryRow(ctx, query, symbol, scanDate)
	r, err := scanGapScan(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get gap scan by symbol/date: %w", err)
	}
	return r, nil
}

// GetBySymbol retrieves all rows for a symbol, ordered by scan date ASC.
func (s *GapScanStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.GapScanRecord, error) {
	query := selectGapScan + ` WHERE symbol = $1 ORDER BY scan_date ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get gap scans by symbol: %w", err)
	}
	defer rows.Close()

	return scanGapScans(rows)
}

// GetByDate retrieves all rows for a scan date, ordered by symbol ASC.
func (s *GapScanStore) GetByDate(ctx context.Context, scanDate string) ([]*domain.GapScanRecord, error) {
	query := selectGapScan + ` WHERE scan_date = $1 ORDER BY symbol ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, scanDate)
	if err != nil {
		return nil, fmt.Errorf("get gap scans by date: %w", err)
	}
	defer rows.Close()

	return scanGapScans(rows)
}

// MarkFilled records a fill follow-up. Returns ErrNotFound if the row is absent.
func (s *GapScanStore) MarkFilled(ctx context.Context, symbol, scanDate, fillDate string) error {
	query := `
		UPDATE gap_scans
		SET filled = TRUE, fill_date = $3
		WHERE symbol = $1 AND scan_date = $2
	`

	tag, err := s.pool.Exec(ctx, query, symbol, scanDate, fillDate)
	if err != nil {
		return fmt.Errorf("mark gap scan filled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const selectGapScan = `
	SELECT id, symbol, scan_date, gap_percent, price, volume, volume_ratio,
	       fill_probability, sentiment_score, conviction, filled,
	       COALESCE(fill_date, ''), created_at
	FROM gap_scans
`

// scanGapScan scans a single row into a GapScanRecord.
func scanGapScan(row pgx.Row) (*domain.GapScanRecord, error) {
	var r domain.GapScanRecord
	err := row.Scan(
		&r.ID,
		&r.Symbol,
		&r.ScanDate,
		&r.GapPercent,
		&r.Price,
		&r.Volume,
		&r.VolumeRatio,
		&r.FillProbability,
		&r.SentimentScore,
		&r.Conviction,
		&r.Filled,
		&r.FillDate,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// scanGapScans scans multiple rows.
func scanGapScans(rows pgx.Rows) ([]*domain.GapScanRecord, error) {
	var records []*domain.GapScanRecord

	for rows.Next() {
		r, err := scanGapScan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gap scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gap scan rows: %w", err)
	}

	return records, nil
}
