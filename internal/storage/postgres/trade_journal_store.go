package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// TradeJournalStore implements storage.TradeJournalStore using PostgreSQL.
type TradeJournalStore struct {
	pool *Pool
}

// NewTradeJournalStore creates a new TradeJournalStore.
func NewTradeJournalStore(pool *Pool) *TradeJournalStore {
	return &TradeJournalStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeJournalStore = (*TradeJournalStore)(nil)

// Insert adds an entry and assigns its ID.
func (s *TradeJournalStore) Insert(ctx context.Context, e *domain.JournalEntry) error {
	if e == nil || e.Symbol == "" || e.EntryDate == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (
			symbol, entry_date, entry_price, exit_date, exit_price, quantity,
			direction, reason, outcome, pnl, pnl_percent, notes, created_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	createdAt := e.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	err := s.pool.QueryRow(ctx, query,
		e.Symbol,
		e.EntryDate,
		e.EntryPrice,
		e.ExitDate,
		e.ExitPrice,
		e.Quantity,
		e.Direction,
		e.Reason,
		e.Outcome,
		e.PnL,
		e.PnLPercent,
		e.Notes,
		createdAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	e.CreatedAt = createdAt
	return nil
}

// GetBySymbol retrieves entries for a symbol, ordered by entry date ASC.
func (s *TradeJournalStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.JournalEntry, error) {
	query := selectJournal + ` WHERE symbol = $1 ORDER BY entry_date ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get journal entries by symbol: %w", err)
	}
	defer rows.Close()

	return scanJournalEntries(rows)
}

// GetAll retrieves every entry, ordered by entry date ASC, ID ASC.
func (s *TradeJournalStore) GetAll(ctx context.Context) ([]*domain.JournalEntry, error) {
	query := selectJournal + ` ORDER BY entry_date ASC, id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all journal entries: %w", err)
	}
	defer rows.Close()

	return scanJournalEntries(rows)
}

const selectJournal = `
	SELECT id, symbol, entry_date, entry_price, COALESCE(exit_date, ''), exit_price,
	       quantity, direction, reason, outcome, pnl, pnl_percent, notes, created_at
	FROM trades
`

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.ID,
		&e.Symbol,
		&e.EntryDate,
		&e.EntryPrice,
		&e.ExitDate,
		&e.ExitPrice,
		&e.Quantity,
		&e.Direction,
		&e.Reason,
		&e.Outcome,
		&e.PnL,
		&e.PnLPercent,
		&e.Notes,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanJournalEntries(rows pgx.Rows) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry

	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal rows: %w", err)
	}

	return entries, nil
}
