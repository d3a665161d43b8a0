package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage/postgres"
)

func journalEntry(symbol, entryDate string) *domain.JournalEntry {
	return &domain.JournalEntry{
		Symbol:     symbol,
		EntryDate:  entryDate,
		EntryPrice: 103.5,
		Quantity:   10,
		Direction:  "short",
		Reason:     "gap fade",
	}
}

func TestTradeJournalStore_InsertAndGetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := postgres.NewTradeJournalStore(pool)

	open := journalEntry("AAPL", "2025-01-15")
	require.NoError(t, store.Insert(ctx, open))
	require.NotZero(t, open.ID)

	closed := journalEntry("MSFT", "2025-01-14")
	closed.ExitDate = "2025-01-16"
	closed.ExitPrice = 101.2
	closed.Outcome = "win"
	closed.PnL = 23.0
	closed.PnLPercent = 2.2
	require.NoError(t, store.Insert(ctx, closed))

	entries, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ordered by entry date, so the MSFT trade comes first.
	require.Equal(t, "MSFT", entries[0].Symbol)
	require.Equal(t, "2025-01-16", entries[0].ExitDate)
	require.Equal(t, "win", entries[0].Outcome)

	// The open trade's exit date reads back empty, not NULL-ish garbage.
	require.Equal(t, "AAPL", entries[1].Symbol)
	require.Empty(t, entries[1].ExitDate)
	require.Equal(t, "gap fade", entries[1].Reason)
}

func TestTradeJournalStore_GetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := postgres.NewTradeJournalStore(pool)

	require.NoError(t, store.Insert(ctx, journalEntry("AAPL", "2025-01-15")))
	require.NoError(t, store.Insert(ctx, journalEntry("MSFT", "2025-01-15")))
	require.NoError(t, store.Insert(ctx, journalEntry("AAPL", "2025-01-10")))

	entries, err := store.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "2025-01-10", entries[0].EntryDate)
	require.Equal(t, "2025-01-15", entries[1].EntryDate)

	entries, err = store.GetBySymbol(ctx, "TSLA")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTradeJournalStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	store := postgres.NewTradeJournalStore(pool)

	require.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Insert(ctx, journalEntry("", "2025-01-15")), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Insert(ctx, journalEntry("AAPL", "")), storage.ErrInvalidInput)
}
