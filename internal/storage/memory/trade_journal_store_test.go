package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

func journalEntry(symbol, entryDate string) *domain.JournalEntry {
	return &domain.JournalEntry{
		Symbol:     symbol,
		EntryDate:  entryDate,
		EntryPrice: 103.5,
		Quantity:   10,
		Direction:  "short",
	}
}

func TestTradeJournalStore_InsertAssignsIDs(t *testing.T) {
	store := NewTradeJournalStore()
	ctx := context.Background()

	first := journalEntry("AAPL", "2025-01-15")
	second := journalEntry("MSFT", "2025-01-16")

	require.NoError(t, store.Insert(ctx, first))
	require.NoError(t, store.Insert(ctx, second))

	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)
	require.NotZero(t, first.CreatedAt)
}

func TestTradeJournalStore_InvalidInput(t *testing.T) {
	store := NewTradeJournalStore()
	ctx := context.Background()

	require.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Insert(ctx, journalEntry("", "2025-01-15")), storage.ErrInvalidInput)
	require.ErrorIs(t, store.Insert(ctx, journalEntry("AAPL", "")), storage.ErrInvalidInput)
}

func TestTradeJournalStore_GetAllOrdering(t *testing.T) {
	store := NewTradeJournalStore()
	ctx := context.Background()

	// Same entry date: ID breaks the tie.
	require.NoError(t, store.Insert(ctx, journalEntry("MSFT", "2025-01-16")))
	require.NoError(t, store.Insert(ctx, journalEntry("AAPL", "2025-01-14")))
	require.NoError(t, store.Insert(ctx, journalEntry("NVDA", "2025-01-14")))

	entries, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "AAPL", entries[0].Symbol)
	require.Equal(t, "NVDA", entries[1].Symbol)
	require.Equal(t, "MSFT", entries[2].Symbol)
}

func TestTradeJournalStore_GetBySymbol(t *testing.T) {
	store := NewTradeJournalStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, journalEntry("AAPL", "2025-01-15")))
	require.NoError(t, store.Insert(ctx, journalEntry("MSFT", "2025-01-15")))
	require.NoError(t, store.Insert(ctx, journalEntry("AAPL", "2025-01-10")))

	entries, err := store.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "2025-01-10", entries[0].EntryDate)

	entries, err = store.GetBySymbol(ctx, "TSLA")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestTradeJournalStore_ReturnsCopies(t *testing.T) {
	store := NewTradeJournalStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, journalEntry("AAPL", "2025-01-15")))

	entries, err := store.GetAll(ctx)
	require.NoError(t, err)
	entries[0].Notes = "mutated"

	again, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, again[0].Notes)
}
