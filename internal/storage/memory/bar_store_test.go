package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

func cacheBar(symbol, date string, close float64) domain.Bar {
	return domain.Bar{
		Symbol: symbol, Date: date,
		Open: close - 0.5, High: close + 1, Low: close - 1, Close: close, Volume: 1000,
	}
}

func TestBarCacheStore_InsertAndGetRange(t *testing.T) {
	store := NewBarCacheStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []domain.Bar{
		cacheBar("AAPL", "2025-01-03", 101),
		cacheBar("AAPL", "2025-01-02", 100),
		cacheBar("AAPL", "2025-01-06", 102),
		cacheBar("MSFT", "2025-01-02", 400),
	}))

	bars, err := store.GetRange(ctx, "AAPL", "2025-01-02", "2025-01-03")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, "2025-01-02", bars[0].Date)
	require.Equal(t, "2025-01-03", bars[1].Date)

	// Other symbols never leak into the range.
	for _, b := range bars {
		require.Equal(t, "AAPL", b.Symbol)
	}
}

func TestBarCacheStore_InsertBulkSkipsExisting(t *testing.T) {
	store := NewBarCacheStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []domain.Bar{cacheBar("AAPL", "2025-01-02", 100)}))

	// Re-inserting the same session keeps the first write.
	require.NoError(t, store.InsertBulk(ctx, []domain.Bar{cacheBar("AAPL", "2025-01-02", 999)}))

	bars, err := store.GetRange(ctx, "AAPL", "2025-01-02", "2025-01-02")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.Equal(t, 100.0, bars[0].Close)
}

func TestBarCacheStore_InsertBulkValidatesBeforeWriting(t *testing.T) {
	store := NewBarCacheStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []domain.Bar{
		cacheBar("AAPL", "2025-01-02", 100),
		{Symbol: "AAPL", Date: "bad-date"},
	})
	require.ErrorIs(t, err, storage.ErrInvalidInput)

	// Nothing from the rejected batch is stored.
	_, err = store.LatestDate(ctx, "AAPL")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBarCacheStore_LatestDate(t *testing.T) {
	store := NewBarCacheStore()
	ctx := context.Background()

	_, err := store.LatestDate(ctx, "AAPL")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.InsertBulk(ctx, []domain.Bar{
		cacheBar("AAPL", "2025-01-02", 100),
		cacheBar("AAPL", "2025-01-10", 103),
		cacheBar("AAPL", "2025-01-06", 102),
	}))

	latest, err := store.LatestDate(ctx, "AAPL")
	require.NoError(t, err)
	require.Equal(t, "2025-01-10", latest)
}

func TestBarCacheStore_EarliestDate(t *testing.T) {
	store := NewBarCacheStore()
	ctx := context.Background()

	_, err := store.EarliestDate(ctx, "AAPL")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.InsertBulk(ctx, []domain.Bar{
		cacheBar("AAPL", "2025-01-10", 103),
		cacheBar("AAPL", "2025-01-02", 100),
		cacheBar("MSFT", "2025-01-01", 400),
	}))

	earliest, err := store.EarliestDate(ctx, "AAPL")
	require.NoError(t, err)
	require.Equal(t, "2025-01-02", earliest)
}

func TestBarCacheStore_EmptyRange(t *testing.T) {
	store := NewBarCacheStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []domain.Bar{cacheBar("AAPL", "2025-01-02", 100)}))

	bars, err := store.GetRange(ctx, "AAPL", "2025-02-01", "2025-02-10")
	require.NoError(t, err)
	require.Empty(t, bars)
}
