// Package marketdata fetches OHLCV bars, quotes and news from the Alpaca
// Market Data API, with an optional cache-backed decorator and a live trade
// stream over WebSocket.
package marketdata

import (
	"context"
	"errors"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// ErrDataUnavailable is returned when the provider has nothing for the
// symbol or range: pre-market, halted, delisted or unknown symbols.
var ErrDataUnavailable = errors.New("market data unavailable")

// Quote is the latest bid/ask for a symbol.
type Quote struct {
	Symbol    string
	BidPrice  float64
	BidSize   int64
	AskPrice  float64
	AskSize   int64
	Timestamp string // RFC 3339
}

// Provider supplies market data by symbol. Implementations must return
// ErrDataUnavailable (possibly wrapped) when no data exists, and bars ordered
// by date ascending.
type Provider interface {
	// GetBars fetches bars for [start, end] (DateLayout dates, inclusive)
	// at the given timeframe.
	GetBars(ctx context.Context, symbol, start, end string, tf domain.Timeframe) ([]domain.Bar, error)

	// GetLatestQuote fetches the most recent quote for a symbol.
	GetLatestQuote(ctx context.Context, symbol string) (Quote, error)

	// GetNews fetches up to limit recent headlines for a symbol.
	GetNews(ctx context.Context, symbol string, limit int) ([]domain.NewsItem, error)
}
