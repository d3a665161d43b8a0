package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

func TestGetBars_FollowsPagination(t *testing.T) {
	var gotKey, gotSecret string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("APCA-API-KEY-ID")
		gotSecret = r.Header.Get("APCA-API-SECRET-KEY")

		if r.URL.Query().Get("page_token") == "" {
			fmt.Fprint(w, `{
				"bars": [
					{"t": "2025-01-02T05:00:00Z", "o": 100, "h": 101, "l": 99, "c": 100.5, "v": 1000, "vw": 100.2},
					{"t": "2025-01-03T05:00:00Z", "o": 101, "h": 102, "l": 100, "c": 101.5, "v": 1100, "vw": 101.1}
				],
				"symbol": "AAPL",
				"next_page_token": "page2"
			}`)
			return
		}
		fmt.Fprint(w, `{
			"bars": [
				{"t": "2025-01-06T05:00:00Z", "o": 102, "h": 103, "l": 101, "c": 102.5, "v": 1200, "vw": 102.3}
			],
			"symbol": "AAPL",
			"next_page_token": null
		}`)
	}))
	defer srv.Close()

	client := NewAlpacaClient("key-id", "secret", WithBaseURL(srv.URL))

	bars, err := client.GetBars(context.Background(), "AAPL", "2025-01-01", "2025-01-07", domain.TimeframeDay)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	require.Equal(t, "key-id", gotKey)
	require.Equal(t, "secret", gotSecret)

	require.Equal(t, "2025-01-02", bars[0].Date)
	require.Equal(t, "AAPL", bars[0].Symbol)
	require.Equal(t, 100.5, bars[0].Close)
	require.Equal(t, int64(1000), bars[0].Volume)
	require.Equal(t, "2025-01-06", bars[2].Date)
}

func TestGetBars_NotFoundIsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewAlpacaClient("k", "s", WithBaseURL(srv.URL))

	_, err := client.GetBars(context.Background(), "NOPE", "2025-01-01", "2025-01-07", domain.TimeframeDay)
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestGetBars_EmptyRangeIsDataUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bars": [], "symbol": "AAPL", "next_page_token": null}`)
	}))
	defer srv.Close()

	client := NewAlpacaClient("k", "s", WithBaseURL(srv.URL))

	_, err := client.GetBars(context.Background(), "AAPL", "2025-01-01", "2025-01-02", domain.TimeframeDay)
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestGetBars_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{
			"bars": [{"t": "2025-01-02T05:00:00Z", "o": 100, "h": 101, "l": 99, "c": 100.5, "v": 1000, "vw": 100}],
			"symbol": "AAPL",
			"next_page_token": null
		}`)
	}))
	defer srv.Close()

	client := NewAlpacaClient("k", "s", WithBaseURL(srv.URL), WithMaxRetries(1))

	bars, err := client.GetBars(context.Background(), "AAPL", "2025-01-01", "2025-01-02", domain.TimeframeDay)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	require.Equal(t, int32(2), calls.Load())
}

func TestGetBars_ClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewAlpacaClient("k", "s", WithBaseURL(srv.URL), WithMaxRetries(3))

	_, err := client.GetBars(context.Background(), "AAPL", "2025-01-01", "2025-01-02", domain.TimeframeDay)
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestGetLatestQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/stocks/AAPL/quotes/latest", r.URL.Path)
		fmt.Fprint(w, `{
			"symbol": "AAPL",
			"quote": {"t": "2025-01-02T15:30:00Z", "bp": 100.1, "bs": 2, "ap": 100.3, "as": 3}
		}`)
	}))
	defer srv.Close()

	client := NewAlpacaClient("k", "s", WithBaseURL(srv.URL))

	quote, err := client.GetLatestQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "AAPL", quote.Symbol)
	require.Equal(t, 100.1, quote.BidPrice)
	require.Equal(t, 100.3, quote.AskPrice)
	require.Equal(t, int64(3), quote.AskSize)
}

func TestGetNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1beta1/news", r.URL.Path)
		require.Equal(t, "AAPL", r.URL.Query().Get("symbols"))
		require.Equal(t, "2", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{
			"news": [
				{"id": 42, "headline": "Apple beats estimates", "summary": "Q1", "source": "wire",
				 "url": "https://example.com/42", "symbols": ["AAPL"], "created_at": "2025-01-02T12:00:00Z"},
				{"id": 43, "headline": "iPhone demand", "symbols": ["AAPL"], "created_at": "2025-01-02T13:00:00Z"}
			],
			"next_page_token": null
		}`)
	}))
	defer srv.Close()

	client := NewAlpacaClient("k", "s", WithBaseURL(srv.URL))

	items, err := client.GetNews(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "42", items[0].ID)
	require.Equal(t, "Apple beats estimates", items[0].Headline)
	require.Equal(t, []string{"AAPL"}, items[0].Symbols)
}

func TestGetBars_BadTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bars": [{"t": "not-a-time", "o": 1, "h": 1, "l": 1, "c": 1, "v": 1}], "next_page_token": null}`)
	}))
	defer srv.Close()

	client := NewAlpacaClient("k", "s", WithBaseURL(srv.URL))

	_, err := client.GetBars(context.Background(), "AAPL", "2025-01-01", "2025-01-02", domain.TimeframeDay)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrDataUnavailable))
}
