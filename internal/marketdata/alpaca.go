package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://data.alpaca.markets"
	DefaultFeed       = "iex" // free-tier feed
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultMaxDelay   = 10 * time.Second
)

// AlpacaClient implements Provider against the Alpaca Market Data v2 API.
type AlpacaClient struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	feed       string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
}

// Option configures AlpacaClient.
type Option func(*AlpacaClient)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) Option {
	return func(c *AlpacaClient) { c.baseURL = u }
}

// WithFeed selects the data feed ("iex" or "sip").
func WithFeed(feed string) Option {
	return func(c *AlpacaClient) { c.feed = feed }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *AlpacaClient) { c.client.Timeout = d }
}

// WithMaxRetries sets maximum retry attempts for retriable responses.
func WithMaxRetries(n int) Option {
	return func(c *AlpacaClient) { c.maxRetries = n }
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *AlpacaClient) { c.client = client }
}

// NewAlpacaClient creates a new Alpaca data client.
func NewAlpacaClient(apiKey, apiSecret string, opts ...Option) *AlpacaClient {
	c := &AlpacaClient{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		feed:       DefaultFeed,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ Provider = (*AlpacaClient)(nil)

// GetBars fetches bars for [start, end] at the given timeframe, following
// pagination until the range is exhausted.
func (c *AlpacaClient) GetBars(ctx context.Context, symbol, start, end string, tf domain.Timeframe) ([]domain.Bar, error) {
	var bars []domain.Bar
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("timeframe", string(tf))
		q.Set("start", start)
		q.Set("end", end)
		q.Set("feed", c.feed)
		q.Set("limit", "10000")
		q.Set("adjustment", "split")
		if pageToken != "" {
			q.Set("page_token", pageToken)
		}

		var resp barsResponse
		path := fmt.Sprintf("/v2/stocks/%s/bars", url.PathEscape(symbol))
		if err := c.get(ctx, path, q, &resp); err != nil {
			return nil, fmt.Errorf("get bars %s: %w", symbol, err)
		}

		for _, p := range resp.Bars {
			b, err := p.toBar(symbol)
			if err != nil {
				return nil, fmt.Errorf("get bars %s: bad timestamp %q: %w", symbol, p.Timestamp, err)
			}
			bars = append(bars, b)
		}

		if resp.NextPageToken == nil || *resp.NextPageToken == "" {
			break
		}
		pageToken = *resp.NextPageToken
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s in [%s, %s]", ErrDataUnavailable, symbol, start, end)
	}
	return bars, nil
}

// GetLatestQuote fetches the most recent quote for a symbol.
func (c *AlpacaClient) GetLatestQuote(ctx context.Context, symbol string) (Quote, error) {
	q := url.Values{}
	q.Set("feed", c.feed)

	var resp quoteResponse
	path := fmt.Sprintf("/v2/stocks/%s/quotes/latest", url.PathEscape(symbol))
	if err := c.get(ctx, path, q, &resp); err != nil {
		return Quote{}, fmt.Errorf("get latest quote %s: %w", symbol, err)
	}

	return Quote{
		Symbol:    symbol,
		BidPrice:  resp.Quote.BidPrice,
		BidSize:   resp.Quote.BidSize,
		AskPrice:  resp.Quote.AskPrice,
		AskSize:   resp.Quote.AskSize,
		Timestamp: resp.Quote.Timestamp,
	}, nil
}

// GetNews fetches up to limit recent headlines for a symbol.
func (c *AlpacaClient) GetNews(ctx context.Context, symbol string, limit int) ([]domain.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("symbols", symbol)
	q.Set("limit", strconv.Itoa(limit))

	var resp newsResponse
	if err := c.get(ctx, "/v1beta1/news", q, &resp); err != nil {
		return nil, fmt.Errorf("get news %s: %w", symbol, err)
	}

	items := make([]domain.NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		items = append(items, domain.NewsItem{
			ID:        strconv.FormatInt(n.ID, 10),
			Headline:  n.Headline,
			Summary:   n.Summary,
			Source:    n.Source,
			URL:       n.URL,
			Symbols:   n.Symbols,
			CreatedAt: n.CreatedAt,
		})
	}
	return items, nil
}

// get performs a GET with auth headers and bounded retry on 429/5xx.
func (c *AlpacaClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		start := time.Now()
		retriable, err := c.doGet(ctx, path, query, out)
		observability.RecordProviderRequest(path, time.Since(start).Seconds(), err)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retriable {
			return err
		}
	}

	return fmt.Errorf("retries exhausted: %w", lastErr)
}

// doGet performs a single request. The bool reports whether the failure is
// worth retrying.
func (c *AlpacaClient) doGet(ctx context.Context, path string, query url.Values, out interface{}) (bool, error) {
	u := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("APCA-API-KEY-ID", c.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.apiSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return true, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return true, fmt.Errorf("read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("%w: status 404", ErrDataUnavailable)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))
	default:
		return false, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
