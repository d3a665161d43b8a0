package marketdata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/observability"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// coverageSlackDays is how far the first cached session may lag the requested
// calendar start before the range counts as truncated. A range starting on a
// weekend or around a holiday still begins within this many calendar days.
const coverageSlackDays = 5

// CachedProvider decorates a Provider with a persistent daily-bar cache.
// Daily bars are immutable once the session closes, so cached ranges are
// served without touching the upstream API. Hourly bars and everything else
// pass straight through.
type CachedProvider struct {
	upstream Provider
	cache    storage.BarCacheStore
}

// NewCachedProvider creates a cache-backed provider decorator.
func NewCachedProvider(upstream Provider, cache storage.BarCacheStore) *CachedProvider {
	return &CachedProvider{upstream: upstream, cache: cache}
}

// Compile-time interface check.
var _ Provider = (*CachedProvider)(nil)

// GetBars serves daily bars from the cache when the cached range encloses
// the request on both ends, fetching from upstream and writing through
// otherwise.
func (p *CachedProvider) GetBars(ctx context.Context, symbol, start, end string, tf domain.Timeframe) ([]domain.Bar, error) {
	if tf != domain.TimeframeDay {
		return p.upstream.GetBars(ctx, symbol, start, end, tf)
	}

	covered, err := p.rangeCovered(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	if covered {
		cached, err := p.cache.GetRange(ctx, symbol, start, end)
		if err != nil {
			return nil, fmt.Errorf("read bar cache: %w", err)
		}
		if len(cached) > 0 {
			observability.RecordBarCacheHit()
			return cached, nil
		}
		// Cache covers the range but holds nothing inside it.
		return nil, fmt.Errorf("%w: %s %s..%s", ErrDataUnavailable, symbol, start, end)
	}

	observability.RecordBarCacheMiss()
	fetched, err := p.upstream.GetBars(ctx, symbol, start, end, tf)
	if err != nil {
		return nil, err
	}

	if err := p.cache.InsertBulk(ctx, fetched); err != nil {
		// Cache write failure is not fatal; serve the fetched bars.
		log.Printf("[marketdata] bar cache write failed for %s: %v", symbol, err)
	}

	return fetched, nil
}

// rangeCovered reports whether the cached span for a symbol encloses
// [start, end]. A cache populated by a shorter lookback must not satisfy a
// wider request; both endpoints are checked.
func (p *CachedProvider) rangeCovered(ctx context.Context, symbol, start, end string) (bool, error) {
	latest, err := p.cache.LatestDate(ctx, symbol)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check bar cache: %w", err)
	}
	if latest < end {
		return false, nil
	}

	earliest, err := p.cache.EarliestDate(ctx, symbol)
	if err != nil {
		return false, fmt.Errorf("check bar cache: %w", err)
	}
	if earliest <= start {
		return true, nil
	}

	e, eErr := time.Parse(domain.DateLayout, earliest)
	s, sErr := time.Parse(domain.DateLayout, start)
	if eErr != nil || sErr != nil {
		return false, nil
	}
	return !e.After(s.AddDate(0, 0, coverageSlackDays)), nil
}

// GetLatestQuote passes through to the upstream provider.
func (p *CachedProvider) GetLatestQuote(ctx context.Context, symbol string) (Quote, error) {
	return p.upstream.GetLatestQuote(ctx, symbol)
}

// GetNews passes through to the upstream provider.
func (p *CachedProvider) GetNews(ctx context.Context, symbol string, limit int) ([]domain.NewsItem, error) {
	return p.upstream.GetNews(ctx, symbol, limit)
}
