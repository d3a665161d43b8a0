package marketdata

import (
	"context"
	"fmt"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// StubProvider is a deterministic in-memory Provider for tests and dry runs.
type StubProvider struct {
	// Bars maps symbol to its full daily history, date ascending.
	Bars map[string][]domain.Bar
	// Quotes maps symbol to a fixed latest quote.
	Quotes map[string]Quote
	// News maps symbol to fixed headlines.
	News map[string][]domain.NewsItem
	// Errs forces an error for a symbol across all methods.
	Errs map[string]error
}

// NewStubProvider creates an empty stub provider.
func NewStubProvider() *StubProvider {
	return &StubProvider{
		Bars:   make(map[string][]domain.Bar),
		Quotes: make(map[string]Quote),
		News:   make(map[string][]domain.NewsItem),
		Errs:   make(map[string]error),
	}
}

// Compile-time interface check.
var _ Provider = (*StubProvider)(nil)

// GetBars returns the configured bars clipped to [start, end].
func (p *StubProvider) GetBars(_ context.Context, symbol, start, end string, _ domain.Timeframe) ([]domain.Bar, error) {
	if err := p.Errs[symbol]; err != nil {
		return nil, err
	}

	var out []domain.Bar
	for _, b := range p.Bars[symbol] {
		if b.Date >= start && b.Date <= end {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s %s..%s", ErrDataUnavailable, symbol, start, end)
	}
	return out, nil
}

// GetLatestQuote returns the configured quote.
func (p *StubProvider) GetLatestQuote(_ context.Context, symbol string) (Quote, error) {
	if err := p.Errs[symbol]; err != nil {
		return Quote{}, err
	}

	q, ok := p.Quotes[symbol]
	if !ok {
		return Quote{}, fmt.Errorf("%w: no quote for %s", ErrDataUnavailable, symbol)
	}
	return q, nil
}

// GetNews returns up to limit configured headlines.
func (p *StubProvider) GetNews(_ context.Context, symbol string, limit int) ([]domain.NewsItem, error) {
	if err := p.Errs[symbol]; err != nil {
		return nil, err
	}

	items := p.News[symbol]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
