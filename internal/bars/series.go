// Package bars normalizes raw provider OHLCV records into validated,
// strictly ordered per-symbol series the analysis engine can trust.
package bars

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// ErrInvalidBar is returned when a bar violates the OHLC invariant, carries a
// non-positive price, or has an unparseable session date.
var ErrInvalidBar = errors.New("invalid bar")

// ErrEmptySeries is returned when no bars are supplied.
var ErrEmptySeries = errors.New("empty bar series")

// Series is an immutable, validated, date-ascending sequence of bars for one
// symbol. Construct it with NewSeries; do not mutate the underlying slice.
type Series struct {
	symbol string
	bars   []domain.Bar
}

// NewSeries validates and orders raw bars into a Series.
// Bars for other symbols, duplicate dates, bad dates or OHLC violations fail
// with a wrapped ErrInvalidBar naming the offending bar.
func NewSeries(symbol string, raw []domain.Bar) (*Series, error) {
	if len(raw) == 0 {
		return nil, ErrEmptySeries
	}

	ordered := make([]domain.Bar, len(raw))
	copy(ordered, raw)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	seen := make(map[string]struct{}, len(ordered))
	for _, b := range ordered {
		if b.Symbol != symbol {
			return nil, fmt.Errorf("%w: bar for %q in series for %q", ErrInvalidBar, b.Symbol, symbol)
		}
		if !b.ValidDate() {
			return nil, fmt.Errorf("%w: %s bad date %q", ErrInvalidBar, symbol, b.Date)
		}
		if !b.ValidOHLC() {
			return nil, fmt.Errorf("%w: %s %s violates OHLC invariant", ErrInvalidBar, symbol, b.Date)
		}
		if _, dup := seen[b.Date]; dup {
			return nil, fmt.Errorf("%w: %s duplicate session %s", ErrInvalidBar, symbol, b.Date)
		}
		seen[b.Date] = struct{}{}
	}

	return &Series{symbol: symbol, bars: ordered}, nil
}

// Symbol returns the series' ticker.
func (s *Series) Symbol() string { return s.symbol }

// Len returns the number of sessions.
func (s *Series) Len() int { return len(s.bars) }

// At returns the bar at index i (0 = oldest).
func (s *Series) At(i int) domain.Bar { return s.bars[i] }

// Last returns the most recent bar.
func (s *Series) Last() domain.Bar { return s.bars[len(s.bars)-1] }

// First returns the oldest bar.
func (s *Series) First() domain.Bar { return s.bars[0] }

// Bars returns a copy of the ordered bars.
func (s *Series) Bars() []domain.Bar {
	out := make([]domain.Bar, len(s.bars))
	copy(out, s.bars)
	return out
}

// ByDate returns the bar for a session date.
func (s *Series) ByDate(date string) (domain.Bar, bool) {
	// Series are small (a few hundred sessions); binary search over the
	// sorted dates keeps lookups cheap during backtests.
	i := sort.Search(len(s.bars), func(i int) bool {
		return s.bars[i].Date >= date
	})
	if i < len(s.bars) && s.bars[i].Date == date {
		return s.bars[i], true
	}
	return domain.Bar{}, false
}

// MeanVolume returns the average volume across all sessions.
func (s *Series) MeanVolume() float64 {
	var sum int64
	for _, b := range s.bars {
		sum += b.Volume
	}
	return float64(sum) / float64(len(s.bars))
}
