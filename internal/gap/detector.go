package gap

import (
	"fmt"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/bars"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// DetectLatest measures the most recent session's overnight gap.
// Returns ErrInsufficientData for series under two sessions, ErrNoGap when
// the session opened exactly at the prior close, and a wrapped
// bars.ErrInvalidBar when the prior close is missing or zero.
func DetectLatest(s *bars.Series) (domain.GapEvent, error) {
	if s.Len() < 2 {
		return domain.GapEvent{}, ErrInsufficientData
	}
	return detect(s.Symbol(), s.At(s.Len()-2), s.Last())
}

// DetectAll measures the gap of every session after the first.
// Zero-percent sessions are skipped. The returned events are date-ascending.
func DetectAll(s *bars.Series) ([]domain.GapEvent, error) {
	if s.Len() < 2 {
		return nil, ErrInsufficientData
	}

	events := make([]domain.GapEvent, 0, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		ev, err := detect(s.Symbol(), s.At(i-1), s.At(i))
		if err == ErrNoGap {
			continue
		}
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// detect computes the gap between one session and its predecessor.
func detect(symbol string, prev, cur domain.Bar) (domain.GapEvent, error) {
	if prev.Close <= 0 {
		return domain.GapEvent{}, fmt.Errorf("%w: %s %s zero prior close", bars.ErrInvalidBar, symbol, cur.Date)
	}

	pct := (cur.Open - prev.Close) / prev.Close * 100
	if pct == 0 {
		return domain.GapEvent{}, ErrNoGap
	}

	dir := domain.DirectionUp
	if pct < 0 {
		dir = domain.DirectionDown
	}

	return domain.GapEvent{
		Symbol:     symbol,
		Date:       cur.Date,
		PrevClose:  prev.Close,
		Open:       cur.Open,
		GapPercent: pct,
		Direction:  dir,
	}, nil
}
