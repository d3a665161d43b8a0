package gap

import (
	"errors"
	"math"
	"testing"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/bars"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// mkSeries builds a validated series from (date, open, close) triples. High
// and low are stretched around open/close so OHLC always validates.
func mkSeries(t *testing.T, symbol string, sessions [][3]interface{}) *bars.Series {
	t.Helper()

	raw := make([]domain.Bar, 0, len(sessions))
	for _, s := range sessions {
		open := s[1].(float64)
		close := s[2].(float64)
		hi := math.Max(open, close) + 1
		lo := math.Min(open, close) - 1
		raw = append(raw, domain.Bar{
			Symbol: symbol,
			Date:   s[0].(string),
			Open:   open,
			High:   hi,
			Low:    lo,
			Close:  close,
			Volume: 1000,
		})
	}

	series, err := bars.NewSeries(symbol, raw)
	if err != nil {
		t.Fatalf("build series: %v", err)
	}
	return series
}

func TestDetectLatest_UpGap(t *testing.T) {
	s := mkSeries(t, "AAPL", [][3]interface{}{
		{"2025-01-01", 100.0, 100.0},
		{"2025-01-02", 103.0, 102.0},
	})

	ev, err := DetectLatest(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ev.Direction != domain.DirectionUp {
		t.Errorf("expected direction up, got %s", ev.Direction)
	}
	if math.Abs(ev.GapPercent-3.0) > 1e-9 {
		t.Errorf("expected gap 3.0%%, got %.6f", ev.GapPercent)
	}
	if ev.PrevClose != 100 || ev.Open != 103 {
		t.Errorf("expected prev close 100 / open 103, got %.1f / %.1f", ev.PrevClose, ev.Open)
	}
	if ev.Date != "2025-01-02" {
		t.Errorf("expected event date 2025-01-02, got %s", ev.Date)
	}
}

func TestDetectLatest_DownGap(t *testing.T) {
	s := mkSeries(t, "AAPL", [][3]interface{}{
		{"2025-01-01", 100.0, 100.0},
		{"2025-01-02", 97.0, 98.0},
	})

	ev, err := DetectLatest(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ev.Direction != domain.DirectionDown {
		t.Errorf("expected direction down, got %s", ev.Direction)
	}
	if math.Abs(ev.GapPercent-(-3.0)) > 1e-9 {
		t.Errorf("expected gap -3.0%%, got %.6f", ev.GapPercent)
	}
	if math.Abs(ev.AbsGapPercent()-3.0) > 1e-9 {
		t.Errorf("expected abs gap 3.0%%, got %.6f", ev.AbsGapPercent())
	}
}

func TestDetectLatest_FlatOpenIsNoGap(t *testing.T) {
	s := mkSeries(t, "AAPL", [][3]interface{}{
		{"2025-01-01", 100.0, 100.0},
		{"2025-01-02", 100.0, 101.0},
	})

	_, err := DetectLatest(s)
	if !errors.Is(err, ErrNoGap) {
		t.Errorf("expected ErrNoGap for flat open, got %v", err)
	}
}

func TestDetectLatest_SingleSession(t *testing.T) {
	s := mkSeries(t, "AAPL", [][3]interface{}{
		{"2025-01-01", 100.0, 100.0},
	})

	_, err := DetectLatest(s)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData for a single session, got %v", err)
	}
}

func TestDetectAll_SkipsFlatSessions(t *testing.T) {
	s := mkSeries(t, "AAPL", [][3]interface{}{
		{"2025-01-01", 100.0, 100.0},
		{"2025-01-02", 102.0, 101.0}, // +2%
		{"2025-01-03", 101.0, 103.0}, // flat, skipped
		{"2025-01-04", 100.0, 101.0}, // -2.91%
	})

	events, err := DetectAll(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Date != "2025-01-02" || events[0].Direction != domain.DirectionUp {
		t.Errorf("expected first event up on 2025-01-02, got %s %s", events[0].Direction, events[0].Date)
	}
	if events[1].Date != "2025-01-04" || events[1].Direction != domain.DirectionDown {
		t.Errorf("expected second event down on 2025-01-04, got %s %s", events[1].Direction, events[1].Date)
	}
}

func TestDetect_TinyGapKeepsSign(t *testing.T) {
	// A 0.01% gap is still a gap; only exactly zero is skipped.
	s := mkSeries(t, "AAPL", [][3]interface{}{
		{"2025-01-01", 100.0, 100.0},
		{"2025-01-02", 100.01, 100.5},
	})

	ev, err := DetectLatest(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Direction != domain.DirectionUp {
		t.Errorf("expected direction up for +0.01%% gap, got %s", ev.Direction)
	}
}
