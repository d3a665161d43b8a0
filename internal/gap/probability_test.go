package gap

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/bars"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// gapDay describes one synthetic gap session: the overnight gap percent and
// whether the session trades back through the prior close.
type gapDay struct {
	pct    float64
	filled bool
}

// buildGapHistory constructs a series whose sessions gap by the given
// percents. The session range is shaped so the fill outcome matches the
// flag: filled sessions close back at the prior close, unfilled sessions
// hold the gap.
func buildGapHistory(t *testing.T, symbol string, days []gapDay) *bars.Series {
	t.Helper()

	date := func(i int) string { return fmt.Sprintf("2025-01-%02d", i) }

	prevClose := 100.0
	raw := []domain.Bar{{
		Symbol: symbol, Date: date(1),
		Open: 100, High: 100.5, Low: 99.5, Close: 100, Volume: 1000,
	}}

	for i, d := range days {
		open := prevClose * (1 + d.pct/100)
		var high, low, close float64
		if d.pct >= 0 {
			if d.filled {
				low, close = prevClose-0.5, prevClose
			} else {
				low, close = open-0.5, open
			}
			high = math.Max(open, close) + 0.5
		} else {
			if d.filled {
				high, close = prevClose+0.5, prevClose
			} else {
				high, close = open+0.5, open
			}
			low = math.Min(open, close) - 0.5
		}
		raw = append(raw, domain.Bar{
			Symbol: symbol, Date: date(i + 2),
			Open: open, High: high, Low: low, Close: close, Volume: 1000,
		})
		prevClose = close
	}

	series, err := bars.NewSeries(symbol, raw)
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	return series
}

func latestEvent(t *testing.T, s *bars.Series) domain.GapEvent {
	t.Helper()
	ev, err := DetectLatest(s)
	if err != nil {
		t.Fatalf("detect latest: %v", err)
	}
	return ev
}

func TestEstimate_ExactBucket(t *testing.T) {
	// Five historical 2.5% up-gaps (three filled) plus the event session.
	s := buildGapHistory(t, "AAPL", []gapDay{
		{2.5, true}, {2.5, true}, {2.5, true}, {2.5, false}, {2.5, false},
		{2.5, false}, // the session being scored
	})
	ev := latestEvent(t, s)

	est, err := NewEstimator().Estimate(ev, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if est.SampleSize != 5 {
		t.Errorf("expected sample size 5 (event excluded), got %d", est.SampleSize)
	}
	if est.FilledCount != 3 {
		t.Errorf("expected 3 filled, got %d", est.FilledCount)
	}
	if math.Abs(est.FillRate-0.6) > 1e-9 {
		t.Errorf("expected fill rate 0.6, got %.4f", est.FillRate)
	}
	if est.Confidence != domain.ConfidenceOK {
		t.Errorf("expected full confidence, got %s", est.Confidence)
	}
	if est.Bucket != "2-3%" {
		t.Errorf("expected bucket 2-3%%, got %q", est.Bucket)
	}
	if est.Direction != domain.DirectionUp {
		t.Errorf("expected direction up, got %s", est.Direction)
	}
}

func TestEstimate_WidensToNeighborBuckets(t *testing.T) {
	// No history in the event's own bucket, but the neighbors hold enough.
	s := buildGapHistory(t, "AAPL", []gapDay{
		{1.5, true}, {1.5, true}, {1.5, false},
		{3.5, true}, {3.5, false},
		{2.5, false}, // event, the only 2-3% gap
	})
	ev := latestEvent(t, s)

	est, err := NewEstimator().Estimate(ev, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if est.SampleSize != 5 {
		t.Errorf("expected 5 widened samples, got %d", est.SampleSize)
	}
	if est.FilledCount != 3 {
		t.Errorf("expected 3 filled, got %d", est.FilledCount)
	}
	if est.Confidence != domain.ConfidenceLow {
		t.Errorf("expected low confidence after widening, got %s", est.Confidence)
	}
	if est.Bucket != ">1%" {
		t.Errorf("expected widened bucket >1%%, got %q", est.Bucket)
	}
}

func TestEstimate_FallsBackToSymbolPool(t *testing.T) {
	// All history is down-gaps; an up-gap event finds nothing in its
	// direction and falls back to the whole symbol pool.
	s := buildGapHistory(t, "AAPL", []gapDay{
		{-2.5, true}, {-2.5, true}, {-2.5, false}, {-2.5, true}, {-2.5, false},
		{2.5, false}, // event
	})
	ev := latestEvent(t, s)

	est, err := NewEstimator().Estimate(ev, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if est.Bucket != "symbol" {
		t.Errorf("expected symbol-wide bucket, got %q", est.Bucket)
	}
	if est.Confidence != domain.ConfidenceLow {
		t.Errorf("expected low confidence for symbol-wide pool, got %s", est.Confidence)
	}
	if math.Abs(est.FillRate-0.6) > 1e-9 {
		t.Errorf("expected fill rate 0.6, got %.4f", est.FillRate)
	}
}

func TestEstimate_InsufficientHistory(t *testing.T) {
	// Two historical gaps can never reach the default minimum of five; the
	// estimator must refuse rather than fabricate a rate.
	s := buildGapHistory(t, "AAPL", []gapDay{
		{2.5, true}, {2.5, false},
		{2.5, false}, // event
	})
	ev := latestEvent(t, s)

	_, err := NewEstimator().Estimate(ev, s)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestEstimate_MinSampleOverride(t *testing.T) {
	s := buildGapHistory(t, "AAPL", []gapDay{
		{2.5, true}, {2.5, false},
		{2.5, false}, // event
	})
	ev := latestEvent(t, s)

	est, err := (&Estimator{MinSample: 2}).Estimate(ev, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.SampleSize != 2 {
		t.Errorf("expected sample size 2, got %d", est.SampleSize)
	}
	if est.Confidence != domain.ConfidenceOK {
		t.Errorf("expected full confidence in the exact bucket, got %s", est.Confidence)
	}
}

func TestBucketIndex_Exhaustive(t *testing.T) {
	cases := []struct {
		pct  float64
		want int
	}{
		{0, 0}, {0.5, 0}, {0.999, 0},
		{1, 1}, {1.5, 1},
		{2, 2}, {2.999, 2},
		{3, 3}, {7.5, 3}, {40, 3},
	}
	for _, c := range cases {
		if got := bucketIndex(c.pct); got != c.want {
			t.Errorf("bucketIndex(%.3f): expected %d, got %d", c.pct, c.want, got)
		}
	}
}

func TestBucketLabel(t *testing.T) {
	cases := []struct {
		lo, hi int
		want   string
	}{
		{0, 0, "0-1%"},
		{1, 1, "1-2%"},
		{2, 2, "2-3%"},
		{3, 3, ">3%"},
		{1, 3, ">1%"},
		{0, 1, "0-2%"},
	}
	for _, c := range cases {
		if got := bucketLabel(c.lo, c.hi); got != c.want {
			t.Errorf("bucketLabel(%d, %d): expected %q, got %q", c.lo, c.hi, c.want, got)
		}
	}
}
