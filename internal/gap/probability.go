package gap

import (
	"fmt"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/bars"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// DefaultMinSample is the minimum bucket population before an estimate is
// considered trustworthy without widening.
const DefaultMinSample = 5

// numBuckets splits gap magnitudes into 1%-wide buckets plus an open-ended
// top bucket: [0,1) [1,2) [2,3) [3,inf).
const numBuckets = 4

// IntradayLookup supplies a session's intraday bars for fill evaluation.
// Returning nil selects the daily high/low path for that session.
type IntradayLookup func(symbol, date string) []domain.Bar

// Estimator computes empirical fill probabilities from a symbol's history.
type Estimator struct {
	// MinSample is the minimum outcomes a bucket needs before its rate is
	// reported at full confidence.
	MinSample int

	// Intraday, when set, resolves intraday bars for historical sessions so
	// fills are decided bar-by-bar instead of from the daily range.
	Intraday IntradayLookup
}

// NewEstimator returns an Estimator with the default minimum sample size.
func NewEstimator() *Estimator {
	return &Estimator{MinSample: DefaultMinSample}
}

// Estimate scores a gap against the symbol's historical fill outcomes.
//
// Historical gaps are bucketed by direction and magnitude. If the event's
// bucket is under MinSample the bucket is widened by merging with its
// neighbors, then the whole symbol's outcome pool is used; both fallbacks
// are flagged low confidence. A still-insufficient pool fails with
// ErrInsufficientHistory — never a fabricated rate.
func (e *Estimator) Estimate(event domain.GapEvent, history *bars.Series) (domain.ProbabilityEstimate, error) {
	minSample := e.MinSample
	if minSample <= 0 {
		minSample = DefaultMinSample
	}

	events, err := DetectAll(history)
	if err != nil {
		return domain.ProbabilityEstimate{}, fmt.Errorf("%w: %v", ErrInsufficientHistory, err)
	}

	// Replay every historical gap except the one being scored.
	outcomes := make([]domain.FillOutcome, 0, len(events))
	for _, ev := range events {
		if ev.Date == event.Date {
			continue
		}
		session, ok := history.ByDate(ev.Date)
		if !ok {
			continue
		}
		var intraday []domain.Bar
		if e.Intraday != nil {
			intraday = e.Intraday(ev.Symbol, ev.Date)
		}
		outcomes = append(outcomes, EvaluateFill(ev, session, intraday))
	}

	target := bucketIndex(event.AbsGapPercent())

	// Exact bucket: same direction, same magnitude range.
	exact := filterOutcomes(outcomes, func(o domain.FillOutcome) bool {
		return o.Event.Direction == event.Direction && bucketIndex(o.Event.AbsGapPercent()) == target
	})
	if len(exact) >= minSample {
		return buildEstimate(event, bucketLabel(target, target), exact, domain.ConfidenceOK), nil
	}

	// Widened bucket: merge with adjacent magnitude ranges.
	lo, hi := target-1, target+1
	if lo < 0 {
		lo = 0
	}
	if hi >= numBuckets {
		hi = numBuckets - 1
	}
	widened := filterOutcomes(outcomes, func(o domain.FillOutcome) bool {
		idx := bucketIndex(o.Event.AbsGapPercent())
		return o.Event.Direction == event.Direction && idx >= lo && idx <= hi
	})
	if len(widened) >= minSample {
		return buildEstimate(event, bucketLabel(lo, hi), widened, domain.ConfidenceLow), nil
	}

	// Symbol-wide pool, both directions.
	if len(outcomes) >= minSample {
		return buildEstimate(event, "symbol", outcomes, domain.ConfidenceLow), nil
	}

	return domain.ProbabilityEstimate{}, fmt.Errorf("%w: %s has %d comparable gaps, need %d",
		ErrInsufficientHistory, event.Symbol, len(outcomes), minSample)
}

// bucketIndex maps a gap magnitude to its bucket. Buckets are exhaustive and
// non-overlapping: every magnitude lands in exactly one.
func bucketIndex(absPct float64) int {
	switch {
	case absPct < 1:
		return 0
	case absPct < 2:
		return 1
	case absPct < 3:
		return 2
	default:
		return 3
	}
}

// bucketLabel renders the [lo, hi] bucket range, e.g. "2-3%" or ">3%".
func bucketLabel(lo, hi int) string {
	if hi >= numBuckets-1 {
		if lo >= numBuckets-1 {
			return ">3%"
		}
		return fmt.Sprintf(">%d%%", lo)
	}
	return fmt.Sprintf("%d-%d%%", lo, hi+1)
}

func filterOutcomes(outcomes []domain.FillOutcome, keep func(domain.FillOutcome) bool) []domain.FillOutcome {
	var result []domain.FillOutcome
	for _, o := range outcomes {
		if keep(o) {
			result = append(result, o)
		}
	}
	return result
}

func buildEstimate(event domain.GapEvent, bucket string, sample []domain.FillOutcome, conf domain.Confidence) domain.ProbabilityEstimate {
	filled := 0
	barsSum := 0
	barsN := 0
	for _, o := range sample {
		if o.Filled {
			filled++
			if o.Intraday && o.BarsToFill > 0 {
				barsSum += o.BarsToFill
				barsN++
			}
		}
	}

	est := domain.ProbabilityEstimate{
		Symbol:      event.Symbol,
		Direction:   event.Direction,
		Bucket:      bucket,
		SampleSize:  len(sample),
		FilledCount: filled,
		FillRate:    float64(filled) / float64(len(sample)),
		Confidence:  conf,
	}
	if barsN > 0 {
		est.AvgBarsToFill = float64(barsSum) / float64(barsN)
	}
	return est
}
