package analysis

import (
	"fmt"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// Conviction and recommendation thresholds.
const (
	largeGapPercent     = 3.0
	notableGapPercent   = 2.0
	strongFillRate      = 0.70
	decentFillRate      = 0.60
	elevatedVolume      = 1.5
	strongBuyFillRate   = 0.75
	strongBuyWinRate    = 0.70
	buyFillRate         = 0.60
	buyWinRate          = 0.60
	highConvictionPts   = 4
	mediumConvictionPts = 2
)

// scoreConviction grades a scan row and collects the reasons behind the
// grade. Each contributing signal adds points; the total maps to a level.
func scoreConviction(r *domain.ScanResult) (domain.Conviction, []string) {
	points := 0
	var reasons []string

	absGap := r.Gap.AbsGapPercent()
	switch {
	case absGap >= largeGapPercent:
		points += 2
		reasons = append(reasons, fmt.Sprintf("Large %.1f%% gap %s", absGap, r.Gap.Direction))
	case absGap >= notableGapPercent:
		points++
		reasons = append(reasons, fmt.Sprintf("Notable %.1f%% gap %s", absGap, r.Gap.Direction))
	}

	if r.Probability != nil {
		switch {
		case r.Probability.FillRate >= strongFillRate:
			points += 2
			reasons = append(reasons, fmt.Sprintf("Strong historical fill rate %.0f%% (%d gaps)",
				r.Probability.FillRate*100, r.Probability.SampleSize))
		case r.Probability.FillRate >= decentFillRate:
			points++
			reasons = append(reasons, fmt.Sprintf("Decent historical fill rate %.0f%% (%d gaps)",
				r.Probability.FillRate*100, r.Probability.SampleSize))
		}
	}

	if r.VolumeRatio >= elevatedVolume {
		points++
		reasons = append(reasons, fmt.Sprintf("Elevated volume %.1fx average", r.VolumeRatio))
	}

	// Sentiment against the gap direction supports the fade: bad news on an
	// up-gap, good news on a down-gap.
	switch {
	case r.Gap.Direction == domain.DirectionDown && r.Sentiment.Label == domain.SentimentPositive:
		points++
		reasons = append(reasons, "Positive news sentiment into a down gap")
	case r.Gap.Direction == domain.DirectionUp && r.Sentiment.Label == domain.SentimentNegative:
		points++
		reasons = append(reasons, "Negative news sentiment into an up gap")
	}

	switch {
	case points >= highConvictionPts:
		return domain.ConvictionHigh, reasons
	case points >= mediumConvictionPts:
		return domain.ConvictionMedium, reasons
	default:
		return domain.ConvictionLow, reasons
	}
}

// recommend derives an action from the probability and backtest evidence.
// Missing evidence never upgrades the action.
func recommend(prob *domain.ProbabilityEstimate, bt *domain.BacktestResult) domain.Recommendation {
	rec := domain.Recommendation{
		Action:     domain.ActionWait,
		Confidence: domain.ConvictionLow,
	}
	if prob != nil {
		rec.FillProbability = prob.FillRate
	}
	if bt != nil {
		rec.ExpectedWinRate = bt.WinRate
	}
	if prob == nil || bt == nil {
		return rec
	}

	switch {
	case prob.FillRate >= strongBuyFillRate && bt.WinRate >= strongBuyWinRate:
		rec.Action = domain.ActionStrongBuy
		rec.Confidence = domain.ConvictionHigh
	case prob.FillRate >= buyFillRate && bt.WinRate >= buyWinRate:
		rec.Action = domain.ActionBuy
		rec.Confidence = domain.ConvictionMedium
	}
	return rec
}
