package analysis

import (
	"testing"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

func TestScoreConviction_HighOnStackedSignals(t *testing.T) {
	// Large gap (2) + strong fill rate (2) = 4 points.
	r := &domain.ScanResult{
		Gap: domain.GapEvent{GapPercent: 4.2, Direction: domain.DirectionUp},
		Probability: &domain.ProbabilityEstimate{
			FillRate:   0.80,
			SampleSize: 10,
		},
		Sentiment: domain.NeutralSentiment,
	}

	conviction, reasons := scoreConviction(r)
	if conviction != domain.ConvictionHigh {
		t.Errorf("expected HIGH, got %s", conviction)
	}
	if len(reasons) != 2 {
		t.Errorf("expected 2 reasons, got %d: %v", len(reasons), reasons)
	}
}

func TestScoreConviction_MediumOnModerateSignals(t *testing.T) {
	// Notable gap (1) + decent fill rate (1) = 2 points.
	r := &domain.ScanResult{
		Gap: domain.GapEvent{GapPercent: -2.5, Direction: domain.DirectionDown},
		Probability: &domain.ProbabilityEstimate{
			FillRate:   0.65,
			SampleSize: 8,
		},
		Sentiment: domain.NeutralSentiment,
	}

	conviction, _ := scoreConviction(r)
	if conviction != domain.ConvictionMedium {
		t.Errorf("expected MEDIUM, got %s", conviction)
	}
}

func TestScoreConviction_LowWithoutSignals(t *testing.T) {
	r := &domain.ScanResult{
		Gap:       domain.GapEvent{GapPercent: 1.5, Direction: domain.DirectionUp},
		Sentiment: domain.NeutralSentiment,
	}

	conviction, reasons := scoreConviction(r)
	if conviction != domain.ConvictionLow {
		t.Errorf("expected LOW, got %s", conviction)
	}
	if len(reasons) != 0 {
		t.Errorf("expected no reasons, got %v", reasons)
	}
}

func TestScoreConviction_ContraSentimentAddsPoint(t *testing.T) {
	// Notable gap (1) + contra sentiment (1) = 2 points: positive news into
	// a down gap supports the fill.
	r := &domain.ScanResult{
		Gap:       domain.GapEvent{GapPercent: -2.2, Direction: domain.DirectionDown},
		Sentiment: domain.Sentiment{Score: 0.6, Label: domain.SentimentPositive},
	}

	conviction, reasons := scoreConviction(r)
	if conviction != domain.ConvictionMedium {
		t.Errorf("expected MEDIUM with contra sentiment, got %s", conviction)
	}
	found := false
	for _, reason := range reasons {
		if reason == "Positive news sentiment into a down gap" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a contra-sentiment reason, got %v", reasons)
	}
}

func TestScoreConviction_AlignedSentimentAddsNothing(t *testing.T) {
	// Positive news on an up gap argues against the fade.
	r := &domain.ScanResult{
		Gap:       domain.GapEvent{GapPercent: 2.2, Direction: domain.DirectionUp},
		Sentiment: domain.Sentiment{Score: 0.6, Label: domain.SentimentPositive},
	}

	conviction, reasons := scoreConviction(r)
	if conviction != domain.ConvictionLow {
		t.Errorf("expected LOW with aligned sentiment, got %s", conviction)
	}
	if len(reasons) != 1 {
		t.Errorf("expected only the gap reason, got %v", reasons)
	}
}

func TestScoreConviction_ElevatedVolume(t *testing.T) {
	r := &domain.ScanResult{
		Gap:         domain.GapEvent{GapPercent: 2.1, Direction: domain.DirectionUp},
		VolumeRatio: 2.0,
		Sentiment:   domain.NeutralSentiment,
	}

	conviction, reasons := scoreConviction(r)
	if conviction != domain.ConvictionMedium {
		t.Errorf("expected MEDIUM with elevated volume, got %s", conviction)
	}
	if len(reasons) != 2 {
		t.Errorf("expected gap and volume reasons, got %v", reasons)
	}
}

func TestRecommend_StrongBuy(t *testing.T) {
	rec := recommend(
		&domain.ProbabilityEstimate{FillRate: 0.80},
		&domain.BacktestResult{WinRate: 0.75},
	)
	if rec.Action != domain.ActionStrongBuy || rec.Confidence != domain.ConvictionHigh {
		t.Errorf("expected STRONG BUY / HIGH, got %s / %s", rec.Action, rec.Confidence)
	}
	if rec.FillProbability != 0.80 || rec.ExpectedWinRate != 0.75 {
		t.Errorf("expected evidence carried over, got %.2f / %.2f",
			rec.FillProbability, rec.ExpectedWinRate)
	}
}

func TestRecommend_Buy(t *testing.T) {
	rec := recommend(
		&domain.ProbabilityEstimate{FillRate: 0.65},
		&domain.BacktestResult{WinRate: 0.62},
	)
	if rec.Action != domain.ActionBuy || rec.Confidence != domain.ConvictionMedium {
		t.Errorf("expected BUY / MEDIUM, got %s / %s", rec.Action, rec.Confidence)
	}
}

func TestRecommend_WaitOnWeakEvidence(t *testing.T) {
	rec := recommend(
		&domain.ProbabilityEstimate{FillRate: 0.55},
		&domain.BacktestResult{WinRate: 0.80},
	)
	if rec.Action != domain.ActionWait {
		t.Errorf("expected WAIT with a weak fill rate, got %s", rec.Action)
	}
}

func TestRecommend_MissingEvidenceNeverUpgrades(t *testing.T) {
	// A perfect fill rate alone is not enough without a backtest.
	rec := recommend(&domain.ProbabilityEstimate{FillRate: 1.0}, nil)
	if rec.Action != domain.ActionWait || rec.Confidence != domain.ConvictionLow {
		t.Errorf("expected WAIT / LOW without a backtest, got %s / %s", rec.Action, rec.Confidence)
	}

	rec = recommend(nil, &domain.BacktestResult{WinRate: 1.0})
	if rec.Action != domain.ActionWait {
		t.Errorf("expected WAIT without a probability, got %s", rec.Action)
	}
}
