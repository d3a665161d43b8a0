package domain

// Conviction grades how attractive a detected gap looks.
type Conviction string

// Conviction levels.
const (
	ConvictionHigh   Conviction = "HIGH"
	ConvictionMedium Conviction = "MEDIUM"
	ConvictionLow    Conviction = "LOW"
)

// ScanResult is one row of a watchlist scan: the detected gap plus the
// enrichment computed for it. Probability is nil when the symbol lacked
// history ("gap detected, probability unavailable").
type ScanResult struct {
	Gap         GapEvent
	Price       float64 // latest close
	Volume      int64   // gap session volume
	VolumeRatio float64 // session volume / mean volume over the fetched window
	Probability *ProbabilityEstimate
	Sentiment   Sentiment
	Conviction  Conviction
	Reasons     []string // human-readable highlights, e.g. "Large 4.2% gap"
}

// ScanFailure records why a watchlist symbol produced no result.
// Failures never abort the batch; the scan returns the successful rest.
type ScanFailure struct {
	Symbol string
	Reason string
}

// ScanReport is the full outcome of a watchlist scan.
type ScanReport struct {
	Results  []ScanResult
	Failures []ScanFailure
}

// RecommendationAction is the suggested course of action for a symbol.
type RecommendationAction string

// Recommendation actions.
const (
	ActionStrongBuy RecommendationAction = "STRONG BUY"
	ActionBuy       RecommendationAction = "BUY"
	ActionWait      RecommendationAction = "WAIT"
)

// Recommendation combines probability and backtest evidence into a verdict.
type Recommendation struct {
	Action          RecommendationAction
	Confidence      Conviction
	ExpectedWinRate float64
	FillProbability float64
}

// SymbolDetail is the full single-symbol analysis. Backtest is nil when the
// symbol's history is too thin for a meaningful simulation.
type SymbolDetail struct {
	Symbol         string
	Gap            *GapEvent // nil when the latest session did not gap
	Probability    *ProbabilityEstimate
	Sentiment      Sentiment
	Backtest       *BacktestResult
	Recommendation Recommendation
}
