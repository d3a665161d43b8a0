package domain

// Confidence qualifies a ProbabilityEstimate. Low confidence is a qualifier
// on a valid estimate, not an error.
type Confidence string

// Confidence levels.
const (
	ConfidenceOK  Confidence = "ok"
	ConfidenceLow Confidence = "low_sample"
)

// ProbabilityEstimate is the empirical fill probability for a gap, derived
// from historical FillOutcomes in the matching magnitude bucket.
type ProbabilityEstimate struct {
	Symbol      string
	Direction   Direction
	Bucket      string     // magnitude bucket the estimate was read from, e.g. "2-3%"
	SampleSize  int        // historical gaps backing the estimate
	FilledCount int        // how many of those filled
	FillRate    float64    // FilledCount / SampleSize
	AvgBarsToFill float64  // mean intraday bars to fill across filled samples; 0 without intraday data
	Confidence  Confidence // ConfidenceLow when buckets were merged or the symbol-wide pool was used
}
