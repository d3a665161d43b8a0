// Package gap implements the gap analysis engine: overnight gap detection,
// intraday fill evaluation, and the bucketed fill-probability estimator.
package gap

import "errors"

// Engine errors. Callers distinguish outcomes with errors.Is; insufficiency
// is never reported as a zero-valued estimate.
var (
	// ErrInsufficientData is returned when a series holds fewer than two
	// sessions, so no prior close exists to measure a gap against.
	ErrInsufficientData = errors.New("insufficient data: need at least 2 sessions")

	// ErrInsufficientHistory is returned when too few historical samples
	// exist for a probability estimate or a meaningful backtest.
	ErrInsufficientHistory = errors.New("insufficient history for estimate")

	// ErrNoGap is returned when the session opened exactly at the prior
	// close. A 0% gap is not a gap and never appears in results.
	ErrNoGap = errors.New("no gap: open equals prior close")
)
