// Package backtest replays a symbol's historical sessions under a simple
// fade-the-gap rule and reports aggregate outcome statistics. It is a
// frequency/return study, not a P&L simulation: no compounding, sizing,
// slippage or commissions.
package backtest

// Policy fixes the trading rule the simulator applies. The exit convention
// and the long/short sign convention are deliberately explicit because they
// determine every realized return.
type Policy struct {
	// ThresholdPercent is the minimum absolute gap percent that triggers a
	// trade at the session open.
	ThresholdPercent float64

	// MinTrades is the minimum number of qualifying sessions; fewer fails
	// with gap.ErrInsufficientHistory instead of a hollow zero-trade result.
	MinTrades int

	// FadeGap selects the side convention. True (the default) shorts up-gaps
	// and buys down-gaps, betting on the fill; false trades with the gap.
	FadeGap bool
}

// DefaultPolicy returns the documented default rule: fade gaps of at least
// 2%, require 3 qualifying sessions.
func DefaultPolicy() Policy {
	return Policy{
		ThresholdPercent: 2.0,
		MinTrades:        3,
		FadeGap:          true,
	}
}
