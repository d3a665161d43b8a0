package domain

// Side of a simulated trade.
type Side string

// Trade sides.
const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// SimulatedTrade is one fade-the-gap trade inside a backtest: entry at the
// session open, exit at the prior close if the session range touched it,
// otherwise at the session close.
type SimulatedTrade struct {
	Symbol     string
	Date       string // session date in DateLayout
	Side       Side
	EntryPrice float64
	ExitPrice  float64
	Filled     bool    // exit happened at the prior close
	Return     float64 // signed fractional return, e.g. 0.015 for +1.5%
}

// BacktestResult aggregates simulated trades for one symbol over a date
// range. A frequency/return statistic, not a P&L simulation: no compounding,
// position sizing, slippage or commissions — Simplified is always true.
type BacktestResult struct {
	Symbol     string
	StartDate  string // first session date in the replayed range
	EndDate    string // last session date in the replayed range
	Trades     int
	WinRate    float64 // fraction of trades with positive return
	AvgReturn  float64 // mean per-trade return
	WorstTrade float64 // minimum per-trade return
	AvgWin     float64 // mean return across winning trades
	AvgLoss    float64 // mean return across losing trades
	TotalReturn float64 // sum of per-trade returns (uncompounded)
	MaxDrawdown float64 // deepest drop of the cumulative return path, as a positive number
	SharpeRatio float64 // annualized mean/stddev of per-trade returns
	Simplified bool
}
