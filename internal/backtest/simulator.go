package backtest

import (
	"fmt"
	"math"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/bars"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/gap"
)

// tradingDaysPerYear annualizes the per-trade Sharpe ratio.
const tradingDaysPerYear = 252

// Simulator replays historical sessions under a Policy. Identical input
// always yields an identical result; there is no hidden randomness.
type Simulator struct {
	policy Policy
}

// NewSimulator creates a Simulator. A zero-valued policy is replaced with
// DefaultPolicy.
func NewSimulator(policy Policy) *Simulator {
	if policy.ThresholdPercent <= 0 {
		policy.ThresholdPercent = DefaultPolicy().ThresholdPercent
	}
	if policy.MinTrades <= 0 {
		policy.MinTrades = DefaultPolicy().MinTrades
	}
	return &Simulator{policy: policy}
}

// Run simulates one trade per qualifying session: entry at the open, exit at
// the prior close when the session range touches it, else at the session
// close. Returns gap.ErrInsufficientHistory when fewer than Policy.MinTrades
// sessions qualify.
func (s *Simulator) Run(series *bars.Series) (*domain.BacktestResult, error) {
	_, result, err := s.Trades(series)
	return result, err
}

// Trades runs the simulation and returns the individual trades alongside the
// aggregate, for reporting.
func (s *Simulator) Trades(series *bars.Series) ([]domain.SimulatedTrade, *domain.BacktestResult, error) {
	events, err := gap.DetectAll(series)
	if err != nil {
		return nil, nil, err
	}

	var trades []domain.SimulatedTrade
	for _, ev := range events {
		if ev.AbsGapPercent() < s.policy.ThresholdPercent {
			continue
		}
		session, ok := series.ByDate(ev.Date)
		if !ok {
			continue
		}
		trades = append(trades, s.simulateTrade(ev, session))
	}

	if len(trades) < s.policy.MinTrades {
		return nil, nil, fmt.Errorf("%w: %s has %d qualifying sessions, need %d",
			gap.ErrInsufficientHistory, series.Symbol(), len(trades), s.policy.MinTrades)
	}

	result := aggregate(trades)
	result.Symbol = series.Symbol()
	result.StartDate = series.First().Date
	result.EndDate = series.Last().Date
	return trades, result, nil
}

// simulateTrade scores one qualifying session under the fixed exit policy.
func (s *Simulator) simulateTrade(ev domain.GapEvent, session domain.Bar) domain.SimulatedTrade {
	outcome := gap.EvaluateFill(ev, session, nil)

	exit := session.Close
	if outcome.Filled {
		exit = ev.PrevClose
	}

	side := sideFor(ev.Direction, s.policy.FadeGap)
	entry := ev.Open

	ret := (exit - entry) / entry
	if side == domain.SideShort {
		ret = -ret
	}

	return domain.SimulatedTrade{
		Symbol:     ev.Symbol,
		Date:       ev.Date,
		Side:       side,
		EntryPrice: entry,
		ExitPrice:  exit,
		Filled:     outcome.Filled,
		Return:     ret,
	}
}

func sideFor(dir domain.Direction, fade bool) domain.Side {
	if fade == (dir == domain.DirectionUp) {
		return domain.SideShort
	}
	return domain.SideLong
}

// aggregate folds per-trade returns into the result statistics.
func aggregate(trades []domain.SimulatedTrade) *domain.BacktestResult {
	n := len(trades)
	returns := make([]float64, n)
	for i, t := range trades {
		returns[i] = t.Return
	}

	wins := 0
	var sum, winSum, lossSum float64
	winN, lossN := 0, 0
	worst := returns[0]
	for _, r := range returns {
		sum += r
		if r > 0 {
			wins++
			winSum += r
			winN++
		} else {
			lossSum += r
			lossN++
		}
		if r < worst {
			worst = r
		}
	}

	mean := sum / float64(n)

	result := &domain.BacktestResult{
		Trades:      n,
		WinRate:     float64(wins) / float64(n),
		AvgReturn:   mean,
		WorstTrade:  worst,
		TotalReturn: sum,
		MaxDrawdown: maxDrawdown(returns),
		SharpeRatio: sharpe(returns, mean),
		Simplified:  true,
	}
	if winN > 0 {
		result.AvgWin = winSum / float64(winN)
	}
	if lossN > 0 {
		result.AvgLoss = lossSum / float64(lossN)
	}
	return result
}

// maxDrawdown returns the deepest peak-to-trough drop of the cumulative
// (uncompounded) return path, as a positive number.
func maxDrawdown(returns []float64) float64 {
	var cum, peak, maxDD float64
	for _, r := range returns {
		cum += r
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// sharpe annualizes mean/stddev of per-trade returns. Zero when the returns
// have no variance.
func sharpe(returns []float64, mean float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	var ss float64
	for _, r := range returns {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(returns)))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}
