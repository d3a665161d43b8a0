package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderScanMarkdown renders the morning scan as a Markdown report.
func RenderScanMarkdown(r *ScanReport) string {
	var sb strings.Builder

	sb.WriteString("# Overnight Gap Scan\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Watchlist: %d symbols | Gaps: %d | Failures: %d\n\n",
		r.Watchlist, len(r.Results), len(r.Failures)))

	sb.WriteString("## Gaps\n\n")
	if len(r.Results) > 0 {
		sb.WriteString("| Symbol | Date | Gap | Direction | Price | Vol Ratio | Fill Rate | Sample | Sentiment | Conviction |\n")
		sb.WriteString("|--------|------|-----|-----------|-------|-----------|-----------|--------|-----------|------------|\n")
		for _, res := range r.Results {
			fillRate, sample := "n/a", "n/a"
			if res.Probability != nil {
				fillRate = fmt.Sprintf("%.0f%%", res.Probability.FillRate*100)
				sample = fmt.Sprintf("%d", res.Probability.SampleSize)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %+.2f%% | %s | %.2f | %.1fx | %s | %s | %s | %s |\n",
				res.Gap.Symbol, res.Gap.Date, res.Gap.GapPercent, res.Gap.Direction,
				res.Price, res.VolumeRatio, fillRate, sample,
				res.Sentiment.Label, res.Conviction))
		}
		sb.WriteString("\n")

		for _, res := range r.Results {
			if len(res.Reasons) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("### %s\n\n", res.Gap.Symbol))
			for _, reason := range res.Reasons {
				sb.WriteString(fmt.Sprintf("- %s\n", reason))
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No gaps detected.\n\n")
	}

	if len(r.Failures) > 0 {
		sb.WriteString("## Failures\n\n")
		for _, f := range r.Failures {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", f.Symbol, f.Reason))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderBacktestMarkdown renders a backtest as a Markdown report.
func RenderBacktestMarkdown(r *BacktestReport) string {
	var sb strings.Builder
	res := r.Result

	sb.WriteString(fmt.Sprintf("# Gap Fade Backtest: %s\n\n", res.Symbol))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Window: %s to %s | Simplified model (no sizing, slippage or commissions)\n\n",
		res.StartDate, res.EndDate))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", res.Trades))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.1f%% |\n", res.WinRate*100))
	sb.WriteString(fmt.Sprintf("| Avg Return | %.4f |\n", res.AvgReturn))
	sb.WriteString(fmt.Sprintf("| Avg Win | %.4f |\n", res.AvgWin))
	sb.WriteString(fmt.Sprintf("| Avg Loss | %.4f |\n", res.AvgLoss))
	sb.WriteString(fmt.Sprintf("| Worst Trade | %.4f |\n", res.WorstTrade))
	sb.WriteString(fmt.Sprintf("| Total Return | %.4f |\n", res.TotalReturn))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.4f |\n", res.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Sharpe (annualized) | %.2f |\n", res.SharpeRatio))
	sb.WriteString("\n")

	if len(r.Trades) > 0 {
		sb.WriteString("## Trades\n\n")
		sb.WriteString("| Date | Side | Entry | Exit | Filled | Return |\n")
		sb.WriteString("|------|------|-------|------|--------|--------|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %t | %+.4f |\n",
				t.Date, t.Side, t.EntryPrice, t.ExitPrice, t.Filled, t.Return))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
