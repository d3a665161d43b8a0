package reporting

import (
	"fmt"
	"strings"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// RenderScanCSV renders scan rows as CSV.
func RenderScanCSV(results []domain.ScanResult) string {
	var sb strings.Builder

	sb.WriteString("symbol,date,gap_percent,direction,price,volume,volume_ratio,")
	sb.WriteString("fill_rate,sample_size,confidence,sentiment_score,sentiment_label,conviction\n")

	for _, r := range results {
		fillRate, sample, confidence := "", "", ""
		if r.Probability != nil {
			fillRate = fmt.Sprintf("%.6f", r.Probability.FillRate)
			sample = fmt.Sprintf("%d", r.Probability.SampleSize)
			confidence = string(r.Probability.Confidence)
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%.4f,%s,%.4f,%d,%.4f,%s,%s,%s,%.4f,%s,%s\n",
			r.Gap.Symbol,
			r.Gap.Date,
			r.Gap.GapPercent,
			r.Gap.Direction,
			r.Price,
			r.Volume,
			r.VolumeRatio,
			fillRate,
			sample,
			confidence,
			r.Sentiment.Score,
			r.Sentiment.Label,
			r.Conviction,
		))
	}

	return sb.String()
}

// RenderTradesCSV renders simulated trades as CSV.
func RenderTradesCSV(trades []domain.SimulatedTrade) string {
	var sb strings.Builder

	sb.WriteString("symbol,date,side,entry_price,exit_price,filled,return\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%.4f,%.4f,%t,%.6f\n",
			t.Symbol,
			t.Date,
			t.Side,
			t.EntryPrice,
			t.ExitPrice,
			t.Filled,
			t.Return,
		))
	}

	return sb.String()
}
