// Package reporting renders scan and backtest outcomes as Markdown and CSV
// for the morning-report files the CLIs write.
package reporting

import (
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// ScanReport is the renderable morning scan.
type ScanReport struct {
	GeneratedAt time.Time
	Watchlist   int // symbols scanned
	Results     []domain.ScanResult
	Failures    []domain.ScanFailure
}

// BacktestReport is the renderable single-symbol simulation.
type BacktestReport struct {
	GeneratedAt time.Time
	Result      *domain.BacktestResult
	Trades      []domain.SimulatedTrade
}

// NewScanReport wraps a scan outcome with generation metadata.
func NewScanReport(watchlist int, report *domain.ScanReport, now func() time.Time) *ScanReport {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &ScanReport{
		GeneratedAt: now(),
		Watchlist:   watchlist,
		Results:     report.Results,
		Failures:    report.Failures,
	}
}

// NewBacktestReport wraps a backtest outcome with generation metadata.
func NewBacktestReport(result *domain.BacktestResult, trades []domain.SimulatedTrade, now func() time.Time) *BacktestReport {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BacktestReport{
		GeneratedAt: now(),
		Result:      result,
		Trades:      trades,
	}
}
