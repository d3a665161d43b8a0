// Package main backtests the gap-fade rule for one symbol and prints the
// per-trade breakdown and aggregate statistics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/backtest"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/bars"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/marketdata"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/reporting"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	alpacaKey := flag.String("alpaca-key", os.Getenv("APCA_API_KEY_ID"), "Alpaca API key ID")
	alpacaSecret := flag.String("alpaca-secret", os.Getenv("APCA_API_SECRET_KEY"), "Alpaca API secret key")
	symbol := flag.String("symbol", "", "Symbol to backtest (required)")
	days := flag.Int("days", 252, "Daily history window")
	threshold := flag.Float64("threshold", backtest.DefaultPolicy().ThresholdPercent, "Minimum absolute gap percent to trade")
	minTrades := flag.Int("min-trades", backtest.DefaultPolicy().MinTrades, "Minimum qualifying sessions")
	withGap := flag.Bool("with-gap", false, "Trade with the gap instead of fading it")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	outputDir := flag.String("output-dir", "", "Write Markdown and CSV reports to this directory")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	// Validate required flags
	if *alpacaKey == "" || *alpacaSecret == "" {
		logger.Fatal("--alpaca-key and --alpaca-secret are required (or APCA_API_KEY_ID / APCA_API_SECRET_KEY)")
	}
	if *symbol == "" {
		logger.Fatal("--symbol is required")
	}
	sym := strings.ToUpper(strings.TrimSpace(*symbol))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	provider := marketdata.NewAlpacaClient(*alpacaKey, *alpacaSecret)

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -*days)
	fetched, err := provider.GetBars(ctx, sym,
		start.Format(domain.DateLayout), end.Format(domain.DateLayout), domain.TimeframeDay)
	if err != nil {
		logger.Fatalf("Fetch bars: %v", err)
	}

	series, err := bars.NewSeries(sym, fetched)
	if err != nil {
		logger.Fatalf("Build series: %v", err)
	}
	logger.Printf("Fetched %d sessions (%s to %s)", series.Len(), series.First().Date, series.Last().Date)

	sim := backtest.NewSimulator(backtest.Policy{
		ThresholdPercent: *threshold,
		MinTrades:        *minTrades,
		FadeGap:          !*withGap,
	})

	trades, result, err := sim.Trades(series)
	if err != nil {
		logger.Fatalf("Backtest: %v", err)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			logger.Fatalf("Encode result: %v", err)
		}
	} else {
		printTradesTable(trades)
		printSummary(result)
	}

	if *outputDir != "" {
		if err := writeReports(*outputDir, result, trades); err != nil {
			logger.Fatalf("Failed to write reports: %v", err)
		}
		logger.Printf("Reports written to %s/", *outputDir)
	}
}

func printTradesTable(trades []domain.SimulatedTrade) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Date", "Side", "Entry", "Exit", "Filled", "Return")

	for _, t := range trades {
		table.Append(
			t.Date,
			string(t.Side),
			fmt.Sprintf("%.2f", t.EntryPrice),
			fmt.Sprintf("%.2f", t.ExitPrice),
			fmt.Sprintf("%t", t.Filled),
			fmt.Sprintf("%+.4f", t.Return),
		)
	}

	table.Render()
}

func printSummary(r *domain.BacktestResult) {
	fmt.Printf("\n%s %s to %s: %d trades, win rate %.1f%%, avg return %.4f, worst %.4f\n",
		r.Symbol, r.StartDate, r.EndDate, r.Trades, r.WinRate*100, r.AvgReturn, r.WorstTrade)
	fmt.Printf("total %.4f, max drawdown %.4f, sharpe %.2f (simplified model)\n",
		r.TotalReturn, r.MaxDrawdown, r.SharpeRatio)
}

func writeReports(dir string, result *domain.BacktestResult, trades []domain.SimulatedTrade) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	report := reporting.NewBacktestReport(result, trades, nil)

	md := reporting.RenderBacktestMarkdown(report)
	if err := os.WriteFile(filepath.Join(dir, "backtest.md"), []byte(md), 0644); err != nil {
		return fmt.Errorf("write backtest.md: %w", err)
	}

	csv := reporting.RenderTradesCSV(trades)
	if err := os.WriteFile(filepath.Join(dir, "trades.csv"), []byte(csv), 0644); err != nil {
		return fmt.Errorf("write trades.csv: %w", err)
	}

	return nil
}
