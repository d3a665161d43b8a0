// Package main runs a one-shot watchlist gap scan and prints the results as
// a console table, optionally writing Markdown and CSV reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/analysis"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/marketdata"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/reporting"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/sentiment"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	alpacaKey := flag.String("alpaca-key", os.Getenv("APCA_API_KEY_ID"), "Alpaca API key ID")
	alpacaSecret := flag.String("alpaca-secret", os.Getenv("APCA_API_SECRET_KEY"), "Alpaca API secret key")
	groqKey := flag.String("groq-key", os.Getenv("GROQ_API_KEY"), "Groq API key for sentiment (optional)")
	watchlist := flag.String("watchlist", os.Getenv("WATCHLIST"), "Comma-separated watchlist symbols")
	minGap := flag.Float64("min-gap", 0, "Minimum absolute gap percent")
	maxGap := flag.Float64("max-gap", 0, "Maximum absolute gap percent (0 = unbounded)")
	limit := flag.Int("limit", 0, "Maximum result rows (0 = all)")
	lookbackDays := flag.Int("lookback-days", analysis.DefaultLookbackDays, "Daily history window per symbol")
	outputDir := flag.String("output-dir", "", "Write Markdown and CSV reports to this directory")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[scan] ", log.LstdFlags)

	// Validate required flags
	if *alpacaKey == "" || *alpacaSecret == "" {
		logger.Fatal("--alpaca-key and --alpaca-secret are required (or APCA_API_KEY_ID / APCA_API_SECRET_KEY)")
	}
	symbols := splitSymbols(*watchlist)
	if len(symbols) == 0 {
		logger.Fatal("--watchlist is required (comma-separated symbols)")
	}

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
	facade := analysis.NewFacade(provider, sentiment.NewGroqAnalyzer(*groqKey), analysis.Config{
		LookbackDays: *lookbackDays,
	})

	report, err := facade.Scan(ctx, analysis.ScanParams{
		Watchlist: symbols,
		MinGap:    *minGap,
		MaxGap:    *maxGap,
		Limit:     *limit,
	})
	if err != nil {
		logger.Fatalf("Scan failed: %v", err)
	}

	printScanTable(report.Results)

	if len(report.Failures) > 0 {
		fmt.Println("\nFailures:")
		for _, f := range report.Failures {
			fmt.Printf("  %s: %s\n", f.Symbol, f.Reason)
		}
	}

	if *outputDir != "" {
		if err := writeReports(*outputDir, len(symbols), report); err != nil {
			logger.Fatalf("Failed to write reports: %v", err)
		}
		logger.Printf("Reports written to %s/", *outputDir)
	}
}

func printScanTable(results []domain.ScanResult) {
	if len(results) == 0 {
		fmt.Println("No gaps detected.")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Symbol", "Date", "Gap", "Dir", "Price", "Vol Ratio", "Fill Rate", "Sample", "Sentiment", "Conviction")

	for _, r := range results {
		fillRate, sample := "n/a", "n/a"
		if r.Probability != nil {
			fillRate = fmt.Sprintf("%.0f%%", r.Probability.FillRate*100)
			sample = fmt.Sprintf("%d", r.Probability.SampleSize)
		}
		table.Append(
			r.Gap.Symbol,
			r.Gap.Date,
			fmt.Sprintf("%+.2f%%", r.Gap.GapPercent),
			string(r.Gap.Direction),
			fmt.Sprintf("%.2f", r.Price),
			fmt.Sprintf("%.1fx", r.VolumeRatio),
			fillRate,
			sample,
			string(r.Sentiment.Label),
			string(r.Conviction),
		)
	}

	table.Render()
}

func writeReports(dir string, watchlist int, report *domain.ScanReport) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	scan := reporting.NewScanReport(watchlist, report, nil)

	md := reporting.RenderScanMarkdown(scan)
	if err := os.WriteFile(filepath.Join(dir, "scan.md"), []byte(md), 0644); err != nil {
		return fmt.Errorf("write scan.md: %w", err)
	}

	csv := reporting.RenderScanCSV(report.Results)
	if err := os.WriteFile(filepath.Join(dir, "scan.csv"), []byte(csv), 0644); err != nil {
		return fmt.Errorf("write scan.csv: %w", err)
	}

	return nil
}

func splitSymbols(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.ToUpper(strings.TrimSpace(part)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
