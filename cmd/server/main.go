// Package main runs the gap analysis API server: watchlist scans, symbol
// drilldowns, backtests, news and the trade journal over HTTP, with
// optional PostgreSQL/ClickHouse persistence and a live trade stream.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/analysis"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/httpapi"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/marketdata"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/sentiment"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
	chstore "github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage/clickhouse"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage/memory"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage/migrations"
	pgstore "github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage/postgres"
)

// serverStores holds the storage implementations the server wires up.
type serverStores struct {
	gapScans storage.GapScanStore
	journal  storage.TradeJournalStore
	barCache storage.BarCacheStore
}

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("ADDR", ":8080"), "HTTP listen address")
	alpacaKey := flag.String("alpaca-key", os.Getenv("APCA_API_KEY_ID"), "Alpaca API key ID")
	alpacaSecret := flag.String("alpaca-secret", os.Getenv("APCA_API_SECRET_KEY"), "Alpaca API secret key")
	feed := flag.String("feed", envOr("ALPACA_FEED", marketdata.DefaultFeed), "Alpaca data feed (iex or sip)")
	groqKey := flag.String("groq-key", os.Getenv("GROQ_API_KEY"), "Groq API key for sentiment (optional)")
	watchlist := flag.String("watchlist", envOr("WATCHLIST", ""), "Comma-separated watchlist symbols")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	lookbackDays := flag.Int("lookback-days", analysis.DefaultLookbackDays, "Daily history window per scan symbol")
	enableStream := flag.Bool("stream", false, "Subscribe to the live trade stream for the watchlist")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if *alpacaKey == "" || *alpacaSecret == "" {
		logger.Fatal("--alpaca-key and --alpaca-secret are required (or APCA_API_KEY_ID / APCA_API_SECRET_KEY)")
	}
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	symbols := splitSymbols(*watchlist)
	if len(symbols) == 0 {
		logger.Fatal("--watchlist is required (comma-separated symbols)")
	}
	logger.Printf("Watchlist: %v", symbols)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Market data provider: Alpaca behind the daily-bar cache
	alpaca := marketdata.NewAlpacaClient(*alpacaKey, *alpacaSecret, marketdata.WithFeed(*feed))
	provider := marketdata.NewCachedProvider(alpaca, stores.barCache)

	// Sentiment analyzer: neutral when no key is configured
	var analyzer sentiment.Analyzer = sentiment.NewGroqAnalyzer(*groqKey)
	if *groqKey == "" {
		logger.Println("GROQ_API_KEY not set, sentiment scoring disabled (neutral)")
	}

	facade := analysis.NewFacade(provider, analyzer, analysis.Config{
		LookbackDays: *lookbackDays,
	})

	// Optional live trade stream for intraday fill tracking; detail and
	// status responses report its last prices.
	var live httpapi.PriceSource
	if *enableStream {
		stream, err := marketdata.NewTradeStream(ctx, *alpacaKey, *alpacaSecret, symbols, nil)
		if err != nil {
			logger.Fatalf("Failed to start trade stream: %v", err)
		}
		defer stream.Close()
		live = stream
		logger.Printf("Trade stream subscribed to %d symbols", len(symbols))
	}

	server := httpapi.NewServer(httpapi.ServerConfig{
		Addr:      *addr,
		Watchlist: symbols,
	}, facade, stores.journal, stores.gapScans, live)

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = server.ListenAndServe(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores, running migrations for the
// database-backed mode.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*serverStores, func(), error) {
	if useMemory {
		stores := &serverStores{
			gapScans: memory.NewGapScanStore(),
			journal:  memory.NewTradeJournalStore(),
			barCache: memory.NewBarCacheStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	// ClickHouse (migrations return the reusable connection)
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	stores := &serverStores{
		gapScans: pgstore.NewGapScanStore(pool),
		journal:  pgstore.NewTradeJournalStore(pool),
		barCache: chstore.NewBarCacheStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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
