// Package httpapi serves the gap analysis engine over HTTP with the JSON
// envelope and routes of the original service.
package httpapi

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/analysis"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/marketdata"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/observability"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// Analyzer is the analysis surface the handlers depend on. The facade
// satisfies it; tests substitute a stub.
type Analyzer interface {
	Scan(ctx context.Context, params analysis.ScanParams) (*domain.ScanReport, error)
	Detail(ctx context.Context, symbol string) (*domain.SymbolDetail, error)
	Backtest(ctx context.Context, symbol string, days int) (*domain.BacktestResult, error)
	News(ctx context.Context, symbol string, limit int) ([]domain.NewsItem, error)
}

// Compile-time check that the facade satisfies Analyzer.
var _ Analyzer = (*analysis.Facade)(nil)

// PriceSource reports the most recent traded price observed for a symbol.
// The live trade stream satisfies it.
type PriceSource interface {
	LastPrice(symbol string) (float64, bool)
}

var _ PriceSource = (*marketdata.TradeStream)(nil)

// ServerConfig configures the API server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string

	// Watchlist is the default symbol set scanned by /api/gaps.
	Watchlist []string
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	analyzer Analyzer
	journal  storage.TradeJournalStore
	scans    storage.GapScanStore
	live     PriceSource
	logger   *log.Logger
	started  time.Time
	httpSrv  *http.Server
}

// NewServer creates the API server. journal and scans may be nil, disabling
// the corresponding routes with a 404 envelope. live may be nil when no
// trade stream is running; detail and status responses then omit live prices.
func NewServer(config ServerConfig, analyzer Analyzer, journal storage.TradeJournalStore, scans storage.GapScanStore, live PriceSource) *Server {
	return &Server{
		config:   config,
		analyzer: analyzer,
		journal:  journal,
		scans:    scans,
		live:     live,
		logger:   log.New(os.Stdout, "[httpapi] ", log.LstdFlags),
		started:  time.Now(),
	}
}

// Routes builds the route table.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/gaps", withMetrics("/api/gaps", s.handleGaps))
	mux.HandleFunc("GET /api/gaps/{symbol}", withMetrics("/api/gaps/{symbol}", s.handleGapDetail))
	mux.HandleFunc("GET /api/backtest/{symbol}", withMetrics("/api/backtest/{symbol}", s.handleBacktest))
	mux.HandleFunc("GET /api/news", withMetrics("/api/news", s.handleWatchlistNews))
	mux.HandleFunc("GET /api/news/{symbol}", withMetrics("/api/news/{symbol}", s.handleSymbolNews))
	mux.HandleFunc("GET /api/trades", withMetrics("/api/trades", s.handleListTrades))
	mux.HandleFunc("POST /api/trades", withMetrics("/api/trades", s.handleCreateTrade))
	mux.HandleFunc("GET /api/scans/{date}", withMetrics("/api/scans/{date}", s.handleScansByDate))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.Handle("GET /metrics", observability.Handler())

	return withCORS(mux)
}

// ListenAndServe runs the server until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Listening on %s", s.config.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
