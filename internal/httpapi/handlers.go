package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/analysis"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// handleGaps scans the watchlist: GET /api/gaps?min_gap=&max_gap=&limit=&symbols=
func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	params := analysis.ScanParams{Watchlist: s.config.Watchlist}

	q := r.URL.Query()
	if raw := q.Get("symbols"); raw != "" {
		params.Watchlist = splitSymbols(raw)
	}
	if raw := q.Get("min_gap"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			writeBadRequest(w, "min_gap must be a non-negative number")
			return
		}
		params.MinGap = v
	}
	if raw := q.Get("max_gap"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			writeBadRequest(w, "max_gap must be a positive number")
			return
		}
		params.MaxGap = v
	}
	if params.MaxGap > 0 && params.MaxGap < params.MinGap {
		writeBadRequest(w, "max_gap must not be below min_gap")
		return
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		params.Limit = v
	}

	report, err := s.analyzer.Scan(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	s.persistScan(r.Context(), report)

	writeList(w, http.StatusOK, toScanReportView(report), len(report.Results))
}

// persistScan records scan rows for historical follow-up. Re-scanning the
// same session hits the (symbol, scan_date) unique key and is skipped.
func (s *Server) persistScan(ctx context.Context, report *domain.ScanReport) {
	if s.scans == nil {
		return
	}

	for _, res := range report.Results {
		record := &domain.GapScanRecord{
			Symbol:         res.Gap.Symbol,
			ScanDate:       res.Gap.Date,
			GapPercent:     res.Gap.GapPercent,
			Price:          res.Price,
			Volume:         res.Volume,
			VolumeRatio:    res.VolumeRatio,
			SentimentScore: res.Sentiment.Score,
			Conviction:     string(res.Conviction),
		}
		if res.Probability != nil {
			record.FillProbability = res.Probability.FillRate
		}

		err := s.scans.Insert(ctx, record)
		if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			s.logger.Printf("persist scan row %s %s: %v", record.Symbol, record.ScanDate, err)
		}
	}
}

// handleGapDetail drills into one symbol: GET /api/gaps/{symbol}
func (s *Server) handleGapDetail(w http.ResponseWriter, r *http.Request) {
	symbol := normalizeSymbol(r.PathValue("symbol"))
	if symbol == "" {
		writeBadRequest(w, "symbol is required")
		return
	}

	detail, err := s.analyzer.Detail(r.Context(), symbol)
	if err != nil {
		writeError(w, err)
		return
	}

	view := toDetailView(detail)
	if s.live != nil {
		if price, ok := s.live.LastPrice(symbol); ok {
			view.LivePrice = &price
		}
	}

	writeData(w, http.StatusOK, view)
}

// handleBacktest simulates the gap-fade rule: GET /api/backtest/{symbol}?days=
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	symbol := normalizeSymbol(r.PathValue("symbol"))
	if symbol == "" {
		writeBadRequest(w, "symbol is required")
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeBadRequest(w, "days must be a positive integer")
			return
		}
		days = v
	}

	result, err := s.analyzer.Backtest(r.Context(), symbol, days)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, toBacktestView(result))
}

// handleWatchlistNews aggregates headlines across the watchlist:
// GET /api/news?limit=
func (s *Server) handleWatchlistNews(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 5)
	if limit < 0 {
		writeBadRequest(w, "limit must be a positive integer")
		return
	}

	var items []domain.NewsItem
	for _, symbol := range s.config.Watchlist {
		batch, err := s.analyzer.News(r.Context(), symbol, limit)
		if err != nil {
			// Per-symbol news failures degrade to fewer headlines.
			continue
		}
		items = append(items, batch...)
	}

	views := toNewsViews(items)
	writeList(w, http.StatusOK, views, len(views))
}

// handleSymbolNews returns scored headlines: GET /api/news/{symbol}?limit=
func (s *Server) handleSymbolNews(w http.ResponseWriter, r *http.Request) {
	symbol := normalizeSymbol(r.PathValue("symbol"))
	if symbol == "" {
		writeBadRequest(w, "symbol is required")
		return
	}

	limit := parseLimit(r, 10)
	if limit < 0 {
		writeBadRequest(w, "limit must be a positive integer")
		return
	}

	items, err := s.analyzer.News(r.Context(), symbol, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	views := toNewsViews(items)
	writeList(w, http.StatusOK, views, len(views))
}

// handleListTrades lists journal entries: GET /api/trades?symbol=
func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, fmt.Errorf("trade journal: %w", storage.ErrNotFound))
		return
	}

	var (
		entries []*domain.JournalEntry
		err     error
	)
	if symbol := normalizeSymbol(r.URL.Query().Get("symbol")); symbol != "" {
		entries, err = s.journal.GetBySymbol(r.Context(), symbol)
	} else {
		entries, err = s.journal.GetAll(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}

	views := toJournalViews(entries)
	writeList(w, http.StatusOK, views, len(views))
}

// handleCreateTrade records a journal entry: POST /api/trades
func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, fmt.Errorf("trade journal: %w", storage.ErrNotFound))
		return
	}

	var body journalEntryView
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	entry := &domain.JournalEntry{
		Symbol:     normalizeSymbol(body.Symbol),
		EntryDate:  body.EntryDate,
		EntryPrice: body.EntryPrice,
		ExitDate:   body.ExitDate,
		ExitPrice:  body.ExitPrice,
		Quantity:   body.Quantity,
		Direction:  body.Direction,
		Reason:     body.Reason,
		Outcome:    body.Outcome,
		PnL:        body.PnL,
		PnLPercent: body.PnLPercent,
		Notes:      body.Notes,
	}
	if entry.Symbol == "" || entry.EntryDate == "" {
		writeBadRequest(w, "symbol and entry_date are required")
		return
	}
	if _, err := time.Parse(domain.DateLayout, entry.EntryDate); err != nil {
		writeBadRequest(w, "entry_date must be YYYY-MM-DD")
		return
	}

	if err := s.journal.Insert(r.Context(), entry); err != nil {
		writeError(w, err)
		return
	}

	views := toJournalViews([]*domain.JournalEntry{entry})
	writeData(w, http.StatusCreated, views[0])
}

// handleScansByDate returns persisted scan rows: GET /api/scans/{date}
func (s *Server) handleScansByDate(w http.ResponseWriter, r *http.Request) {
	if s.scans == nil {
		writeError(w, fmt.Errorf("scan history: %w", storage.ErrNotFound))
		return
	}

	date := r.PathValue("date")
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		writeBadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	records, err := s.scans.GetByDate(r.Context(), date)
	if err != nil {
		writeError(w, err)
		return
	}

	views := toScanRecordViews(records)
	writeList(w, http.StatusOK, views, len(views))
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// statusResponse is the JSON response for /status.
type statusResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Watchlist   int    `json:"watchlist_size"`
	LiveSymbols int    `json:"live_symbols"`
}

// handleStatus reports server status, including how many watchlist symbols
// have traded on the live stream so far.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	live := 0
	if s.live != nil {
		for _, symbol := range s.config.Watchlist {
			if _, ok := s.live.LastPrice(symbol); ok {
				live++
			}
		}
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).String(),
		Watchlist:   len(s.config.Watchlist),
		LiveSymbols: live,
	})
}

func normalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func splitSymbols(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := normalizeSymbol(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseLimit reads ?limit= with a default; returns -1 on invalid input.
func parseLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return -1
	}
	return v
}
