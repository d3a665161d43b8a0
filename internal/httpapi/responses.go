package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/bars"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/gap"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/marketdata"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/storage"
)

// envelope is the uniform JSON response shape.
type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Count     *int        `json:"count,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// writeData writes a success envelope without a count.
func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeList writes a success envelope with an element count.
func writeList(w http.ResponseWriter, status int, data interface{}, count int) {
	writeJSON(w, status, envelope{
		Success:   true,
		Data:      data,
		Count:     &count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeError maps the error kind to a status code and writes the envelope.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), envelope{
		Success:   false,
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeBadRequest writes a 400 envelope with a plain message.
func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success:   false,
		Error:     msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusForError maps domain error kinds to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, marketdata.ErrDataUnavailable), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gap.ErrInsufficientData),
		errors.Is(err, gap.ErrInsufficientHistory),
		errors.Is(err, gap.ErrNoGap):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bars.ErrInvalidBar), errors.Is(err, storage.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// View types: wire shapes for the domain structs.

type gapView struct {
	Symbol     string  `json:"symbol"`
	Date       string  `json:"date"`
	PrevClose  float64 `json:"prev_close"`
	Open       float64 `json:"open"`
	GapPercent float64 `json:"gap_percent"`
	Direction  string  `json:"direction"`
}

type probabilityView struct {
	Bucket        string  `json:"bucket"`
	SampleSize    int     `json:"sample_size"`
	FilledCount   int     `json:"filled_count"`
	FillRate      float64 `json:"fill_rate"`
	AvgBarsToFill float64 `json:"avg_bars_to_fill,omitempty"`
	Confidence    string  `json:"confidence"`
}

type sentimentView struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

type scanResultView struct {
	Gap         gapView          `json:"gap"`
	Price       float64          `json:"price"`
	Volume      int64            `json:"volume"`
	VolumeRatio float64          `json:"volume_ratio"`
	Probability *probabilityView `json:"probability,omitempty"`
	Sentiment   sentimentView    `json:"sentiment"`
	Conviction  string           `json:"conviction"`
	Reasons     []string         `json:"reasons"`
}

type scanReportView struct {
	Results  []scanResultView  `json:"results"`
	Failures []scanFailureView `json:"failures"`
}

type scanFailureView struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

type backtestView struct {
	Symbol      string  `json:"symbol"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Trades      int     `json:"trades"`
	WinRate     float64 `json:"win_rate"`
	AvgReturn   float64 `json:"avg_return"`
	WorstTrade  float64 `json:"worst_trade"`
	AvgWin      float64 `json:"avg_win"`
	AvgLoss     float64 `json:"avg_loss"`
	TotalReturn float64 `json:"total_return"`
	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`
	Simplified  bool    `json:"simplified"`
}

type recommendationView struct {
	Action          string  `json:"action"`
	Confidence      string  `json:"confidence"`
	ExpectedWinRate float64 `json:"expected_win_rate"`
	FillProbability float64 `json:"fill_probability"`
}

type detailView struct {
	Symbol         string             `json:"symbol"`
	Gap            *gapView           `json:"gap,omitempty"`
	LivePrice      *float64           `json:"live_price,omitempty"`
	Probability    *probabilityView   `json:"probability,omitempty"`
	Sentiment      sentimentView      `json:"sentiment"`
	Backtest       *backtestView      `json:"backtest,omitempty"`
	Recommendation recommendationView `json:"recommendation"`
}

type newsItemView struct {
	ID        string        `json:"id"`
	Headline  string        `json:"headline"`
	Summary   string        `json:"summary,omitempty"`
	Source    string        `json:"source,omitempty"`
	URL       string        `json:"url,omitempty"`
	Symbols   []string      `json:"symbols,omitempty"`
	CreatedAt string        `json:"created_at,omitempty"`
	Sentiment sentimentView `json:"sentiment"`
}

type journalEntryView struct {
	ID         int64   `json:"id"`
	Symbol     string  `json:"symbol"`
	EntryDate  string  `json:"entry_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitDate   string  `json:"exit_date,omitempty"`
	ExitPrice  float64 `json:"exit_price,omitempty"`
	Quantity   int64   `json:"quantity,omitempty"`
	Direction  string  `json:"direction,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Outcome    string  `json:"outcome,omitempty"`
	PnL        float64 `json:"pnl,omitempty"`
	PnLPercent float64 `json:"pnl_percent,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	CreatedAt  int64   `json:"created_at,omitempty"`
}

type scanRecordView struct {
	ID              int64   `json:"id"`
	Symbol          string  `json:"symbol"`
	ScanDate        string  `json:"scan_date"`
	GapPercent      float64 `json:"gap_percent"`
	Price           float64 `json:"price"`
	Volume          int64   `json:"volume"`
	VolumeRatio     float64 `json:"volume_ratio"`
	FillProbability float64 `json:"fill_probability"`
	SentimentScore  float64 `json:"sentiment_score"`
	Conviction      string  `json:"conviction"`
	Filled          bool    `json:"filled"`
	FillDate        string  `json:"fill_date,omitempty"`
	CreatedAt       int64   `json:"created_at"`
}

func toScanRecordViews(records []*domain.GapScanRecord) []scanRecordView {
	views := make([]scanRecordView, 0, len(records))
	for _, r := range records {
		views = append(views, scanRecordView{
			ID:              r.ID,
			Symbol:          r.Symbol,
			ScanDate:        r.ScanDate,
			GapPercent:      r.GapPercent,
			Price:           r.Price,
			Volume:          r.Volume,
			VolumeRatio:     r.VolumeRatio,
			FillProbability: r.FillProbability,
			SentimentScore:  r.SentimentScore,
			Conviction:      r.Conviction,
			Filled:          r.Filled,
			FillDate:        r.FillDate,
			CreatedAt:       r.CreatedAt,
		})
	}
	return views
}

func toGapView(g domain.GapEvent) gapView {
	return gapView{
		Symbol:     g.Symbol,
		Date:       g.Date,
		PrevClose:  g.PrevClose,
		Open:       g.Open,
		GapPercent: g.GapPercent,
		Direction:  string(g.Direction),
	}
}

func toProbabilityView(p *domain.ProbabilityEstimate) *probabilityView {
	if p == nil {
		return nil
	}
	return &probabilityView{
		Bucket:        p.Bucket,
		SampleSize:    p.SampleSize,
		FilledCount:   p.FilledCount,
		FillRate:      p.FillRate,
		AvgBarsToFill: p.AvgBarsToFill,
		Confidence:    string(p.Confidence),
	}
}

func toSentimentView(s domain.Sentiment) sentimentView {
	return sentimentView{Score: s.Score, Label: string(s.Label)}
}

func toScanReportView(r *domain.ScanReport) scanReportView {
	view := scanReportView{
		Results:  make([]scanResultView, 0, len(r.Results)),
		Failures: make([]scanFailureView, 0, len(r.Failures)),
	}
	for _, res := range r.Results {
		reasons := res.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		view.Results = append(view.Results, scanResultView{
			Gap:         toGapView(res.Gap),
			Price:       res.Price,
			Volume:      res.Volume,
			VolumeRatio: res.VolumeRatio,
			Probability: toProbabilityView(res.Probability),
			Sentiment:   toSentimentView(res.Sentiment),
			Conviction:  string(res.Conviction),
			Reasons:     reasons,
		})
	}
	for _, f := range r.Failures {
		view.Failures = append(view.Failures, scanFailureView{Symbol: f.Symbol, Reason: f.Reason})
	}
	return view
}

func toBacktestView(b *domain.BacktestResult) *backtestView {
	if b == nil {
		return nil
	}
	return &backtestView{
		Symbol:      b.Symbol,
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		Trades:      b.Trades,
		WinRate:     b.WinRate,
		AvgReturn:   b.AvgReturn,
		WorstTrade:  b.WorstTrade,
		AvgWin:      b.AvgWin,
		AvgLoss:     b.AvgLoss,
		TotalReturn: b.TotalReturn,
		MaxDrawdown: b.MaxDrawdown,
		SharpeRatio: b.SharpeRatio,
		Simplified:  b.Simplified,
	}
}

func toDetailView(d *domain.SymbolDetail) detailView {
	view := detailView{
		Symbol:      d.Symbol,
		Probability: toProbabilityView(d.Probability),
		Sentiment:   toSentimentView(d.Sentiment),
		Backtest:    toBacktestView(d.Backtest),
		Recommendation: recommendationView{
			Action:          string(d.Recommendation.Action),
			Confidence:      string(d.Recommendation.Confidence),
			ExpectedWinRate: d.Recommendation.ExpectedWinRate,
			FillProbability: d.Recommendation.FillProbability,
		},
	}
	if d.Gap != nil {
		g := toGapView(*d.Gap)
		view.Gap = &g
	}
	return view
}

func toNewsViews(items []domain.NewsItem) []newsItemView {
	views := make([]newsItemView, 0, len(items))
	for _, n := range items {
		views = append(views, newsItemView{
			ID:        n.ID,
			Headline:  n.Headline,
			Summary:   n.Summary,
			Source:    n.Source,
			URL:       n.URL,
			Symbols:   n.Symbols,
			CreatedAt: n.CreatedAt,
			Sentiment: toSentimentView(n.Sentiment),
		})
	}
	return views
}

func toJournalViews(entries []*domain.JournalEntry) []journalEntryView {
	views := make([]journalEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, journalEntryView{
			ID:         e.ID,
			Symbol:     e.Symbol,
			EntryDate:  e.EntryDate,
			EntryPrice: e.EntryPrice,
			ExitDate:   e.ExitDate,
			ExitPrice:  e.ExitPrice,
			Quantity:   e.Quantity,
			Direction:  e.Direction,
			Reason:     e.Reason,
			Outcome:    e.Outcome,
			PnL:        e.PnL,
			PnLPercent: e.PnLPercent,
			Notes:      e.Notes,
			CreatedAt:  e.CreatedAt,
		})
	}
	return views
}
