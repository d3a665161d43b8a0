// Package analysis composes the market data provider, gap detector,
// probability estimator, backtest simulator and sentiment analyzer into the
// watchlist scan and single-symbol drilldown used by the API and the CLIs.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/backtest"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/bars"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/gap"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/marketdata"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/observability"
	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/sentiment"
)

// Default facade configuration.
const (
	DefaultLookbackDays       = 100
	DefaultDetailLookbackDays = 252
	DefaultFetchTimeout       = 10 * time.Second
	DefaultConcurrency        = 8
	DefaultNewsLimit          = 10
)

// Config tunes the facade. Zero values select the defaults.
type Config struct {
	// LookbackDays is the daily history window fetched per scan symbol.
	LookbackDays int

	// DetailLookbackDays is the wider window used for drilldowns and
	// backtests.
	DetailLookbackDays int

	// FetchTimeout bounds provider calls for a single symbol.
	FetchTimeout time.Duration

	// Concurrency is the number of symbols scanned in parallel.
	Concurrency int

	// Now supplies the clock, overridable in tests.
	Now func() time.Time
}

func (c *Config) applyDefaults() {
	if c.LookbackDays <= 0 {
		c.LookbackDays = DefaultLookbackDays
	}
	if c.DetailLookbackDays <= 0 {
		c.DetailLookbackDays = DefaultDetailLookbackDays
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// ScanParams selects and filters a watchlist scan. MinGap/MaxGap bound the
// absolute gap percent; MaxGap zero means unbounded. Limit zero returns all
// rows.
type ScanParams struct {
	Watchlist []string
	MinGap    float64
	MaxGap    float64
	Limit     int
}

// Facade is the analysis entry point.
type Facade struct {
	provider  marketdata.Provider
	analyzer  sentiment.Analyzer
	estimator *gap.Estimator
	simulator *backtest.Simulator
	config    Config
	logger    *log.Logger
}

// NewFacade creates a Facade. The sentiment analyzer may be nil, in which
// case every row scores neutral.
func NewFacade(provider marketdata.Provider, analyzer sentiment.Analyzer, config Config) *Facade {
	config.applyDefaults()
	if analyzer == nil {
		analyzer = sentiment.NewStubAnalyzer()
	}
	return &Facade{
		provider:  provider,
		analyzer:  analyzer,
		estimator: gap.NewEstimator(),
		simulator: backtest.NewSimulator(backtest.DefaultPolicy()),
		config:    config,
		logger:    log.New(log.Writer(), "[analysis] ", log.LstdFlags),
	}
}

// Scan analyzes every watchlist symbol concurrently. Per-symbol failures are
// collected, never fatal: a scan over N symbols where one fails still yields
// the other rows. Results are ordered by absolute gap percent descending,
// ties by symbol ascending, regardless of completion order.
func (f *Facade) Scan(ctx context.Context, params ScanParams) (*domain.ScanReport, error) {
	started := f.config.Now()

	report := &domain.ScanReport{
		Results:  []domain.ScanResult{},
		Failures: []domain.ScanFailure{},
	}
	if len(params.Watchlist) == 0 {
		return report, nil
	}

	type scanOutcome struct {
		result  *domain.ScanResult
		failure *domain.ScanFailure
	}

	outcomes := make([]scanOutcome, len(params.Watchlist))
	sem := make(chan struct{}, f.config.Concurrency)
	var wg sync.WaitGroup

	for i, symbol := range params.Watchlist {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result, err := f.scanSymbol(ctx, symbol)
			switch {
			case errors.Is(err, gap.ErrNoGap):
				// Flat open: not a failure, just no row.
			case err != nil:
				observability.RecordScanFailure(failureReason(err))
				outcomes[i] = scanOutcome{failure: &domain.ScanFailure{
					Symbol: symbol,
					Reason: err.Error(),
				}}
			default:
				outcomes[i] = scanOutcome{result: result}
			}
		}(i, symbol)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.failure != nil {
			report.Failures = append(report.Failures, *o.failure)
			continue
		}
		if o.result == nil {
			continue
		}
		absGap := o.result.Gap.AbsGapPercent()
		if absGap < params.MinGap {
			continue
		}
		if params.MaxGap > 0 && absGap > params.MaxGap {
			continue
		}
		report.Results = append(report.Results, *o.result)
	}

	sort.Slice(report.Results, func(i, j int) bool {
		gi, gj := report.Results[i].Gap.AbsGapPercent(), report.Results[j].Gap.AbsGapPercent()
		if gi != gj {
			return gi > gj
		}
		return report.Results[i].Gap.Symbol < report.Results[j].Gap.Symbol
	})

	if params.Limit > 0 && len(report.Results) > params.Limit {
		report.Results = report.Results[:params.Limit]
	}

	observability.RecordScan(len(params.Watchlist), f.config.Now().Sub(started).Seconds())
	observability.MarkScanSuccess(f.config.Now().Unix())
	f.logger.Printf("scan complete: %d symbols, %d gaps, %d failures",
		len(params.Watchlist), len(report.Results), len(report.Failures))

	return report, nil
}

// scanSymbol analyzes one watchlist symbol.
func (f *Facade) scanSymbol(ctx context.Context, symbol string) (*domain.ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.FetchTimeout)
	defer cancel()

	series, err := f.fetchSeries(ctx, symbol, f.config.LookbackDays)
	if err != nil {
		return nil, err
	}

	event, err := gap.DetectLatest(series)
	if err != nil {
		return nil, err
	}
	observability.RecordGapDetected(string(event.Direction))

	last := series.Last()
	result := &domain.ScanResult{
		Gap:    event,
		Price:  last.Close,
		Volume: last.Volume,
	}
	if mean := series.MeanVolume(); mean > 0 {
		result.VolumeRatio = float64(last.Volume) / mean
	}

	// Probability is optional: thin history means "gap detected, probability
	// unavailable", not a failed symbol.
	if est, err := f.estimator.Estimate(event, series); err == nil {
		result.Probability = &est
		observability.RecordEstimate(string(est.Confidence))
	} else if !errors.Is(err, gap.ErrInsufficientHistory) {
		return nil, err
	}

	result.Sentiment = f.scoreSentiment(ctx, symbol)
	result.Conviction, result.Reasons = scoreConviction(result)
	return result, nil
}

// Detail runs the full single-symbol analysis over the wider window.
func (f *Facade) Detail(ctx context.Context, symbol string) (*domain.SymbolDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.FetchTimeout)
	defer cancel()

	series, err := f.fetchSeries(ctx, symbol, f.config.DetailLookbackDays)
	if err != nil {
		return nil, err
	}

	detail := &domain.SymbolDetail{Symbol: symbol}

	event, err := gap.DetectLatest(series)
	switch {
	case errors.Is(err, gap.ErrNoGap):
		// Flat open: detail still carries history and backtest.
	case err != nil:
		return nil, err
	default:
		detail.Gap = &event
		if est, err := f.estimator.Estimate(event, series); err == nil {
			detail.Probability = &est
		} else if !errors.Is(err, gap.ErrInsufficientHistory) {
			return nil, err
		}
	}

	// Backtest is best-effort: thin history yields a detail without one.
	if result, err := f.simulator.Run(series); err == nil {
		detail.Backtest = result
		observability.RecordBacktest()
	} else if !errors.Is(err, gap.ErrInsufficientHistory) && !errors.Is(err, gap.ErrInsufficientData) {
		return nil, err
	}

	detail.Sentiment = f.scoreSentiment(ctx, symbol)
	detail.Recommendation = recommend(detail.Probability, detail.Backtest)
	return detail, nil
}

// Backtest simulates the default policy over up to days of history.
func (f *Facade) Backtest(ctx context.Context, symbol string, days int) (*domain.BacktestResult, error) {
	if days <= 0 {
		days = f.config.DetailLookbackDays
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.FetchTimeout)
	defer cancel()

	series, err := f.fetchSeries(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	result, err := f.simulator.Run(series)
	if err != nil {
		return nil, err
	}
	observability.RecordBacktest()
	return result, nil
}

// News fetches recent headlines for a symbol, each scored by the analyzer.
func (f *Facade) News(ctx context.Context, symbol string, limit int) ([]domain.NewsItem, error) {
	if limit <= 0 {
		limit = DefaultNewsLimit
	}

	ctx, cancel := context.WithTimeout(ctx, f.config.FetchTimeout)
	defer cancel()

	items, err := f.provider.GetNews(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch news %s: %w", symbol, err)
	}

	for i := range items {
		s, err := f.analyzer.AnalyzeText(ctx, items[i].Headline)
		if err != nil {
			s = domain.NeutralSentiment
		}
		items[i].Sentiment = s
	}
	return items, nil
}

// fetchSeries pulls daily bars covering the lookback window, ending today.
func (f *Facade) fetchSeries(ctx context.Context, symbol string, lookbackDays int) (*bars.Series, error) {
	end := f.config.Now().UTC()
	start := end.AddDate(0, 0, -lookbackDays)

	fetched, err := f.provider.GetBars(ctx, symbol,
		start.Format(domain.DateLayout), end.Format(domain.DateLayout), domain.TimeframeDay)
	if err != nil {
		return nil, err
	}

	return bars.NewSeries(symbol, fetched)
}

// scoreSentiment fetches headlines and scores them, degrading to neutral on
// any provider or analyzer failure.
func (f *Facade) scoreSentiment(ctx context.Context, symbol string) domain.Sentiment {
	items, err := f.provider.GetNews(ctx, symbol, DefaultNewsLimit)
	if err != nil {
		return domain.NeutralSentiment
	}

	s, err := f.analyzer.AnalyzeHeadlines(ctx, symbol, items)
	if err != nil {
		return domain.NeutralSentiment
	}
	return s
}

// failureReason buckets an error for the failure metric label.
func failureReason(err error) string {
	switch {
	case errors.Is(err, marketdata.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, gap.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, gap.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, bars.ErrInvalidBar):
		return "invalid_bar"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "other"
	}
}
