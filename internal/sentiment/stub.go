package sentiment

import (
	"context"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// StubAnalyzer returns fixed scores for tests.
type StubAnalyzer struct {
	// Scores maps symbol to a fixed score. Symbols not present score neutral.
	Scores map[string]float64
}

// NewStubAnalyzer creates an empty stub analyzer.
func NewStubAnalyzer() *StubAnalyzer {
	return &StubAnalyzer{Scores: make(map[string]float64)}
}

// Compile-time interface check.
var _ Analyzer = (*StubAnalyzer)(nil)

// AnalyzeHeadlines returns the configured score for the symbol.
func (a *StubAnalyzer) AnalyzeHeadlines(_ context.Context, symbol string, _ []domain.NewsItem) (domain.Sentiment, error) {
	score, ok := a.Scores[symbol]
	if !ok {
		return domain.NeutralSentiment, nil
	}
	return domain.Sentiment{Score: score, Label: domain.LabelForScore(score)}, nil
}

// AnalyzeText always returns neutral.
func (a *StubAnalyzer) AnalyzeText(_ context.Context, _ string) (domain.Sentiment, error) {
	return domain.NeutralSentiment, nil
}
