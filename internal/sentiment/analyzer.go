// Package sentiment scores news headlines for a symbol on a [-1, 1] scale
// using an LLM completion API, degrading to neutral when the service is
// unconfigured or unavailable.
package sentiment

import (
	"context"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// Analyzer scores text or headline sets. Implementations must always return
// a usable Sentiment: on upstream failure they return NeutralSentiment and
// a nil error so scans never block on the sentiment layer.
type Analyzer interface {
	// AnalyzeHeadlines scores a set of recent headlines for a symbol.
	AnalyzeHeadlines(ctx context.Context, symbol string, items []domain.NewsItem) (domain.Sentiment, error)

	// AnalyzeText scores a single free-form text.
	AnalyzeText(ctx context.Context, text string) (domain.Sentiment, error)
}
