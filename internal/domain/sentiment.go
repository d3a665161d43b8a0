package domain

// SentimentLabel classifies a sentiment score.
type SentimentLabel string

// Sentiment labels.
const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Sentiment is a polarity score for a symbol or a piece of text.
// Score ranges from -1 (very negative) to 1 (very positive).
type Sentiment struct {
	Score float64
	Label SentimentLabel
}

// NeutralSentiment is returned when no scorer is configured or scoring fails.
var NeutralSentiment = Sentiment{Score: 0, Label: SentimentNeutral}

// LabelForScore maps a score to its label using a +-0.1 neutral band.
func LabelForScore(score float64) SentimentLabel {
	switch {
	case score > 0.1:
		return SentimentPositive
	case score < -0.1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}
