package domain

// NewsItem is one headline from the market-data provider, optionally scored
// by the sentiment analyzer.
type NewsItem struct {
	ID        string
	Headline  string
	Summary   string
	Source    string
	URL       string
	Symbols   []string // related tickers
	CreatedAt string   // RFC 3339 timestamp from the provider
	Sentiment Sentiment
}
