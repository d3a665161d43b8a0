package marketdata

import (
	"time"

	"github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"
)

// Alpaca Market Data v2 wire types. Field tags follow the v2 JSON schema.

// barPayload is one bar in a /v2/stocks/{symbol}/bars response.
type barPayload struct {
	Timestamp string  `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    int64   `json:"v"`
	VWAP      float64 `json:"vw"`
}

// barsResponse is the paginated bars envelope.
type barsResponse struct {
	Bars          []barPayload `json:"bars"`
	Symbol        string       `json:"symbol"`
	NextPageToken *string      `json:"next_page_token"`
}

// quoteResponse is the /v2/stocks/{symbol}/quotes/latest envelope.
type quoteResponse struct {
	Symbol string `json:"symbol"`
	Quote  struct {
		Timestamp string  `json:"t"`
		BidPrice  float64 `json:"bp"`
		BidSize   int64   `json:"bs"`
		AskPrice  float64 `json:"ap"`
		AskSize   int64   `json:"as"`
	} `json:"quote"`
}

// newsResponse is the /v1beta1/news envelope.
type newsResponse struct {
	News []struct {
		ID        int64    `json:"id"`
		Headline  string   `json:"headline"`
		Summary   string   `json:"summary"`
		Source    string   `json:"source"`
		URL       string   `json:"url"`
		Symbols   []string `json:"symbols"`
		CreatedAt string   `json:"created_at"`
	} `json:"news"`
	NextPageToken *string `json:"next_page_token"`
}

// toBar converts a wire bar to the domain type. The session date is the
// calendar date of the bar timestamp; intraday bars of one session share it.
func (p barPayload) toBar(symbol string) (domain.Bar, error) {
	ts, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		return domain.Bar{}, err
	}
	return domain.Bar{
		Symbol: symbol,
		Date:   ts.UTC().Format(domain.DateLayout),
		Open:   p.Open,
		High:   p.High,
		Low:    p.Low,
		Close:  p.Close,
		Volume: p.Volume,
		VWAP:   p.VWAP,
	}, nil
}
