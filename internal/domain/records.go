package domain

// GapScanRecord is a persisted scan row, cached by the serving layer for
// historical follow-up. The engine never treats it as the source of truth;
// it can always be regenerated from bars. Keyed by (Symbol, ScanDate).
type GapScanRecord struct {
	ID             int64
	Symbol         string
	ScanDate       string // session date in DateLayout
	GapPercent     float64
	Price          float64
	Volume         int64
	VolumeRatio    float64
	FillProbability float64 // 0 when no estimate was available
	SentimentScore float64
	Conviction     string
	Filled         bool   // follow-up: did the gap fill after the scan
	FillDate       string // empty until the fill is observed
	CreatedAt      int64  // Unix milliseconds, set by the store
}

// JournalEntry is a trade-journal row kept for the read-only /api/trades
// endpoint.
type JournalEntry struct {
	ID         int64
	Symbol     string
	EntryDate  string // DateLayout
	EntryPrice float64
	ExitDate   string // empty while open
	ExitPrice  float64
	Quantity   int64
	Direction  string // "long" or "short"
	Reason     string
	Outcome    string // "win", "loss", "breakeven" or empty while open
	PnL        float64
	PnLPercent float64
	Notes      string
	CreatedAt  int64 // Unix milliseconds, set by the store
}
