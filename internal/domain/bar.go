package domain

import "time"

// DateLayout is the calendar-date format used for session dates everywhere
// in the system (storage keys, API payloads, provider requests).
// Lexical order of formatted dates equals chronological order.
const DateLayout = "2006-01-02"

// Timeframe identifies the bar aggregation interval.
type Timeframe string

// Supported bar timeframes.
const (
	TimeframeDay  Timeframe = "1Day"
	TimeframeHour Timeframe = "1Hour"
)

// Bar is a single OHLCV record for one symbol and one session (or intraday
// interval). Bars are immutable once fetched.
type Bar struct {
	Symbol string  // ticker, e.g. "AAPL"
	Date   string  // session date in DateLayout; intraday bars share the session date
	Open   float64 // opening price
	High   float64 // session high
	Low    float64 // session low
	Close  float64 // closing price
	Volume int64   // traded volume
	VWAP   float64 // volume-weighted average price, 0 when the feed omits it
}

// ValidOHLC reports whether the price fields satisfy
// high >= max(open, close) >= min(open, close) >= low and all are positive.
func (b Bar) ValidOHLC() bool {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return false
	}
	hi := b.Open
	if b.Close > hi {
		hi = b.Close
	}
	lo := b.Open
	if b.Close < lo {
		lo = b.Close
	}
	return b.High >= hi && b.Low <= lo
}

// ValidDate reports whether Date parses in DateLayout.
func (b Bar) ValidDate() bool {
	_, err := time.Parse(DateLayout, b.Date)
	return err == nil
}
