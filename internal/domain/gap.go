package domain

// Direction of an overnight gap relative to the prior close.
type Direction string

// Gap directions. A 0% gap has no direction and is never emitted.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// GapEvent describes one session that opened away from the prior session's
// close. Derived from bars, recomputed per request; a cache may hold one but
// the engine can always regenerate it.
type GapEvent struct {
	Symbol     string
	Date       string    // session date in DateLayout
	PrevClose  float64   // prior session's closing price
	Open       float64   // this session's opening price
	GapPercent float64   // (Open - PrevClose) / PrevClose * 100
	Direction  Direction // sign of GapPercent
}

// AbsGapPercent returns the gap magnitude regardless of direction.
func (g GapEvent) AbsGapPercent() float64 {
	if g.GapPercent < 0 {
		return -g.GapPercent
	}
	return g.GapPercent
}

// FillOutcome records whether a gap session traded back through the prior
// close. A touch counts as filled (inclusive boundary).
type FillOutcome struct {
	Event      GapEvent
	Filled     bool
	BarsToFill int     // intraday bars elapsed until the fill; 0 when unknown or unfilled
	Intraday   bool    // true when intraday bars decided the outcome
	Extreme    float64 // most adverse-to-fill price reached: session low for up-gaps, high for down-gaps
}
