package gap

import "github.com/Shain-Wai-Yan/Stock-Analyzer-Backend/internal/domain"

// EvaluateFill decides whether a gap session traded back through the prior
// close. When intraday bars for the session are supplied the walk is
// bar-by-bar and reports how many bars elapsed before the fill; otherwise the
// daily session's high/low range decides and BarsToFill stays unset.
//
// A touch counts: a session whose low (up-gap) or high (down-gap) equals the
// prior close exactly is filled.
func EvaluateFill(event domain.GapEvent, session domain.Bar, intraday []domain.Bar) domain.FillOutcome {
	if len(intraday) > 0 {
		return evaluateIntraday(event, intraday)
	}
	return evaluateDaily(event, session)
}

func evaluateDaily(event domain.GapEvent, session domain.Bar) domain.FillOutcome {
	out := domain.FillOutcome{Event: event}
	if event.Direction == domain.DirectionUp {
		out.Extreme = session.Low
		out.Filled = session.Low <= event.PrevClose
	} else {
		out.Extreme = session.High
		out.Filled = session.High >= event.PrevClose
	}
	return out
}

func evaluateIntraday(event domain.GapEvent, intraday []domain.Bar) domain.FillOutcome {
	out := domain.FillOutcome{Event: event, Intraday: true}

	for i, b := range intraday {
		if event.Direction == domain.DirectionUp {
			if out.Extreme == 0 || b.Low < out.Extreme {
				out.Extreme = b.Low
			}
			if b.Low <= event.PrevClose {
				out.Filled = true
				out.BarsToFill = i + 1
				return out
			}
		} else {
			if b.High > out.Extreme {
				out.Extreme = b.High
			}
			if b.High >= event.PrevClose {
				out.Filled = true
				out.BarsToFill = i + 1
				return out
			}
		}
	}
	return out
}
