package lookup

import (
	"time"

	"github.com/rickgao/pricestamp/internal/market"
	"github.com/rickgao/pricestamp/internal/model"
)

const (
	candleLabel = "01-02 15:04"
	dayLabel    = time.DateOnly
)

// CurrentPrice returns the close of the last extended-hours candle at or
// before t. The source is prefixed "mkt" inside regular hours and "ext"
// outside them.
func CurrentPrice(t time.Time, extended model.Series, session market.Session) model.Quote {
	c, ok := extended.LastAtOrBefore(t)
	if !ok {
		return model.NotFound()
	}
	label := "ext"
	if session.IsOpen(t) {
		label = "mkt"
	}
	return model.NewQuote(c.Close, label+" "+c.Time.Format(candleLabel)+" close")
}

// TradePrice returns the execution price of an order placed at t.
//
// During regular hours the order fills at the close of the last regular
// candle at or before t. Outside regular hours it fills at the open of the
// first regular candle of the next session date; if that date has no
// candles the result is not found.
func TradePrice(t time.Time, regular model.Series, session market.Session) model.Quote {
	if session.IsOpen(t) {
		c, ok := regular.LastAtOrBefore(t)
		if !ok {
			return model.NotFound()
		}
		return model.NewQuote(c.Close, "mkt "+c.Time.Format(candleLabel)+" close")
	}

	openDate := session.NextOpenDate(t)
	dayStart := inSeries(openDate, regular)
	c, ok := regular.FirstInRange(dayStart, dayStart.AddDate(0, 0, 1))
	if !ok {
		return model.NotFound()
	}
	return model.NewQuote(c.Open, "next open "+c.Time.Format(candleLabel))
}

// SettlementPrice returns the close of the last daily candle before the end
// of date (local midnight of the following day).
func SettlementPrice(date time.Time, daily model.Series) model.Quote {
	end := inSeries(date, daily).AddDate(0, 0, 1)
	c, ok := daily.LastBefore(end)
	if !ok {
		return model.NotFound()
	}
	return model.NewQuote(c.Close, "close "+c.Time.Format(dayLabel))
}

// inSeries returns midnight of d's calendar date in the series location.
func inSeries(d time.Time, s model.Series) time.Time {
	loc := s.Location
	if loc == nil {
		loc = d.Location()
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
