package model

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Price Series
// -----------------------------------------------------------------------------

// Interval is a candle granularity understood by the chart API.
type Interval string

const (
	Interval1h Interval = "1h"
	Interval1d Interval = "1d"
)

// Candle is a single OHLC sample. Lookups only use Open and Close.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is a time-sorted run of candles for one ticker and granularity.
type Series struct {
	Ticker   string
	Interval Interval
	PrePost  bool           // includes pre/post-market candles
	Location *time.Location // exchange time zone
	Candles  []Candle
}

// NewSeries sorts candles by time, keeps the last candle for duplicate
// timestamps and converts every timestamp into loc.
func NewSeries(ticker string, interval Interval, prepost bool, loc *time.Location, candles []Candle) Series {
	if loc == nil {
		loc = time.UTC
	}

	sorted := make([]Candle, len(candles))
	copy(sorted, candles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := sorted[:0]
	for _, c := range sorted {
		c.Time = c.Time.In(loc)
		if n := len(out); n > 0 && out[n-1].Time.Equal(c.Time) {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}

	return Series{
		Ticker:   ticker,
		Interval: interval,
		PrePost:  prepost,
		Location: loc,
		Candles:  out,
	}
}

// Name identifies the series in logs and metrics ("1h_ext", "1h", "1d").
func (s Series) Name() string {
	if s.PrePost {
		return string(s.Interval) + "_ext"
	}
	return string(s.Interval)
}

// Len returns the number of candles.
func (s Series) Len() int { return len(s.Candles) }

// Empty reports whether the series has no candles.
func (s Series) Empty() bool { return len(s.Candles) == 0 }

// LastAtOrBefore returns the latest candle with Time <= t.
func (s Series) LastAtOrBefore(t time.Time) (Candle, bool) {
	i := sort.Search(len(s.Candles), func(i int) bool {
		return s.Candles[i].Time.After(t)
	})
	if i == 0 {
		return Candle{}, false
	}
	return s.Candles[i-1], true
}

// LastBefore returns the latest candle with Time < t.
func (s Series) LastBefore(t time.Time) (Candle, bool) {
	i := sort.Search(len(s.Candles), func(i int) bool {
		return !s.Candles[i].Time.Before(t)
	})
	if i == 0 {
		return Candle{}, false
	}
	return s.Candles[i-1], true
}

// FirstInRange returns the earliest candle with from <= Time < to.
func (s Series) FirstInRange(from, to time.Time) (Candle, bool) {
	i := sort.Search(len(s.Candles), func(i int) bool {
		return !s.Candles[i].Time.Before(from)
	})
	if i == len(s.Candles) || !s.Candles[i].Time.Before(to) {
		return Candle{}, false
	}
	return s.Candles[i], true
}

// -----------------------------------------------------------------------------
// Derived Prices
// -----------------------------------------------------------------------------

// NotFoundSource labels a lookup that matched no candle.
const NotFoundSource = "NOT FOUND"

// Quote is the outcome of a price lookup.
type Quote struct {
	Price  decimal.Decimal // rounded to cents; zero when not found
	Source string          // e.g. "mkt 10-22 09:30 close"
	Found  bool
}

// NotFound is the sentinel returned when no candle qualifies.
func NotFound() Quote {
	return Quote{Price: decimal.Zero, Source: NotFoundSource}
}

// NewQuote rounds price to cents and marks the quote as found.
func NewQuote(price float64, source string) Quote {
	return Quote{Price: RoundPrice(price), Source: source, Found: true}
}

// RoundPrice rounds a raw candle price to two decimal places. Rounding is
// done on the exact binary value with ties to even, so 100.125 gives 100.12
// and 2.675 (stored as 2.67499...) gives 2.67.
func RoundPrice(f float64) decimal.Decimal {
	return decimal.RequireFromString(strconv.FormatFloat(f, 'f', 2, 64))
}

// Equal reports whether two quotes carry the same price.
func (q Quote) Equal(other Quote) bool {
	return q.Price.Equal(other.Price)
}

// -----------------------------------------------------------------------------
// Document Records
// -----------------------------------------------------------------------------

// Message is a timestamped chat message awaiting prices.
type Message struct {
	Index int       // position in the document's messages array
	Date  string    // YYYY-MM-DD
	Time  string    // HH:MM
	At    time.Time // Date+Time in the market location
}

// Settlement is the date whose closing price settles the document.
type Settlement struct {
	Date string    // YYYY-MM-DD
	At   time.Time // local midnight of Date
}
