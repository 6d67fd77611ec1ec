package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/rickgao/pricestamp/internal/model"
)

// ErrMalformedChart is returned when a chart payload has no result and no error.
var ErrMalformedChart = errors.New("malformed chart response")

// ParseChart converts a chart payload into a sorted series.
//
// Samples whose open or close is null are dropped. Timestamps are placed in
// the exchange time zone from meta.exchangeTimezoneName, falling back to
// req.Location and then UTC. A result without timestamps is an empty series,
// not an error.
func ParseChart(body []byte, req ChartRequest) (model.Series, ChartMeta, error) {
	if !gjson.ValidBytes(body) {
		return model.Series{}, ChartMeta{}, ErrMalformedChart
	}
	root := gjson.ParseBytes(body)

	if e := root.Get("chart.error"); e.IsObject() {
		return model.Series{}, ChartMeta{}, &APIError{
			StatusCode: http.StatusOK,
			Code:       e.Get("code").String(),
			Message:    e.Get("description").String(),
			Body:       body,
		}
	}

	result := root.Get("chart.result.0")
	if !result.Exists() {
		return model.Series{}, ChartMeta{}, ErrMalformedChart
	}

	m := result.Get("meta")
	meta := ChartMeta{
		Symbol:       m.Get("symbol").String(),
		Currency:     m.Get("currency").String(),
		ExchangeName: m.Get("exchangeName").String(),
		Timezone:     m.Get("exchangeTimezoneName").String(),
	}

	loc := req.Location
	if meta.Timezone != "" {
		if l, err := time.LoadLocation(meta.Timezone); err == nil {
			loc = l
		}
	}

	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	candles := make([]model.Candle, 0, len(timestamps))
	for i, ts := range timestamps {
		open, ok := number(opens, i)
		if !ok {
			continue
		}
		closePrice, ok := number(closes, i)
		if !ok {
			continue
		}
		high, _ := number(highs, i)
		low, _ := number(lows, i)
		volume, _ := number(volumes, i)

		candles = append(candles, model.Candle{
			Time:   time.Unix(ts.Int(), 0),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(volume),
		})
	}

	return model.NewSeries(req.Ticker, req.Interval, req.PrePost, loc, candles), meta, nil
}

// number returns values[i] when it is present and not null.
func number(values []gjson.Result, i int) (float64, bool) {
	if i >= len(values) || values[i].Type != gjson.Number {
		return 0, false
	}
	return values[i].Float(), true
}
