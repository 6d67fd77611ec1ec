package api

import (
	"time"

	"github.com/rickgao/pricestamp/internal/model"
)

// ChartRequest selects one candle series from GET /v8/finance/chart/{ticker}.
type ChartRequest struct {
	Ticker   string
	Start    time.Time // inclusive
	End      time.Time // exclusive
	Interval model.Interval
	PrePost  bool // include pre- and post-market candles

	// Location is used when the response carries no exchange time zone.
	Location *time.Location
}

// ChartMeta is the subset of chart.result[0].meta that callers log.
type ChartMeta struct {
	Symbol       string
	Currency     string
	ExchangeName string
	Timezone     string
}
