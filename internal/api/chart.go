package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rickgao/pricestamp/internal/model"
)

// GetChart downloads one candle series.
func (c *Client) GetChart(ctx context.Context, req ChartRequest) (model.Series, error) {
	if req.Ticker == "" {
		return model.Series{}, errors.New("get chart: ticker is required")
	}
	if !req.End.After(req.Start) {
		return model.Series{}, fmt.Errorf("get chart %s: end %s is not after start %s", req.Ticker, req.End, req.Start)
	}

	query := url.Values{}
	query.Set("period1", strconv.FormatInt(req.Start.Unix(), 10))
	query.Set("period2", strconv.FormatInt(req.End.Unix(), 10))
	query.Set("interval", string(req.Interval))
	query.Set("includePrePost", strconv.FormatBool(req.PrePost))
	query.Set("events", "div,split")

	body, err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(req.Ticker), query)
	if err != nil {
		return model.Series{}, fmt.Errorf("get chart %s %s: %w", req.Ticker, req.Interval, err)
	}

	series, meta, err := ParseChart(body, req)
	if err != nil {
		return model.Series{}, fmt.Errorf("get chart %s %s: %w", req.Ticker, req.Interval, err)
	}

	c.logger.Debug("chart downloaded",
		"ticker", req.Ticker,
		"series", series.Name(),
		"candles", series.Len(),
		"exchange", meta.ExchangeName,
		"timezone", meta.Timezone,
	)

	return series, nil
}
