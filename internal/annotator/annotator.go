package annotator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/pricestamp/internal/api"
	"github.com/rickgao/pricestamp/internal/document"
	"github.com/rickgao/pricestamp/internal/market"
	"github.com/rickgao/pricestamp/internal/metrics"
	"github.com/rickgao/pricestamp/internal/model"
)

// ErrNoData is returned when the chart API returns an empty series.
var ErrNoData = errors.New("no data returned")

// DefaultPadding widens the fetch range on both sides.
const DefaultPadding = 7 * 24 * time.Hour

// ChartFetcher downloads one candle series. *api.Client implements it.
type ChartFetcher interface {
	GetChart(ctx context.Context, req api.ChartRequest) (model.Series, error)
}

// Annotator computes prices for documents.
type Annotator struct {
	fetcher ChartFetcher
	session market.Session
	padding time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithPadding sets the fetch range padding.
func WithPadding(d time.Duration) Option {
	return func(a *Annotator) {
		a.padding = d
	}
}

// WithMetrics records fetch and lookup metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Annotator) {
		a.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Annotator) {
		a.logger = logger
	}
}

// New creates an Annotator.
func New(fetcher ChartFetcher, session market.Session, opts ...Option) *Annotator {
	a := &Annotator{
		fetcher: fetcher,
		session: session,
		padding: DefaultPadding,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Data holds the three series a document is priced against.
type Data struct {
	Extended model.Series // 1h including pre/post market
	Regular  model.Series // 1h regular session only
	Daily    model.Series // 1d
}

// Range returns the fetch window for doc: from midnight of the earliest
// message date minus padding, to the end of the later of the settlement
// date and the latest message date plus padding.
func (a *Annotator) Range(doc *document.Document) (start, end time.Time) {
	first := doc.Settlement.At
	last := doc.Settlement.At
	for i, m := range doc.Messages {
		if i == 0 || m.At.Before(first) {
			first = m.At
		}
		if m.At.After(last) {
			last = m.At
		}
	}
	start = a.session.Midnight(first).Add(-a.padding)
	end = a.session.Midnight(last).AddDate(0, 0, 1).Add(a.padding)
	return start, end
}

// Fetch downloads the extended, regular and daily series concurrently.
// An empty series fails with ErrNoData.
func (a *Annotator) Fetch(ctx context.Context, ticker string, start, end time.Time) (Data, error) {
	var data Data

	request := func(interval model.Interval, prepost bool) api.ChartRequest {
		return api.ChartRequest{
			Ticker:   ticker,
			Start:    start,
			End:      end,
			Interval: interval,
			PrePost:  prepost,
			Location: a.session.Location,
		}
	}
	targets := []struct {
		req api.ChartRequest
		dst *model.Series
	}{
		{request(model.Interval1h, true), &data.Extended},
		{request(model.Interval1h, false), &data.Regular},
		{request(model.Interval1d, false), &data.Daily},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			series, err := a.fetcher.GetChart(gctx, target.req)
			if err != nil {
				return err
			}
			*target.dst = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Data{}, fmt.Errorf("fetch series: %w", err)
	}

	for _, s := range []model.Series{data.Extended, data.Regular, data.Daily} {
		a.metrics.ObserveSeries(s)
		a.logger.Info("fetched series",
			"ticker", ticker,
			"series", s.Name(),
			"candles", s.Len(),
		)
		if s.Empty() {
			return Data{}, fmt.Errorf("%w: %s %s", ErrNoData, ticker, s.Name())
		}
	}

	return data, nil
}

// Annotate fetches the series doc needs and computes its quotes.
// The document itself is not modified; see Result.Apply.
func (a *Annotator) Annotate(ctx context.Context, doc *document.Document) (*Result, error) {
	start, end := a.Range(doc)
	a.logger.Info("fetching candles",
		"ticker", doc.Ticker,
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
		"messages", len(doc.Messages),
	)

	data, err := a.Fetch(ctx, doc.Ticker, start, end)
	if err != nil {
		return nil, err
	}

	result := Compute(doc, data, a.session)

	for _, row := range result.Rows {
		a.metrics.ObserveLookup(metrics.KindPrice, row.Price)
		a.metrics.ObserveLookup(metrics.KindTrade, row.Trade)
		if !row.Price.Found || !row.Trade.Found {
			a.logger.Warn("price not found",
				"index", row.Message.Index,
				"date", row.Message.Date,
				"time", row.Message.Time,
				"price_found", row.Price.Found,
				"trade_found", row.Trade.Found,
			)
		}
	}
	a.metrics.ObserveLookup(metrics.KindSettlement, result.SettlementQuote)
	a.metrics.ObserveMessages(len(result.Rows))

	return result, nil
}
