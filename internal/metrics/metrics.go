package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rickgao/pricestamp/internal/model"
)

const namespace = "pricestamp"

// Lookup kinds.
const (
	KindPrice      = "price"
	KindTrade      = "trade"
	KindSettlement = "settlement"
)

// Metrics holds the collectors for one run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	candles     *prometheus.GaugeVec
	lookups     *prometheus.CounterVec
	messages    prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		candles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candles_fetched",
			Help:      "Candles returned by the chart API per series.",
		}, []string{"ticker", "series"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Price lookups by kind and result.",
		}, []string{"kind", "result"}),
		messages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "messages",
			Help:      "Messages annotated in the last run.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
	m.registry.MustRegister(m.candles, m.lookups, m.messages, m.duration, m.lastSuccess)
	return m
}

// Registry returns the registry holding the run collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveSeries records the size of a fetched series.
func (m *Metrics) ObserveSeries(s model.Series) {
	if m == nil {
		return
	}
	m.candles.WithLabelValues(s.Ticker, s.Name()).Set(float64(s.Len()))
}

// ObserveLookup counts one lookup outcome.
func (m *Metrics) ObserveLookup(kind string, q model.Quote) {
	if m == nil {
		return
	}
	result := "found"
	if !q.Found {
		result = "not_found"
	}
	m.lookups.WithLabelValues(kind, result).Inc()
}

// ObserveMessages records how many messages the run annotated.
func (m *Metrics) ObserveMessages(n int) {
	if m == nil {
		return
	}
	m.messages.Set(float64(n))
}

// ObserveRun records the run duration, and the completion time when ok.
func (m *Metrics) ObserveRun(d time.Duration, ok bool, finished time.Time) {
	if m == nil {
		return
	}
	m.duration.Set(d.Seconds())
	if ok {
		m.lastSuccess.Set(float64(finished.Unix()))
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
