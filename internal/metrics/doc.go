// Package metrics provides Prometheus metrics for an annotation run.
//
// Key metrics:
//   - Candles fetched per series
//   - Lookup outcomes per kind (price, trade, settlement)
//   - Run duration and last successful run
//
// A run is a one-shot process, so metrics are written to a node_exporter
// textfile instead of being served.
package metrics
