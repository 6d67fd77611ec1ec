// Package writer archives fetched candles and computed annotations.
//
// Tables:
//   - price_candles: one row per (ticker, series, ts)
//   - annotations: one row per message (and the settlement) per run
//
// Writes are append-only (ON CONFLICT DO NOTHING), so re-running over the
// same range only adds the new run's annotations.
// Prices are stored as integer ten-thousandths of a dollar (251.34 = 2513400).
package writer
