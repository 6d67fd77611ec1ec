// Package api provides the chart data client used to download price candles.
//
// REST endpoint:
//   - https://query1.finance.yahoo.com/v8/finance/chart/{ticker}
//
// Query parameters: period1/period2 (unix seconds), interval (1h, 1d),
// includePrePost (extended-hours candles) and events.
//
// A response carries parallel timestamp/open/high/low/close/volume arrays
// with nulls for missing samples.
package api
