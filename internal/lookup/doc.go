// Package lookup implements the price-lookup rules that stamp a message.
//
// All three rules are pure functions of a timestamp and a sorted series and
// never fail: when no candle qualifies they return model.NotFound().
//
//   - CurrentPrice: what the quote screen shows at t (extended-hours candles)
//   - TradePrice: where an order placed at t would fill (regular candles)
//   - SettlementPrice: the close of the last trading day on or before a date
package lookup
