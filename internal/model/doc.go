// Package model defines shared data types used across pricestamp.
//
// Conventions:
//   - Timestamps: time.Time carried in the exchange location
//   - Candle prices: float64 as delivered by the chart API
//   - Derived prices: decimal.Decimal rounded to cents
//   - Series: always sorted by time, one candle per timestamp
package model
