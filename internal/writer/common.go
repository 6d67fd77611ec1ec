package writer

import (
	"github.com/shopspring/decimal"
)

// priceScale is the number of decimal places kept in stored prices.
const priceScale = 4

// toInternal converts a dollar price to integer ten-thousandths.
func toInternal(d decimal.Decimal) int64 {
	return d.Shift(priceScale).Round(0).IntPart()
}

// floatToInternal converts a raw candle price to integer ten-thousandths.
func floatToInternal(f float64) int64 {
	return toInternal(decimal.NewFromFloat(f))
}
