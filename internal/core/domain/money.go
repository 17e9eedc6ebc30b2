package domain

import "github.com/shopspring/decimal"

const (
	// AmountScale is the number of fractional digits carried by monetary amounts.
	AmountScale int32 = 2
	// RateScale is the number of fractional digits carried by exchange rates.
	RateScale int32 = 6
)

// FitsScale reports whether d has at most scale fractional digits.
// Trailing zeros are ignored, so 10.500 fits scale 2.
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}
