package domain

import "github.com/shopspring/decimal"

// AmountScale is the number of fractional digits amounts are stored with.
// All money in the subsystem is fixed-point at this scale; floats never
// enter the arithmetic path.
const AmountScale = 2

// ValidAmount reports whether d is representable at AmountScale without
// rounding.
func ValidAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}
