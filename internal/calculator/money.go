package calculator

import "github.com/shopspring/decimal"

// Cent is the smallest representable amount. Balances closer to zero than
// one cent are treated as settled.
var Cent = decimal.New(1, -2)

// RoundCents rounds d to two decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsNegligible reports whether |d| < 0.01.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThan(Cent)
}

// ToCents converts d to an integer number of cents after rounding.
func ToCents(d decimal.Decimal) int64 {
	return RoundCents(d).Shift(2).IntPart()
}

// FromCents converts an integer number of cents to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
