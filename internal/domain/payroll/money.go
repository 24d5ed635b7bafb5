package payroll

import "github.com/shopspring/decimal"

// Money is an amount of pesewas. 1 Ghana cedi (GHS) = 100 pesewas.
// All calculation and storage happens on this type; conversion to and
// from cedis is allowed only at the edges of the system.
type Money int64

// RoundingMode selects how fractional pesewas produced by a percentage
// computation are resolved. Every division in a single computation uses
// the same mode.
type RoundingMode string

const (
	// RoundNearest rounds half a pesewa up.
	RoundNearest RoundingMode = "nearest"
	// RoundTruncate always rounds down. Operands are never negative
	// here, so integer division and floor coincide.
	RoundTruncate RoundingMode = "truncate"
	// RoundCeil always rounds up.
	RoundCeil RoundingMode = "ceil"
)

// Valid reports whether the mode is one of the three recognized modes.
func (m RoundingMode) Valid() bool {
	switch m {
	case RoundNearest, RoundTruncate, RoundCeil:
		return true
	}
	return false
}

// Div divides value by divisor under the rounding mode. The divisor
// must be positive and the value non-negative; callers validate the
// mode up front with Valid.
func (m RoundingMode) Div(value Money, divisor int64) Money {
	v := int64(value)
	switch m {
	case RoundTruncate:
		return Money(v / divisor)
	case RoundCeil:
		return Money((v + divisor - 1) / divisor)
	default:
		return Money((v + divisor/2) / divisor)
	}
}

// FromCedis converts a major-unit amount to pesewas, rounding to the
// nearest pesewa. This is the only entry point for external amounts.
func FromCedis(amount decimal.Decimal) Money {
	return Money(amount.Shift(2).Round(0).IntPart())
}

// Cedis converts pesewas back to a major-unit amount for presentation.
// This is the only exit point; the division is exact.
func (m Money) Cedis() decimal.Decimal {
	return decimal.New(int64(m), -2)
}
