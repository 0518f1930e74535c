// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/freedom-forecast/pkg/constants"
)

// Finite returns val, or 0 when val is NaN or infinite.
func Finite(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return val
}

// Saturate maps NaN to 0 and an infinity to the largest finite float of the
// same sign.
func Saturate(val float64) float64 {
	switch {
	case math.IsNaN(val):
		return 0
	case math.IsInf(val, 1):
		return math.MaxFloat64
	case math.IsInf(val, -1):
		return -math.MaxFloat64
	}
	return val
}

// NonNegative returns val when it is finite and positive, otherwise 0.
// Monetary inputs are coerced through it.
func NonNegative(val float64) float64 {
	val = Finite(val)
	if val > 0 {
		return val
	}
	return 0
}

// Clamp bounds val to [min, max]. NaN passes through unchanged.
func Clamp(val, min, max float64) float64 {
	return math.Min(max, math.Max(min, val))
}

// RoundHalfUp rounds to the nearest integer with halves rounded toward
// positive infinity, so -2.5 becomes -2.
func RoundHalfUp(val float64) float64 {
	return math.Floor(val + 0.5)
}

// Round1 rounds a value to one decimal place.
func Round1(val float64) float64 {
	return RoundHalfUp(val*10) / 10
}

// NearlyEqual reports whether a and b differ by less than constants.FloatTolerance.
func NearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < constants.FloatTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}
