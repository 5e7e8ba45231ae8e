package core

import "math"

// InfSentinel replaces infinite values in sanitized output. JSON has no
// representation for Inf, so downstream consumers receive this value instead.
const InfSentinel = 99999.0

// SanitizeFloat maps non-finite values to JSON-safe equivalents:
// NaN becomes 0, +Inf becomes InfSentinel, -Inf becomes -InfSentinel.
func SanitizeFloat(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	if math.IsInf(v, 1) {
		return InfSentinel
	}

	if math.IsInf(v, -1) {
		return -InfSentinel
	}

	return v
}

// SanitizeSlice applies SanitizeFloat to every element in place and returns
// the slice for convenience.
func SanitizeSlice(values []float64) []float64 {
	for i, v := range values {
		values[i] = SanitizeFloat(v)
	}

	return values
}
