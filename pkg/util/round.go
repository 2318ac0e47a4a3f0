package util

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds half away from zero to the given number of decimal places.
// Non-finite input is returned as zero.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(x).Round(places).Float64()
	return f
}

// FormatFixed renders x with exactly the given number of decimal places.
func FormatFixed(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		x = 0
	}
	return decimal.NewFromFloat(x).StringFixed(places)
}
