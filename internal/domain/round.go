package domain

import (
	"math"
	"strconv"
)

// Round rounds v to the given number of decimal places.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// RoundCents rounds a currency amount to 2 decimals.
func RoundCents(v float64) float64 {
	return Round(v, 2)
}

// PriceDecimals is the quote precision for an instrument trading at price.
// Sub-dollar instruments keep 6 decimals, everything else 2.
func PriceDecimals(price float64) int {
	if price < 1 {
		return 6
	}
	return 2
}

// QuantityDecimals is the order size precision for an instrument trading at price.
func QuantityDecimals(price float64) int {
	switch {
	case price > 1000:
		return 3
	case price > 1:
		return 2
	default:
		return 0
	}
}

// FormatNumber renders v with the shortest representation that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatSigned renders a P&L amount with an explicit sign and 2 decimals.
func FormatSigned(v float64) string {
	if v >= 0 {
		return "+" + strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
