package domain

import (
	"fmt"
	"math"
)

// PriceScale is the number of fixed-point price units per dollar. LOBSTER
// files carry prices as integers at this scale (10000 = $1.0000), so
// parsed prices are used as-is and only converted at the API boundary.
const PriceScale = 10000

// DollarsToPrice converts a dollar amount to fixed-point price units.
// Returns an error if the amount has more than four decimal places.
func DollarsToPrice(dollars float64) (int64, error) {
	scaled := dollars * PriceScale
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		return 0, fmt.Errorf("invalid price: %v has more than four decimal places", dollars)
	}
	return int64(math.Round(scaled)), nil
}

// PriceToDollars converts fixed-point price units to dollars.
func PriceToDollars(price int64) float64 {
	return float64(price) / PriceScale
}
