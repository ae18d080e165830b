// lifecycle/metrics.go
package lifecycle

import (
	"math"
	"time"
)

const hoursPerYear = 365 * 24

// Age returns the asset age in years at the given reference time, rounded to
// two decimals. A nil or future purchase date yields 0.
func Age(purchaseDate *time.Time, now time.Time) float64 {
	if purchaseDate == nil {
		return 0
	}
	years := now.Sub(*purchaseDate).Hours() / hoursPerYear
	if years < 0 {
		return 0
	}
	return math.Round(years*100) / 100
}

// ServiceCostRatio returns totalServiceCost / value, or 0 when the asset
// value is unknown or zero.
func ServiceCostRatio(totalServiceCost, value float64) float64 {
	if value <= 0 {
		return 0
	}
	return totalServiceCost / value
}
