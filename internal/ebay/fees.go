package ebay

import "strings"

// Marketplace final value fee rates by category keyword, as fractions of the
// selling price.
const (
	defaultFeeRate      = 0.1275
	motorsFeeRate       = 0.04
	collectiblesFeeRate = 0.15
	electronicsFeeRate  = 0.0875
)

// FeeRate maps a free-text category (breadcrumb text or category code) onto a
// fee rate. Unknown categories get the standard rate.
func FeeRate(category string) float64 {
	c := strings.ToLower(category)

	switch {
	case strings.Contains(c, "motor"), strings.Contains(c, "vehicle"):
		return motorsFeeRate
	case strings.Contains(c, "collect"):
		return collectiblesFeeRate
	case strings.Contains(c, "electronic"), strings.Contains(c, "computer"):
		return electronicsFeeRate
	case strings.Contains(c, "business"), strings.Contains(c, "industrial"):
		return defaultFeeRate
	default:
		return defaultFeeRate
	}
}
