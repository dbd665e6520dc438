package profit

import (
	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
)

// Compute combines selling price, marketplace fee rate, shipping cost and
// acquisition cost into a profit breakdown. All inputs must already be in one
// common currency. The function is pure: identical inputs always produce
// identical results. No rounding happens here; presentation rounds.
func Compute(sellingPrice, feeRate, shippingCost, supplierCost float64) models.ProfitResult {
	fees := sellingPrice * feeRate
	totalCost := supplierCost + fees + shippingCost
	p := sellingPrice - totalCost

	margin := 0.0
	if sellingPrice > 0 {
		margin = p / sellingPrice * 100
	}

	return models.ProfitResult{
		SellingPrice:  sellingPrice,
		SupplierCost:  supplierCost,
		Fees:          fees,
		ShippingCost:  shippingCost,
		Profit:        p,
		MarginPercent: margin,
	}
}

// MaxPurchasePrice returns the highest acquisition cost that still reaches the
// target margin at the given selling price, floored at zero.
func MaxPurchasePrice(sellingPrice, feeRate, targetMargin float64) float64 {
	max := sellingPrice / (1 + targetMargin) * (1 - feeRate)
	if max < 0 {
		return 0
	}
	return max
}
