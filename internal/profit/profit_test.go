package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		sellingPrice float64
		feeRate      float64
		shippingCost float64
		supplierCost float64
		profit       float64
		margin       float64
	}{
		{
			name:         "Typical resale",
			sellingPrice: 100,
			feeRate:      0.1275,
			shippingCost: 14,
			supplierCost: 50,
			profit:       23.25,
			margin:       23.25,
		},
		{
			name:         "Loss making deal",
			sellingPrice: 50,
			feeRate:      0.1275,
			shippingCost: 20,
			supplierCost: 40,
			profit:       -16.375,
			margin:       -32.75,
		},
		{
			name:         "Free acquisition",
			sellingPrice: 200,
			feeRate:      0.1,
			shippingCost: 10,
			supplierCost: 0,
			profit:       170,
			margin:       85,
		},
		{
			name:         "Zero fee rate",
			sellingPrice: 100,
			feeRate:      0,
			shippingCost: 10,
			supplierCost: 60,
			profit:       30,
			margin:       30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(tt.sellingPrice, tt.feeRate, tt.shippingCost, tt.supplierCost)

			assert.InDelta(t, tt.profit, result.Profit, 1e-9)
			assert.InDelta(t, tt.margin, result.MarginPercent, 1e-9)
			assert.InDelta(t, tt.sellingPrice*tt.feeRate, result.Fees, 1e-9)
			assert.InDelta(t, tt.shippingCost, result.ShippingCost, 1e-9)
			assert.InDelta(t, tt.supplierCost, result.SupplierCost, 1e-9)
		})
	}
}

func TestComputeZeroPriceHasZeroMargin(t *testing.T) {
	result := Compute(0, 0.1275, 14, 50)

	assert.Zero(t, result.MarginPercent)
	assert.InDelta(t, -64, result.Profit, 1e-9)
}

func TestComputeIsDeterministic(t *testing.T) {
	first := Compute(999.99, 0.1275, 44, 300)
	second := Compute(999.99, 0.1275, 44, 300)

	assert.Equal(t, first, second)
}

func TestMaxPurchasePrice(t *testing.T) {
	tests := []struct {
		name         string
		sellingPrice float64
		feeRate      float64
		targetMargin float64
		expected     float64
	}{
		{"Thirty percent target", 100, 0.1275, 0.3, 100 / 1.3 * 0.8725},
		{"Zero margin target", 100, 0.1275, 0, 87.25},
		{"Zero selling price", 0, 0.1275, 0.3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MaxPurchasePrice(tt.sellingPrice, tt.feeRate, tt.targetMargin), 1e-9)
		})
	}
}
