package shipping

import (
	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
)

// Japan Post international rates in JPY, bracketed by chargeable weight.
type rateTable struct {
	upTo500  int
	upTo1000 int
	upTo1500 int
	upTo2000 int
	over2000 int
}

var rates = map[string]rateTable{
	"EMS":     {1400, 2000, 2800, 3600, 4400},
	"Air":     {1200, 1800, 2400, 3000, 3600},
	"SAL":     {800, 1200, 1600, 2000, 2400},
	"Surface": {600, 900, 1200, 1500, 1800},
}

// Methods returns the supported shipping method keys.
func Methods() []string {
	return []string{"EMS", "Air", "SAL", "Surface"}
}

// Volumetric weight: (L*W*H cm³) / 5000 yields kilograms, scaled to grams
// before comparison with the actual weight.
const dimensionalDivisor = 5000.0

// Quote computes the shipping cost for a parcel. The chargeable weight is the
// higher of actual and dimensional weight, never a blend; the oversize
// surcharge is applied to the bracket cost after bracket selection. Reversing
// those two stages changes results at bracket boundaries, so the order is
// fixed. An unknown method yields a zero-cost quote rather than an error so
// callers can treat zero as "unsupported".
func Quote(weightGrams int, method string, dims *models.Dimensions) models.ShippingQuote {
	table, ok := rates[method]
	if !ok {
		return models.ShippingQuote{Method: method, CostJPY: 0, Bracket: ""}
	}

	chargeable := float64(weightGrams)
	if dims.IsValid() {
		dimensional := dims.Length * dims.Width * dims.Height / dimensionalDivisor * 1000
		if dimensional > chargeable {
			chargeable = dimensional
		}
	}

	cost, bracket := table.lookup(chargeable)

	if dims.IsValid() {
		switch max := dims.MaxAxis(); {
		case max > 60:
			cost = int(float64(cost) * 1.5)
		case max > 40:
			cost = int(float64(cost) * 1.2)
		}
	}

	return models.ShippingQuote{Method: method, CostJPY: cost, Bracket: bracket}
}

func (t rateTable) lookup(weightGrams float64) (int, string) {
	switch {
	case weightGrams <= 500:
		return t.upTo500, "up_to_500g"
	case weightGrams <= 1000:
		return t.upTo1000, "501_to_1000g"
	case weightGrams <= 1500:
		return t.upTo1500, "1001_to_1500g"
	case weightGrams <= 2000:
		return t.upTo2000, "1501_to_2000g"
	default:
		return t.over2000, "over_2000g"
	}
}
