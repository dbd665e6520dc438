package models

import (
	"time"
)

// Item is the normalized record produced by one listing resolution.
// It is constructed once per resolution call and never mutated afterwards;
// downstream calculators read from it and build their own result values.
type Item struct {
	ItemID      string      `json:"item_id"`
	Title       string      `json:"title"`
	Price       float64     `json:"price"`
	Currency    string      `json:"currency"`
	Category    string      `json:"category"`
	Condition   string      `json:"condition"`
	WeightGrams int         `json:"weight_grams"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	Seller      string      `json:"seller,omitempty"`
	FeeRate     float64     `json:"fee_rate"`
	ResolvedAt  time.Time   `json:"resolved_at"`
}

// Dimensions are stored in centimeters. A nil Dimensions pointer means the
// listing did not expose any measurements; zero is never used as "unknown".
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

const (
	DefaultCurrency    = "USD"
	DefaultCategory    = "general"
	DefaultCondition   = "Used"
	DefaultWeightGrams = 500
)

func NewItem(itemID string) *Item {
	return &Item{
		ItemID:      itemID,
		Currency:    DefaultCurrency,
		Category:    DefaultCategory,
		Condition:   DefaultCondition,
		WeightGrams: DefaultWeightGrams,
		ResolvedAt:  time.Now(),
	}
}

func (d *Dimensions) IsValid() bool {
	return d != nil && d.Length > 0 && d.Width > 0 && d.Height > 0
}

// MaxAxis returns the largest single dimension in centimeters.
func (d *Dimensions) MaxAxis() float64 {
	m := d.Length
	if d.Width > m {
		m = d.Width
	}
	if d.Height > m {
		m = d.Height
	}
	return m
}

func (it *Item) Validate() []string {
	var problems []string

	if it.ItemID == "" {
		problems = append(problems, "item ID is required")
	}

	if it.Price < 0 {
		problems = append(problems, "price must not be negative")
	}

	if it.WeightGrams <= 0 {
		problems = append(problems, "weight must be positive")
	}

	if it.Dimensions != nil && !it.Dimensions.IsValid() {
		problems = append(problems, "dimensions must be positive on all axes")
	}

	return problems
}

// ShippingQuote is the result of one shipping cost lookup. Computed fresh per
// request and never persisted.
type ShippingQuote struct {
	Method  string `json:"method"`
	CostJPY int    `json:"cost_jpy"`
	Bracket string `json:"bracket"`
}

// ProfitResult breaks down a single resale calculation. All amounts share one
// currency chosen by the caller.
type ProfitResult struct {
	SellingPrice  float64 `json:"selling_price"`
	SupplierCost  float64 `json:"supplier_cost"`
	Fees          float64 `json:"fees"`
	ShippingCost  float64 `json:"shipping_cost"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"margin_percent"`
}

// ResolveDiagnostics captures how a resolution attempt went, per attempt and
// per field. It travels with the result instead of living on the resolver so
// concurrent resolutions never share state.
type ResolveDiagnostics struct {
	Strategy        string             `json:"strategy"`
	URL             string             `json:"url,omitempty"`
	Status          int                `json:"status,omitempty"`
	Attempts        int                `json:"attempts"`
	FieldSources    map[string]string  `json:"field_sources,omitempty"`
	PriceCandidates []float64          `json:"price_candidates,omitempty"`
	Notes           []string           `json:"notes,omitempty"`
}
