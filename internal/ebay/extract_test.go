package ebay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
)

const listingFixture = `<!DOCTYPE html>
<html>
<head>
<meta property="og:image" content="https://i.ebayimg.com/images/g/fallback/s-l1600.jpg">
</head>
<body>
<ul><li class="seo-breadcrumb-text">Cell Phones &amp; Accessories</li>
<li class="seo-breadcrumb-text">Consumer Electronics</li></ul>
<h1 class="x-item-title__mainTitle"><span class="ux-textspans">Apple iPhone 15 Pro Max 256GB Natural Titanium</span></h1>
<div class="x-price-primary"><span class="ux-textspans">US $899.00</span></div>
<div class="x-item-condition-text"><span class="ux-textspans">Open box</span></div>
<div class="x-sellercard-atf__info__about-seller"><a><span>tokyo_gadget_store</span></a></div>
<div class="ux-image-carousel-item"><img src="https://i.ebayimg.com/images/g/abc/s-l1600.jpg"></div>
<div class="ux-labels-values">
  <span>Item Weight:</span><span>1.2 kg</span>
  <span>Package Dimensions:</span><span>18.5 x 9.2 x 4.1 cm</span>
</div>
</body>
</html>`

func TestParseListing(t *testing.T) {
	parser := NewListingParser()

	ext, err := parser.Parse(listingFixture, "265893442181")
	require.NoError(t, err)
	require.NotNil(t, ext.Item)

	item := ext.Item
	assert.Equal(t, "265893442181", item.ItemID)
	assert.Equal(t, "Apple iPhone 15 Pro Max 256GB Natural Titanium", item.Title)
	assert.InDelta(t, 899.00, item.Price, 1e-9)
	assert.Equal(t, "Consumer Electronics", item.Category)
	assert.Equal(t, "Open box", item.Condition)
	assert.Equal(t, "tokyo_gadget_store", item.Seller)
	assert.Equal(t, "https://i.ebayimg.com/images/g/abc/s-l1600.jpg", item.ImageURL)
	assert.Equal(t, 1200, item.WeightGrams)

	require.NotNil(t, item.Dimensions)
	assert.InDelta(t, 18.5, item.Dimensions.Length, 1e-9)
	assert.InDelta(t, 9.2, item.Dimensions.Width, 1e-9)
	assert.InDelta(t, 4.1, item.Dimensions.Height, 1e-9)

	assert.Contains(t, ext.Sources, "title")
	assert.Contains(t, ext.Sources, "price")
	assert.Contains(t, ext.Sources, "weight")
}

func TestParseListingDefaults(t *testing.T) {
	parser := NewListingParser()

	ext, err := parser.Parse(`<html><body><p>nothing useful here</p></body></html>`, "123456789")
	require.NoError(t, err)

	item := ext.Item
	assert.Equal(t, "123456789", item.ItemID)
	assert.Empty(t, item.Title)
	assert.Zero(t, item.Price)
	assert.Equal(t, models.DefaultCurrency, item.Currency)
	assert.Equal(t, models.DefaultCategory, item.Category)
	assert.Equal(t, models.DefaultCondition, item.Condition)
	assert.Equal(t, models.DefaultWeightGrams, item.WeightGrams)
	assert.Nil(t, item.Dimensions)
}

func TestParseTitleStripsDetailsPrefix(t *testing.T) {
	parser := NewListingParser()

	ext, err := parser.Parse(
		`<html><body><h1 id="itemTitle">Details about  Vintage Seiko Chronograph</h1></body></html>`,
		"111")
	require.NoError(t, err)
	assert.Equal(t, "Vintage Seiko Chronograph", ext.Item.Title)
}

func TestExtractPriceTwoPhase(t *testing.T) {
	parser := NewListingParser()

	tests := []struct {
		name     string
		html     string
		expected float64
	}{
		{
			name: "Primary selector wins when plausible",
			html: `<div class="x-price-primary"><span class="ux-textspans">US $220.00</span></div>
				<p>Shipping: US $5.00</p>`,
			expected: 220.00,
		},
		{
			name: "Suspiciously low primary triggers page scan",
			html: `<div class="x-price-primary"><span class="ux-textspans">US $5.00</span></div>
				<p>Buy it now: US $220.00</p>`,
			expected: 220.00,
		},
		{
			name: "No selector hit falls back to page scan",
			html: `<p>Current bid: US $43.50</p><p>Shipping US $4.99</p>`,
			expected: 43.50,
		},
		{
			name: "JSON-LD price contributes a candidate",
			html: `<script type="application/ld+json">{"@type":"Product","offers":{"price":"312.49"}}</script>`,
			expected: 312.49,
		},
		{
			name: "Meta tag price contributes a candidate",
			html: `<meta itemprop="price" content="78.00">`,
			expected: 78.00,
		},
		{
			name: "Thousands separators are tolerated",
			html: `<div class="x-price-primary"><span class="ux-textspans">US $1,299.99</span></div>`,
			expected: 1299.99,
		},
		{
			name:     "No price at all",
			html:     `<p>contact seller for pricing</p>`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := parser.Parse("<html><body>"+tt.html+"</body></html>", "555")
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, ext.Item.Price, 1e-9)
		})
	}
}

func TestExtractPriceRecordsCandidates(t *testing.T) {
	parser := NewListingParser()

	ext, err := parser.Parse(`<html><body>
		<div class="x-price-primary"><span class="ux-textspans">US $5.00</span></div>
		<p>Was US $220.00</p>
	</body></html>`, "555")
	require.NoError(t, err)

	assert.Contains(t, ext.PriceCandidates, 5.00)
	assert.Contains(t, ext.PriceCandidates, 220.00)
	assert.InDelta(t, 220.00, ext.Item.Price, 1e-9)
}

func TestExtractWeight(t *testing.T) {
	parser := NewListingParser()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"Grams", "Item Weight: 750 grams", 750},
		{"Short gram unit", "Weight 750 g", 750},
		{"Kilograms", "Weight: 1.5 kg", 1500},
		{"Pounds", "Shipping Weight: 2 lbs", 907},
		{"Ounces", "Weight: 8 oz", 226},
		{"Japanese kilogram unit", "重量: 1.2 キロ", 1200},
		{"No weight", "no measurements listed", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><body><div class="itemAttr">` + tt.text + `</div></body></html>`
			ext, err := parser.Parse(html, "555")
			require.NoError(t, err)
			if tt.expected == 0 {
				assert.Equal(t, models.DefaultWeightGrams, ext.Item.WeightGrams)
				return
			}
			assert.Equal(t, tt.expected, ext.Item.WeightGrams)
		})
	}
}

func TestExtractDimensions(t *testing.T) {
	parser := NewListingParser()

	tests := []struct {
		name     string
		text     string
		expected *models.Dimensions
	}{
		{
			name:     "Centimeter triple",
			text:     "Package: 16 x 7.8 x 0.8 cm",
			expected: &models.Dimensions{Length: 16, Width: 7.8, Height: 0.8},
		},
		{
			name:     "Inch triple converted to centimeters",
			text:     "Size: 10 x 5 x 2 inches",
			expected: &models.Dimensions{Length: 25.4, Width: 12.7, Height: 5.08},
		},
		{
			name:     "Multiplication sign separator",
			text:     "寸法: 30 × 20 × 10 cm",
			expected: &models.Dimensions{Length: 30, Width: 20, Height: 10},
		},
		{
			name:     "Labeled axes",
			text:     "Length: 12 cm Width: 8 cm Height: 4 cm",
			expected: &models.Dimensions{Length: 12, Width: 8, Height: 4},
		},
		{
			name:     "No dimensions",
			text:     "no measurements listed",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><body><div class="itemAttr">` + tt.text + `</div></body></html>`
			ext, err := parser.Parse(html, "555")
			require.NoError(t, err)
			if tt.expected == nil {
				assert.Nil(t, ext.Item.Dimensions)
				return
			}
			require.NotNil(t, ext.Item.Dimensions)
			assert.InDelta(t, tt.expected.Length, ext.Item.Dimensions.Length, 1e-9)
			assert.InDelta(t, tt.expected.Width, ext.Item.Dimensions.Width, 1e-9)
			assert.InDelta(t, tt.expected.Height, ext.Item.Dimensions.Height, 1e-9)
		})
	}
}

func TestExtractCategoryFromScript(t *testing.T) {
	parser := NewListingParser()

	ext, err := parser.Parse(`<html><body>
		<script>var ctx = {"categoryId": "9355", "other": true};</script>
	</body></html>`, "555")
	require.NoError(t, err)
	assert.Equal(t, "9355", ext.Item.Category)
}
