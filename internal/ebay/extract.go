package ebay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
)

// Plausibility window for extracted prices. Values outside it are treated as
// page noise (shipping lines, counters, tracking junk).
const (
	minPlausiblePrice = 0.01
	maxPlausiblePrice = 999999.0
)

// Phase 1 results below this trigger the whole-page fallback scan: a primary
// listing price under $10 is more often a shipping figure than the real price.
const suspiciousPriceCeiling = 10.0

// Extraction is the best-effort output of parsing one listing document. Field
// misses degrade to defaults instead of failing; Sources records which
// extraction path produced each populated field.
type Extraction struct {
	Item            *models.Item
	Sources         map[string]string
	PriceCandidates []float64
}

type weightPattern struct {
	re      *regexp.Regexp
	toGrams float64
}

type axisPattern struct {
	re   *regexp.Regexp
	axis string
}

// ListingParser extracts item fields from a rendered listing page. Selector
// and pattern lists are ordered most-specific first and evaluated
// first-match-wins, so new page variants can be supported by appending
// entries without touching control flow.
type ListingParser struct {
	titleSelectors     []string
	priceSelectors     []string
	conditionSelectors []string
	imageSelectors     []string
	sellerSelectors    []string
	specsSelectors     []string

	weightPatterns   []weightPattern
	tripleCmPattern  *regexp.Regexp
	tripleInPattern  *regexp.Regexp
	axisPatterns     []axisPattern
	dollarPattern    *regexp.Regexp
	moneyPattern     *regexp.Regexp
	categoryPattern  *regexp.Regexp
	jsonLDPrice      *regexp.Regexp
}

func NewListingParser() *ListingParser {
	return &ListingParser{
		titleSelectors: []string{
			`h1.x-item-title__mainTitle span.ux-textspans`,
			`[data-testid="x-item-title"] h1`,
			`h1#itemTitle`,
			`h1.it-ttl`,
			`h1`,
		},
		priceSelectors: []string{
			`.x-price-primary span.ux-textspans`,
			`[data-testid="x-price-primary"] .ux-textspans`,
			`[data-testid="price"] .ux-textspans`,
			`.x-bin-price__content .ux-textspans`,
			`#prcIsum`,
			`.price .notranslate`,
		},
		conditionSelectors: []string{
			`.x-item-condition-text .ux-textspans`,
			`[data-testid="x-item-condition"] .ux-textspans`,
			`.u-flL.condText`,
		},
		imageSelectors: []string{
			`#icImg`,
			`.ux-image-carousel-item img`,
		},
		sellerSelectors: []string{
			`.x-sellercard-atf__info__about-seller a span`,
			`.mbg-nw`,
		},
		specsSelectors: []string{
			`.ux-labels-values`,
			`.itemAttr`,
			`.attrLabels`,
			`.specs`,
			`.itemSpecifics`,
		},
		weightPatterns: []weightPattern{
			{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:kg|kilograms?|キロ)`), 1000},
			{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:lbs?|pounds?|ポンド)`), 453.592},
			{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:oz|ounces?|オンス)`), 28.3495},
			{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:grams?|グラム|g\b)`), 1},
		},
		tripleCmPattern: regexp.MustCompile(
			`(?i)(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)\s*(?:cm|centimeters?|センチ)`),
		tripleInPattern: regexp.MustCompile(
			`(?i)(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)\s*(?:in\b|inch(?:es)?|インチ|")`),
		axisPatterns: []axisPattern{
			{regexp.MustCompile(`(?i)length:?\s*(\d+(?:\.\d+)?)\s*(cm|inch(?:es)?|in\b)`), "length"},
			{regexp.MustCompile(`(?i)width:?\s*(\d+(?:\.\d+)?)\s*(cm|inch(?:es)?|in\b)`), "width"},
			{regexp.MustCompile(`(?i)height:?\s*(\d+(?:\.\d+)?)\s*(cm|inch(?:es)?|in\b)`), "height"},
		},
		dollarPattern:   regexp.MustCompile(`(?:US\s?)?\$\s?([\d,]+(?:\.\d{1,2})?)`),
		moneyPattern:    regexp.MustCompile(`([\d,]+(?:\.\d+)?)`),
		categoryPattern: regexp.MustCompile(`"categoryId"\s*:\s*"([^"]+)"`),
		jsonLDPrice:     regexp.MustCompile(`"price"\s*:\s*"?(\d+(?:\.\d+)?)"?`),
	}
}

// Parse extracts all item fields from a listing document. It always returns a
// best-effort Extraction on parseable HTML; only unreadable input is an error.
func (p *ListingParser) Parse(html, itemID string) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	ext := &Extraction{
		Item:    models.NewItem(itemID),
		Sources: make(map[string]string),
	}

	if title, src := p.extractTitle(doc); title != "" {
		ext.Item.Title = title
		ext.Sources["title"] = src
	}

	price, src, candidates := p.extractPrice(doc)
	ext.PriceCandidates = candidates
	if price > 0 {
		ext.Item.Price = price
		ext.Sources["price"] = src
	}

	if category, src := p.extractCategory(doc); category != "" {
		ext.Item.Category = category
		ext.Sources["category"] = src
	}

	if condition := p.firstText(doc, p.conditionSelectors); condition != "" {
		ext.Item.Condition = condition
		ext.Sources["condition"] = "selector"
	}

	if img := p.extractImage(doc); img != "" {
		ext.Item.ImageURL = img
		ext.Sources["image"] = "selector"
	}

	if seller := p.firstText(doc, p.sellerSelectors); seller != "" {
		ext.Item.Seller = seller
		ext.Sources["seller"] = "selector"
	}

	specsText := p.collectSpecsText(doc)

	if grams, src := p.extractWeight(specsText, doc); grams > 0 {
		ext.Item.WeightGrams = grams
		ext.Sources["weight"] = src
	}

	if dims, src := p.extractDimensions(specsText, doc); dims != nil {
		ext.Item.Dimensions = dims
		ext.Sources["dimensions"] = src
	}

	return ext, nil
}

func (p *ListingParser) extractTitle(doc *goquery.Document) (string, string) {
	for _, selector := range p.titleSelectors {
		title := strings.TrimSpace(doc.Find(selector).First().Text())
		if title == "" {
			continue
		}
		title = strings.TrimSpace(strings.TrimPrefix(title, "Details about"))
		title = strings.TrimLeft(title, "  ")
		if title != "" {
			return title, "selector:" + selector
		}
	}
	return "", ""
}

// extractPrice runs the two-phase price strategy. Phase 1 tries the ordered
// selectors; phase 2 fires when phase 1 finds nothing or an implausibly low
// value, scanning the whole document plus structured metadata for every
// plausible dollar figure. The final price is the maximum candidate: on a
// cluttered page the primary selling price is reliably the largest plausible
// figure, smaller ones being shipping or promotions. Known limitation: a
// pricier accessory mentioned nearby can win.
func (p *ListingParser) extractPrice(doc *goquery.Document) (float64, string, []float64) {
	var candidates []float64

	phase1 := 0.0
	phase1Src := ""
	for _, selector := range p.priceSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text == "" {
			continue
		}
		if v := p.parseMoney(text); plausiblePrice(v) {
			phase1 = v
			phase1Src = "selector:" + selector
			candidates = append(candidates, v)
			break
		}
	}

	if phase1 >= suspiciousPriceCeiling {
		return phase1, phase1Src, candidates
	}

	best := phase1
	src := phase1Src

	for _, m := range p.dollarPattern.FindAllStringSubmatch(doc.Text(), -1) {
		v := p.parseMoney(m[1])
		if !plausiblePrice(v) {
			continue
		}
		candidates = append(candidates, v)
		if v > best {
			best = v
			src = "text-scan"
		}
	}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		for _, m := range p.jsonLDPrice.FindAllStringSubmatch(s.Text(), -1) {
			v := p.parseMoney(m[1])
			if !plausiblePrice(v) {
				continue
			}
			candidates = append(candidates, v)
			if v > best {
				best = v
				src = "json-ld"
			}
		}
	})

	for _, metaSel := range []string{`meta[itemprop="price"]`, `meta[property="product:price:amount"]`} {
		if content, ok := doc.Find(metaSel).First().Attr("content"); ok {
			v := p.parseMoney(content)
			if plausiblePrice(v) {
				candidates = append(candidates, v)
				if v > best {
					best = v
					src = "meta"
				}
			}
		}
	}

	return best, src, candidates
}

func (p *ListingParser) extractCategory(doc *goquery.Document) (string, string) {
	crumb := strings.TrimSpace(doc.Find(".seo-breadcrumb-text").Last().Text())
	if crumb != "" {
		return crumb, "breadcrumb"
	}

	found := ""
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := p.categoryPattern.FindStringSubmatch(s.Text()); len(m) > 1 {
			found = m[1]
			return false
		}
		return true
	})
	if found != "" {
		return found, "script"
	}

	return "", ""
}

func (p *ListingParser) extractImage(doc *goquery.Document) string {
	for _, selector := range p.imageSelectors {
		if src, ok := doc.Find(selector).First().Attr("src"); ok && src != "" {
			return src
		}
	}
	if content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		return content
	}
	return ""
}

// collectSpecsText concatenates the page sections most likely to carry weight
// and dimension facts: the shipping/payment block first, then the item
// specifics tables.
func (p *ListingParser) collectSpecsText(doc *goquery.Document) string {
	var b strings.Builder

	doc.Find("#shipping-payment").Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
		b.WriteString(" ")
	})

	for _, selector := range p.specsSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			b.WriteString(s.Text())
			b.WriteString(" ")
		})
	}

	return b.String()
}

func (p *ListingParser) extractWeight(specsText string, doc *goquery.Document) (int, string) {
	if grams := p.matchWeight(specsText); grams > 0 {
		return grams, "specs"
	}
	if grams := p.matchWeight(doc.Text()); grams > 0 {
		return grams, "page-text"
	}
	return 0, ""
}

func (p *ListingParser) matchWeight(text string) int {
	for _, wp := range p.weightPatterns {
		m := wp.re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		value := parseFloat(m[1])
		if value <= 0 {
			continue
		}
		return int(value * wp.toGrams)
	}
	return 0
}

func (p *ListingParser) extractDimensions(specsText string, doc *goquery.Document) (*models.Dimensions, string) {
	if dims := p.matchDimensions(specsText); dims != nil {
		return dims, "specs"
	}
	if dims := p.matchDimensions(doc.Text()); dims != nil {
		return dims, "page-text"
	}
	return nil, ""
}

func (p *ListingParser) matchDimensions(text string) *models.Dimensions {
	if m := p.tripleCmPattern.FindStringSubmatch(text); len(m) >= 4 {
		dims := &models.Dimensions{
			Length: parseFloat(m[1]),
			Width:  parseFloat(m[2]),
			Height: parseFloat(m[3]),
		}
		if dims.IsValid() {
			return dims
		}
	}

	if m := p.tripleInPattern.FindStringSubmatch(text); len(m) >= 4 {
		dims := &models.Dimensions{
			Length: parseFloat(m[1]) * 2.54,
			Width:  parseFloat(m[2]) * 2.54,
			Height: parseFloat(m[3]) * 2.54,
		}
		if dims.IsValid() {
			return dims
		}
	}

	// Individually labeled axes. Partial matches stay partial; the triple
	// patterns above take priority because they carry all three at once.
	dims := &models.Dimensions{}
	matched := false
	for _, ap := range p.axisPatterns {
		m := ap.re.FindStringSubmatch(text)
		if len(m) < 3 {
			continue
		}
		value := parseFloat(m[1])
		if strings.HasPrefix(strings.ToLower(m[2]), "in") {
			value *= 2.54
		}
		switch ap.axis {
		case "length":
			dims.Length = value
		case "width":
			dims.Width = value
		case "height":
			dims.Height = value
		}
		matched = true
	}
	if matched && dims.IsValid() {
		return dims
	}

	return nil
}

func (p *ListingParser) firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// parseMoney pulls the first numeric token out of a price string, tolerating
// "US $", "$" and "USD" decoration plus thousands separators.
func (p *ListingParser) parseMoney(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	m := p.moneyPattern.FindStringSubmatch(s)
	if len(m) < 2 {
		return 0
	}
	return parseFloat(m[1])
}

func plausiblePrice(v float64) bool {
	return v > minPlausiblePrice && v <= maxPlausiblePrice
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}
