package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(apiEndpoint, scrapeBase string, withCreds bool) *Resolver {
	apiCfg := APIConfig{Endpoint: apiEndpoint, Timeout: 5 * time.Second}
	if withCreds {
		apiCfg.AppID = "real-app-id"
		apiCfg.Token = "real-token"
	}
	api := NewAPIClient(apiCfg, testLogger())
	scraper := newTestScraper(scrapeBase)
	return NewResolver(api, scraper, testLogger())
}

func TestResolveTestSentinel(t *testing.T) {
	resolver := newTestResolver("http://unused.invalid", "http://unused.invalid", false)

	for _, input := range []string{"test", "TEST", "  test  "} {
		t.Run(input, func(t *testing.T) {
			item, diag, err := resolver.Resolve(context.Background(), input)
			require.NoError(t, err)
			require.NotNil(t, item)

			assert.Equal(t, "テスト商品 - iPhone 15 Pro Max 256GB", item.Title)
			assert.InDelta(t, 999.99, item.Price, 1e-9)
			assert.Equal(t, 750, item.WeightGrams)
			require.NotNil(t, item.Dimensions)
			assert.InDelta(t, 16.0, item.Dimensions.Length, 1e-9)
			assert.InDelta(t, 7.8, item.Dimensions.Width, 1e-9)
			assert.InDelta(t, 0.8, item.Dimensions.Height, 1e-9)
			assert.InDelta(t, 0.1275, item.FeeRate, 1e-9)
			assert.Equal(t, "test", diag.Strategy)
		})
	}
}

func TestResolveSentinelIsDeterministic(t *testing.T) {
	resolver := newTestResolver("http://unused.invalid", "http://unused.invalid", false)

	first, _, err := resolver.Resolve(context.Background(), "test")
	require.NoError(t, err)
	second, _, err := resolver.Resolve(context.Background(), "test")
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, first.FeeRate, second.FeeRate)
	assert.Equal(t, first.WeightGrams, second.WeightGrams)
}

func TestResolveIdentifierNotFound(t *testing.T) {
	resolver := newTestResolver("http://unused.invalid", "http://unused.invalid", false)

	_, _, err := resolver.Resolve(context.Background(), "not a listing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIdentifierNotFound)
}

func TestResolveViaAPI(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/item/265893442181")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"itemId": "v1|265893442181|0",
			"title": "Canon EOS R6 Mark II Body",
			"price": {"value": "1899.00", "currency": "USD"},
			"primaryCategory": {"categoryId": "31388", "categoryName": "Cameras & Photo"},
			"condition": "New",
			"seller": {"username": "camera_pro_jp"}
		}`))
	}))
	defer apiServer.Close()

	resolver := newTestResolver(apiServer.URL, "http://unused.invalid", true)
	item, diag, err := resolver.Resolve(context.Background(), "https://www.ebay.com/itm/265893442181")
	require.NoError(t, err)

	assert.Equal(t, "Canon EOS R6 Mark II Body", item.Title)
	assert.InDelta(t, 1899.00, item.Price, 1e-9)
	assert.Equal(t, "USD", item.Currency)
	assert.Equal(t, "Cameras & Photo", item.Category)
	assert.Equal(t, "camera_pro_jp", item.Seller)
	assert.InDelta(t, 0.1275, item.FeeRate, 1e-9)
	assert.Equal(t, "api", diag.Strategy)
}

func TestResolveFallsBackToScraping(t *testing.T) {
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer apiServer.Close()

	scrapeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingFixture))
	}))
	defer scrapeServer.Close()

	resolver := newTestResolver(apiServer.URL, scrapeServer.URL, true)
	item, diag, err := resolver.Resolve(context.Background(), "265893442181")
	require.NoError(t, err)

	assert.Equal(t, "Apple iPhone 15 Pro Max 256GB Natural Titanium", item.Title)
	assert.Equal(t, "scraping", diag.Strategy)
	assert.InDelta(t, 0.0875, item.FeeRate, 1e-9)
}

func TestResolveWithoutCredentialsSkipsAPI(t *testing.T) {
	var apiCalled bool
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalled = true
		w.WriteHeader(http.StatusOK)
	}))
	defer apiServer.Close()

	scrapeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingFixture))
	}))
	defer scrapeServer.Close()

	resolver := newTestResolver(apiServer.URL, scrapeServer.URL, false)
	item, diag, err := resolver.Resolve(context.Background(), "265893442181")
	require.NoError(t, err)

	assert.False(t, apiCalled)
	assert.Equal(t, "scraping", diag.Strategy)
	assert.NotEmpty(t, item.Title)
}

func TestResolveBothStrategiesExhausted(t *testing.T) {
	blockedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>Checking your browser</html>`))
	}))
	defer blockedServer.Close()

	resolver := newTestResolver("http://unused.invalid", blockedServer.URL, false)
	_, diag, err := resolver.Resolve(context.Background(), "265893442181")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrItemUnresolvable)
	assert.Equal(t, "scraping", diag.Strategy)
}
