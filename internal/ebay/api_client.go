package ebay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
)

const (
	defaultBrowseEndpoint = "https://api.ebay.com/buy/browse/v1"

	// Placeholder shipped in example configs. Credentials equal to it (or
	// empty) short-circuit to ErrNoCredentials without a network call.
	placeholderAppID = "your_app_id_here"
)

// APIClient is the authenticated fetch strategy against the structured Browse
// API. It maps the provider's item document one-to-one into an Item.
type APIClient struct {
	client   *resty.Client
	endpoint string
	appID    string
	token    string
	logger   *slog.Logger
}

type APIConfig struct {
	Endpoint string
	AppID    string
	Token    string
	Timeout  time.Duration
}

func NewAPIClient(cfg APIConfig, logger *slog.Logger) *APIClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultBrowseEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &APIClient{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("X-EBAY-C-MARKETPLACE-ID", "EBAY_US"),
		endpoint: endpoint,
		appID:    cfg.AppID,
		token:    cfg.Token,
		logger:   logger.With("component", "api_client"),
	}
}

// HasCredentials reports whether real (non-placeholder) credentials are
// configured. Used as the cheap pre-check before any network call.
func (c *APIClient) HasCredentials() bool {
	return c.appID != "" && c.appID != placeholderAppID && c.token != ""
}

type browseItemResponse struct {
	ItemID string `json:"itemId"`
	Title  string `json:"title"`
	Price  struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"price"`
	PrimaryCategory struct {
		CategoryID   string `json:"categoryId"`
		CategoryName string `json:"categoryName"`
	} `json:"primaryCategory"`
	Condition string `json:"condition"`
	Image     struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	Seller struct {
		Username string `json:"username"`
	} `json:"seller"`
}

// FetchItem retrieves one listing through the authenticated API. Fails with
// ErrNoCredentials, UpstreamError or ErrMalformedResponse; never lets a raw
// transport error escape unwrapped.
func (c *APIClient) FetchItem(ctx context.Context, itemID string) (*models.Item, error) {
	if !c.HasCredentials() {
		return nil, ErrNoCredentials
	}

	url := fmt.Sprintf("%s/item/%s", c.endpoint, itemID)
	c.logger.Debug("fetching item via API", "item_id", itemID, "url", url)

	var body browseItemResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetResult(&body).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, &UpstreamError{Status: resp.StatusCode()}
	}

	item, err := c.mapResponse(itemID, &body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("item fetched via API", "item_id", itemID, "price", item.Price)
	return item, nil
}

func (c *APIClient) mapResponse(itemID string, body *browseItemResponse) (*models.Item, error) {
	if body.Title == "" && body.Price.Value == "" {
		return nil, ErrMalformedResponse
	}

	item := models.NewItem(itemID)
	item.Title = body.Title
	item.Condition = body.Condition
	if item.Condition == "" {
		item.Condition = models.DefaultCondition
	}
	item.ImageURL = body.Image.ImageURL
	item.Seller = body.Seller.Username

	if body.Price.Value != "" {
		price := parseFloat(body.Price.Value)
		if price < 0 {
			return nil, ErrMalformedResponse
		}
		item.Price = price
	}
	if body.Price.Currency != "" {
		item.Currency = body.Price.Currency
	}

	if name := body.PrimaryCategory.CategoryName; name != "" {
		item.Category = name
	} else if id := body.PrimaryCategory.CategoryID; id != "" {
		item.Category = id
	}

	return item, nil
}
