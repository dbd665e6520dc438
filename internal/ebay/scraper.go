package ebay

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/ratelimit"
)

const defaultListingBaseURL = "https://www.ebay.com"

// Body markers that identify an anti-automation challenge page. A 200
// response containing any of them counts as blocked.
var challengeMarkers = []string{
	"Pardon Our Interruption",
	"captchacharacters",
	"Please verify yourself",
	"Checking your browser",
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// Scraper is the fallback fetch strategy: retrieve the rendered listing page
// over plain HTTP, rotating candidate URL forms, user agents and delays to
// stay under anti-bot thresholds. Headers are built fresh per request; no
// mutable session state is shared between attempts.
type Scraper struct {
	client     *resty.Client
	parser     *ListingParser
	logger     *slog.Logger
	baseURL    string
	userAgents []string
	limiter    ratelimit.Limiter
}

type ScraperConfig struct {
	BaseURL    string
	UserAgents []string
	MinDelay   time.Duration
	MaxDelay   time.Duration
	Timeout    time.Duration
}

func NewScraper(cfg ScraperConfig, logger *slog.Logger) *Scraper {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultListingBaseURL
	}
	userAgents := cfg.UserAgents
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	minDelay := cfg.MinDelay
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		minDelay = time.Second
		maxDelay = 3 * time.Second
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Scraper{
		client:     resty.New().SetTimeout(timeout),
		parser:     NewListingParser(),
		logger:     logger.With("component", "scraper"),
		baseURL:    baseURL,
		userAgents: userAgents,
		limiter:    ratelimit.NewJitterLimiter(minDelay, maxDelay),
	}
}

// candidateURLs lists the URL forms tried for one identifier, in order:
// canonical item path, a tracking-parameterized variant, the alternate
// product path, and a search fallback.
func (s *Scraper) candidateURLs(itemID string) []string {
	return []string{
		fmt.Sprintf("%s/itm/%s", s.baseURL, itemID),
		fmt.Sprintf("%s/itm/%s?hash=item&_trkparms=amclksrc", s.baseURL, itemID),
		fmt.Sprintf("%s/p/%s", s.baseURL, itemID),
		fmt.Sprintf("%s/sch/i.html?_nkw=%s", s.baseURL, url.QueryEscape(itemID)),
	}
}

// FetchItem tries each candidate URL until one returns a clean document, then
// runs the field extractors over it. The returned Item is best-effort: empty
// title or zero price is left for the caller to judge. Diagnostics accompany
// both success and failure.
func (s *Scraper) FetchItem(ctx context.Context, itemID string) (*models.Item, *models.ResolveDiagnostics, error) {
	diag := &models.ResolveDiagnostics{Strategy: "scraping"}

	var lastTransportErr error
	blocked := 0

	for i, candidate := range s.candidateURLs(itemID) {
		if err := s.jitterDelay(ctx); err != nil {
			return nil, diag, err
		}

		diag.Attempts++
		resp, err := s.request(ctx, candidate, i > 0)
		if err != nil {
			lastTransportErr = fmt.Errorf("request to %s failed: %w", candidate, err)
			s.logger.Warn("scrape attempt failed", "url", candidate, "error", err)
			diag.Notes = append(diag.Notes, fmt.Sprintf("attempt %d: transport error", diag.Attempts))
			continue
		}

		diag.URL = candidate
		diag.Status = resp.StatusCode()

		if resp.StatusCode() != 200 {
			blocked++
			s.logger.Warn("scrape attempt rejected", "url", candidate, "status", resp.StatusCode())
			diag.Notes = append(diag.Notes, fmt.Sprintf("attempt %d: status %d", diag.Attempts, resp.StatusCode()))
			continue
		}

		body := string(resp.Body())
		if marker := challengeMarker(body); marker != "" {
			blocked++
			s.logger.Warn("challenge page detected", "url", candidate, "marker", marker)
			diag.Notes = append(diag.Notes, fmt.Sprintf("attempt %d: challenge %q", diag.Attempts, marker))
			continue
		}

		ext, err := s.parser.Parse(body, itemID)
		if err != nil {
			return nil, diag, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}

		diag.FieldSources = ext.Sources
		diag.PriceCandidates = ext.PriceCandidates
		s.logger.Info("item scraped",
			"item_id", itemID, "url", candidate,
			"attempts", diag.Attempts, "title_found", ext.Item.Title != "")
		return ext.Item, diag, nil
	}

	if lastTransportErr != nil && blocked == 0 {
		return nil, diag, lastTransportErr
	}
	return nil, diag, ErrBlocked
}

// request issues one candidate attempt with a randomized User-Agent and a
// realistic browser header set. The Referer is attached only on retries, the
// way a human landing from a prior page would look.
func (s *Scraper) request(ctx context.Context, target string, retry bool) (*resty.Response, error) {
	req := s.client.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"User-Agent":                s.userAgents[rand.Intn(len(s.userAgents))],
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.5",
			"Upgrade-Insecure-Requests": "1",
			"Sec-Fetch-Dest":            "document",
			"Sec-Fetch-Mode":            "navigate",
			"Sec-Fetch-Site":            "none",
		})
	if retry {
		req.SetHeader("Referer", s.baseURL+"/")
	}
	return req.Get(target)
}

// jitterDelay sleeps a random duration inside the configured window before
// each attempt. The delay is an evasion measure against rate-limit triggered
// blocking, not a politeness nicety, so it stays on even for the first
// candidate.
func (s *Scraper) jitterDelay(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}

func challengeMarker(body string) string {
	for _, marker := range challengeMarkers {
		if strings.Contains(body, marker) {
			return marker
		}
	}
	return ""
}
