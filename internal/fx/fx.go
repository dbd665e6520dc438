package fx

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
)

// Rate sources reported by Convert.
const (
	SourceLive     = "exchangerate.host"
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

const (
	defaultEndpoint = "https://api.exchangerate.host/latest"
	defaultTTL      = time.Hour
	defaultUSDJPY   = 150.0
)

// Fixed rates used when the live source is unreachable or does not know the
// pair. Values match the tool's historical defaults.
var fallbackRates = map[string]float64{
	"USD/JPY": 150.0,
	"JPY/USD": 1 / 150.0,
	"EUR/JPY": 165.0,
	"JPY/EUR": 1 / 165.0,
	"GBP/JPY": 185.0,
	"JPY/GBP": 1 / 185.0,
	"AUD/JPY": 100.0,
	"JPY/AUD": 1 / 100.0,
	"CAD/JPY": 110.0,
	"JPY/CAD": 1 / 110.0,
	"USD/EUR": 0.91,
	"EUR/USD": 1.10,
	"USD/GBP": 0.81,
	"GBP/USD": 1.23,
}

type cachedRate struct {
	rate      float64
	fetchedAt time.Time
}

// Converter fetches live exchange rates with a one-hour memo and a fixed
// fallback table. The memo is the only cross-call state in the core, guarded
// by an RWMutex so parallel resolutions can read it safely. An optional Redis
// client shares the memo across processes; when absent the converter is fully
// self-contained.
type Converter struct {
	client   *resty.Client
	endpoint string
	ttl      time.Duration
	logger   *slog.Logger

	mu    sync.RWMutex
	cache map[string]cachedRate

	redis *redis.Client
}

type Option func(*Converter)

// WithEndpoint overrides the live rate URL, mainly for tests.
func WithEndpoint(url string) Option {
	return func(c *Converter) { c.endpoint = url }
}

// WithTTL overrides the memo window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Converter) { c.ttl = ttl }
}

// WithRedis adds a shared rate cache consulted before the live source.
func WithRedis(client *redis.Client) Option {
	return func(c *Converter) { c.redis = client }
}

func NewConverter(logger *slog.Logger, opts ...Option) *Converter {
	c := &Converter{
		client: resty.New().
			SetTimeout(10 * time.Second).
			SetRetryCount(1),
		endpoint: defaultEndpoint,
		ttl:      defaultTTL,
		logger:   logger.With("component", "fx"),
		cache:    make(map[string]cachedRate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rateResponse struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
}

// Convert converts amount between two ISO currency codes and reports which
// source supplied the rate. It never fails hard: any fetch problem degrades to
// the fallback table, and the returned error only signals that degradation.
func (c *Converter) Convert(ctx context.Context, amount float64, from, to string) (float64, string, error) {
	rate, source, err := c.Rate(ctx, from, to)
	return amount * rate, source, err
}

// Rate returns the conversion rate for one ordered currency pair.
func (c *Converter) Rate(ctx context.Context, from, to string) (float64, string, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	key := from + "/" + to

	if rate, ok := c.cachedLocal(key); ok {
		return rate, SourceCache, nil
	}

	if c.redis != nil {
		if rate, ok := c.cachedShared(ctx, key); ok {
			c.storeLocal(key, rate)
			return rate, SourceCache, nil
		}
	}

	rate, err := c.fetchLive(ctx, from, to)
	if err != nil {
		fallback := fallbackRate(from, to)
		c.logger.Warn("live rate unavailable, using fallback",
			"pair", key, "rate", fallback, "error", err)
		return fallback, SourceFallback, err
	}

	c.storeLocal(key, rate)
	if c.redis != nil {
		c.storeShared(ctx, key, rate)
	}

	c.logger.Info("fetched exchange rate", "pair", key, "rate", rate)
	return rate, SourceLive, nil
}

func (c *Converter) fetchLive(ctx context.Context, from, to string) (float64, error) {
	var body rateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"base":    from,
			"symbols": to,
		}).
		SetResult(&body).
		Get(c.endpoint)
	if err != nil {
		return 0, fmt.Errorf("rate request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return 0, fmt.Errorf("rate source returned status %d", resp.StatusCode())
	}

	rate, ok := body.Rates[to]
	if !body.Success || !ok || rate <= 0 {
		return 0, fmt.Errorf("rate for %s/%s missing in response", from, to)
	}
	return rate, nil
}

func (c *Converter) cachedLocal(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[key]
	if !ok || time.Since(entry.fetchedAt) >= c.ttl {
		return 0, false
	}
	return entry.rate, true
}

func (c *Converter) storeLocal(key string, rate float64) {
	c.mu.Lock()
	c.cache[key] = cachedRate{rate: rate, fetchedAt: time.Now()}
	c.mu.Unlock()
}

func (c *Converter) cachedShared(ctx context.Context, key string) (float64, bool) {
	val, err := c.redis.Get(ctx, "fx:rate:"+key).Result()
	if err != nil {
		return 0, false
	}
	rate, err := strconv.ParseFloat(val, 64)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}

func (c *Converter) storeShared(ctx context.Context, key string, rate float64) {
	if err := c.redis.Set(ctx, "fx:rate:"+key,
		strconv.FormatFloat(rate, 'f', -1, 64), c.ttl).Err(); err != nil {
		c.logger.Warn("failed to store rate in shared cache", "pair", key, "error", err)
	}
}

func fallbackRate(from, to string) float64 {
	if rate, ok := fallbackRates[from+"/"+to]; ok {
		return rate
	}
	if from == to {
		return 1.0
	}
	if to == "JPY" {
		return defaultUSDJPY
	}
	return 1.0
}
