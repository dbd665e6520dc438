package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/hanakappa111111/ebay-profit-calculator/internal/config"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/ebay"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/fx"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/models"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/profit"
	"github.com/hanakappa111111/ebay-profit-calculator/internal/shipping"
)

// calc resolves one listing and prints the full profit breakdown: item data,
// shipping quote in JPY, exchange rate, and margin.
func main() {
	var (
		input        = flag.String("input", "", "eBay URL, numeric item ID, or \"test\"")
		supplierJPY  = flag.Float64("supplier", 0, "Acquisition cost in JPY")
		method       = flag.String("method", "EMS", "Shipping method: EMS, Air, SAL, Surface")
		asJSON       = flag.Bool("json", false, "Output JSON instead of text")
		timeout      = flag.Duration("timeout", 60*time.Second, "Overall resolution timeout")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: calc -input <url-or-id> [-supplier <jpy>] [-method EMS]")
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	apiClient := ebay.NewAPIClient(ebay.APIConfig{
		Endpoint: cfg.EBay.Endpoint,
		AppID:    cfg.EBay.AppID,
		Token:    cfg.EBay.Token,
		Timeout:  cfg.EBay.Timeout,
	}, logger)
	scraper := ebay.NewScraper(ebay.ScraperConfig{
		BaseURL:    cfg.Scraper.BaseURL,
		UserAgents: cfg.Scraper.UserAgents,
		MinDelay:   cfg.Scraper.MinDelay,
		MaxDelay:   cfg.Scraper.MaxDelay,
		Timeout:    cfg.Scraper.Timeout,
	}, logger)
	resolver := ebay.NewResolver(apiClient, scraper, logger)
	converter := fx.NewConverter(logger,
		fx.WithEndpoint(cfg.Currency.Endpoint),
		fx.WithTTL(cfg.Currency.CacheTTL))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	item, diag, err := resolver.Resolve(ctx, *input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		if diag != nil {
			detail, _ := json.MarshalIndent(diag, "", "  ")
			fmt.Fprintf(os.Stderr, "diagnostics: %s\n", detail)
		}
		os.Exit(1)
	}

	quote := shipping.Quote(item.WeightGrams, *method, item.Dimensions)
	rate, source, _ := converter.Rate(ctx, item.Currency, "JPY")

	shippingInItemCurrency := float64(quote.CostJPY) / rate
	result := profit.Compute(item.Price, item.FeeRate, shippingInItemCurrency, *supplierJPY/rate)

	if *asJSON {
		out, _ := json.MarshalIndent(map[string]any{
			"item":        item,
			"quote":       quote,
			"rate":        rate,
			"rate_source": source,
			"profit":      result,
			"diagnostics": diag,
		}, "", "  ")
		fmt.Println(string(out))
		return
	}

	printText(item, quote, rate, source, result)
}

func printText(item *models.Item, quote models.ShippingQuote, rate float64, source string, result models.ProfitResult) {
	fmt.Printf("Item:      %s (%s)\n", item.Title, item.ItemID)
	fmt.Printf("Price:     %.2f %s (fee rate %.2f%%)\n", item.Price, item.Currency, item.FeeRate*100)
	fmt.Printf("Weight:    %d g\n", item.WeightGrams)
	if item.Dimensions != nil {
		fmt.Printf("Size:      %.1f x %.1f x %.1f cm\n",
			item.Dimensions.Length, item.Dimensions.Width, item.Dimensions.Height)
	}
	if quote.CostJPY == 0 && quote.Bracket == "" {
		fmt.Printf("Shipping:  method %q not supported\n", quote.Method)
	} else {
		fmt.Printf("Shipping:  %s ¥%d (%s)\n", quote.Method, quote.CostJPY, quote.Bracket)
	}
	fmt.Printf("Rate:      1 %s = %.2f JPY (%s)\n", item.Currency, rate, source)
	fmt.Printf("Fees:      %.2f %s\n", result.Fees, item.Currency)
	fmt.Printf("Profit:    %.2f %s (margin %.1f%%)\n", result.Profit, item.Currency, result.MarginPercent)
}
