package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/raushankrgupta/catalog-crawler/crawler"
	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/scrapers"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
)

// test_scraper extracts single products from detail URLs and prints them,
// for checking a site's selectors without crawling the whole catalog.
func main() {
	urls := os.Args[1:]
	if len(urls) == 0 {
		urls = []string{
			"https://foreignfortune.com/collections/men-unisex/products/lion-hat",
			"https://www.lechocolat-alainducasse.com/uk/chocolate-bars/bar-70-dark-chocolate-ecuador",
			"https://www.traderjoes.com/home/products/pdp/mandarin-orange-chicken-074964",
		}
	}

	ctx := context.Background()
	for _, u := range urls {
		fmt.Printf("Testing URL: %s\n", u)
		extractor, err := scrapers.GetExtractorForURL(u)
		if err != nil {
			slog.Error("no extractor", "url", u, "error", err)
			continue
		}
		fmt.Printf("Extractor: %s (%s)\n", extractor.Profile().Name, extractor.Profile().Mode)

		fetcher, err := openFetcher(extractor.Profile().Mode)
		if err != nil {
			slog.Error("failed to open fetcher", "error", err)
			continue
		}

		res, err := crawler.New(extractor, fetcher, crawler.Options{}).RunProducts(ctx, []string{u})
		if closeErr := fetcher.Close(); closeErr != nil {
			slog.Warn("failed to close fetcher", "error", closeErr)
		}
		if err != nil {
			slog.Error("failed to scrape product", "url", u, "error", err)
			continue
		}
		for _, skip := range res.Skipped {
			slog.Warn("product skipped", "url", skip.URL, "stage", skip.Stage, "error", skip.Err)
		}

		if err := printRecords(os.Stdout, res.Records); err != nil {
			slog.Error("failed to print products", "url", u, "error", err)
			continue
		}
		fmt.Println("--------------------------------------------------")
	}
}

func printRecords(w io.Writer, recs []models.ProductRecord) error {
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	_, err = fmt.Fprintf(w, "Product: %s\n", b)
	return err
}

func openFetcher(mode base.FetchMode) (base.PageFetcher, error) {
	if mode == base.ModeRendered {
		return base.NewChromeDPFetcher(base.BrowserOptions{Headless: true})
	}
	return base.NewHTTPFetcher(30*time.Second, 0), nil
}
