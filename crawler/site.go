package crawler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raushankrgupta/catalog-crawler/scrapers"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
)

// FetcherFactory opens a fetcher for a fetch mode. The caller owns the
// returned fetcher and must Close it.
type FetcherFactory func(ctx context.Context, mode base.FetchMode) (base.PageFetcher, error)

// CrawlSite opens a fetcher for mode, runs one crawl with it and closes it
// again, whether the crawl succeeded or not. An empty mode uses the site's
// own default.
func CrawlSite(ctx context.Context, extractor scrapers.PageExtractor, mode base.FetchMode, open FetcherFactory, opts Options) (*Result, error) {
	if mode == "" {
		mode = extractor.Profile().Mode
	}
	fetcher, err := open(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s fetcher for %s: %w", mode, extractor.Profile().Name, err)
	}
	defer func() {
		if cerr := fetcher.Close(); cerr != nil {
			slog.Warn("closing fetcher", "site", extractor.Profile().Name, "error", cerr)
		}
	}()

	return New(extractor, fetcher, opts).Run(ctx)
}
