package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/raushankrgupta/catalog-crawler/config"
	"github.com/raushankrgupta/catalog-crawler/crawler"
	"github.com/raushankrgupta/catalog-crawler/export"
	"github.com/raushankrgupta/catalog-crawler/notify"
	"github.com/raushankrgupta/catalog-crawler/scrapers"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [site...]",
	Short: "Crawls the configured sites and writes one JSON file per site.",
	Long: "Crawls the sites named on the command line, or the sites from SITES_FILE / SITES, " +
		"or every known site. Records are written to OUTPUT_DIR/<site>.json.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSinks(ctx)
		if err != nil {
			return err
		}
		defer s.close(context.WithoutCancel(ctx))

		rows, _, err := crawlSites(ctx, s, args)
		notify.PrintSummary(os.Stdout, rows)
		s.report("crawl", rows)
		return err
	},
}

// crawlSites crawls every selected site, at most SITE_CONCURRENCY at a
// time, and returns a summary row and output file per site.
func crawlSites(ctx context.Context, s *sinks, names []string) ([]notify.SiteSummary, []string, error) {
	bindings, err := selectBindings(names)
	if err != nil {
		return nil, nil, err
	}

	open := fetcherFactory(base.NewPortManager(cfg.Browser.SeleniumBasePort, cfg.Browser.SeleniumPortRange))
	rows := make([]notify.SiteSummary, len(bindings))
	outputs := make([]string, len(bindings))

	var g errgroup.Group
	g.SetLimit(max(cfg.Crawl.SiteConcurrency, 1))
	for i, b := range bindings {
		g.Go(func() error {
			rows[i], outputs[i] = crawlOne(ctx, s, b, open)
			return nil
		})
	}
	g.Wait()

	var errs []error
	var written []string
	for i, row := range rows {
		if row.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", row.Site, row.Err))
		}
		if outputs[i] != "" {
			written = append(written, outputs[i])
		}
	}
	return rows, written, errors.Join(errs...)
}

func selectBindings(names []string) ([]config.SiteBinding, error) {
	if len(names) == 0 {
		return cfg.Bindings(scrapers.Names())
	}
	bindings := make([]config.SiteBinding, 0, len(names))
	for _, n := range names {
		bindings = append(bindings, config.SiteBinding{Name: n})
	}
	return bindings, nil
}

func resolveExtractor(b config.SiteBinding) (scrapers.PageExtractor, error) {
	if b.Name != "" {
		return scrapers.GetExtractor(b.Name)
	}
	return scrapers.GetExtractorForURL(b.RootURL)
}

// crawlOne crawls one site and writes whatever records it collected, even
// when the crawl failed part way.
func crawlOne(ctx context.Context, s *sinks, b config.SiteBinding, open crawler.FetcherFactory) (notify.SiteSummary, string) {
	row := notify.SiteSummary{Site: b.Label(), State: crawler.Failed.String(), Valid: -1, Invalid: -1}

	extractor, err := resolveExtractor(b)
	if err != nil {
		row.Err = err
		return row, ""
	}
	site := extractor.Profile().Name
	row.Site = site

	var mode base.FetchMode
	if b.Mode != "" {
		if mode, err = base.ParseFetchMode(b.Mode); err != nil {
			row.Err = err
			return row, ""
		}
	}

	res, err := crawler.CrawlSite(ctx, extractor, mode, open, crawler.Options{
		WaitTimeout: cfg.Crawl.RenderWaitTimeout,
		PacingBatch: cfg.Crawl.PacingBatch,
		PacingPause: cfg.Crawl.PacingPause,
		MaxProducts: b.MaxProducts,
		RootURL:     b.RootURL,
	})
	row.Err = err
	if res == nil {
		return row, ""
	}
	row.State = res.State.String()
	row.Records = len(res.Records)
	row.Skipped = len(res.Skipped)
	row.Duration = res.Duration()

	// Interrupted runs still get their partial output written.
	wctx := context.WithoutCancel(ctx)
	path := filepath.Join(cfg.OutputDir, site+".json")
	if werr := s.files(export.JSONWriter{}).Write(wctx, res.Records, path); werr != nil {
		slog.Error("writing crawl output", "site", site, "file", path, "error", werr)
		row.Err = errors.Join(row.Err, werr)
		return row, ""
	}
	slog.Info("crawl output written", "site", site, "file", path, "records", len(res.Records))

	if s.records != nil {
		if werr := s.records.Write(wctx, res.Records, site); werr != nil {
			slog.Error("storing records", "site", site, "error", werr)
			row.Err = errors.Join(row.Err, werr)
		}
	}
	return row, path
}
