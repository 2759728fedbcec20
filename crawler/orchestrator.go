// Package crawler drives a site crawl from the root page through categories,
// listing pages, product detail pages and variant sub-pages.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/records"
	"github.com/raushankrgupta/catalog-crawler/scrapers"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/raushankrgupta/catalog-crawler/utils"
)

const (
	DefaultPacingBatch = 10
	DefaultPacingPause = 10 * time.Second

	defaultVariantParam = "variant"
)

// Options tune a run. Zero values fall back to the defaults.
type Options struct {
	// WaitTimeout bounds each rendered wait.
	WaitTimeout time.Duration
	// PacingBatch and PacingPause apply to rendered fetches only. When unset
	// the site profile's pacing is used, then the defaults.
	PacingBatch int
	PacingPause time.Duration
	// MaxProducts caps the number of detail pages visited. 0 means no cap.
	MaxProducts int
	// RootURL replaces the site's default root page.
	RootURL string
	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

// Orchestrator runs one crawl of one site. It is single-use and not safe for
// concurrent use; separate sites get separate orchestrators.
type Orchestrator struct {
	extractor scrapers.PageExtractor
	fetcher   base.PageFetcher
	profile   base.Profile
	opts      Options
	log       *slog.Logger

	state      State
	err        error
	result     *Result
	categories []string
	products   *utils.OrderedSet[string]
	queue      []string
	next       int

	// product currently in VariantFetch
	current  *records.Builder
	variants []string
	vnext    int
}

func New(extractor scrapers.PageExtractor, fetcher base.PageFetcher, opts Options) *Orchestrator {
	profile := extractor.Profile()
	if opts.RootURL != "" {
		profile.RootURL = opts.RootURL
	}
	if opts.PacingBatch <= 0 {
		opts.PacingBatch = profile.PacingBatch
	}
	if opts.PacingBatch <= 0 {
		opts.PacingBatch = DefaultPacingBatch
	}
	if opts.PacingPause <= 0 {
		opts.PacingPause = profile.PacingPause
	}
	if opts.PacingPause <= 0 {
		opts.PacingPause = DefaultPacingPause
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		extractor: extractor,
		fetcher:   fetcher,
		profile:   profile,
		opts:      opts,
		log:       logger.With("site", profile.Name),
		state:     Init,
		products:  utils.NewOrderedSet[string](),
		result:    &Result{Site: profile.Name, State: Init},
	}
}

// Run crawls the site to completion. On a fatal error the returned Result
// still holds every record completed before it, and its State is Failed.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	if o.state != Init {
		return nil, errors.New("crawler: orchestrator already used")
	}
	o.result.Started = time.Now()
	o.log.Info("crawl started", "root", o.profile.RootURL, "mode", o.fetcher.Mode())
	o.transition(CategoryDiscovery)
	return o.loop(ctx)
}

// RunProducts skips discovery and crawls the given product URLs only. URLs
// are deduplicated without their fragment, as during pagination.
func (o *Orchestrator) RunProducts(ctx context.Context, urls []string) (*Result, error) {
	if o.state != Init {
		return nil, errors.New("crawler: orchestrator already used")
	}
	o.result.Started = time.Now()
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if resolved := utils.ResolveURL(u, u); resolved != "" {
			o.products.Add(resolved)
		}
	}
	o.queue = o.products.Items()
	o.result.ProductURLs = len(o.queue)
	o.transition(DetailFetch)
	return o.loop(ctx)
}

func (o *Orchestrator) loop(ctx context.Context) (*Result, error) {
	for {
		if o.state != Done && o.state != Failed {
			if err := ctx.Err(); err != nil {
				o.fail("", err)
			}
		}

		switch o.state {
		case CategoryDiscovery:
			o.discoverCategories(ctx)
		case ListingPagination:
			o.paginate(ctx)
		case DetailFetch:
			o.fetchDetail(ctx)
		case VariantFetch:
			o.fetchVariant(ctx)
		case Done, Failed:
			return o.finish()
		}
	}
}

func (o *Orchestrator) finish() (*Result, error) {
	o.result.State = o.state
	o.result.Finished = time.Now()
	attrs := []any{
		"state", o.state,
		"records", len(o.result.Records),
		"skipped", len(o.result.Skipped),
		"duration", o.result.Duration().Round(time.Millisecond),
	}
	if o.state == Failed {
		o.log.Error("crawl failed", append(attrs, "url", o.result.FailedURL, "error", o.err)...)
		return o.result, o.err
	}
	o.log.Info("crawl finished", attrs...)
	return o.result, nil
}

func (o *Orchestrator) transition(s State) {
	o.log.Debug("state change", "from", o.state, "to", s)
	o.state = s
}

func (o *Orchestrator) fail(url string, err error) {
	o.err = err
	o.result.FailedURL = url
	o.transition(Failed)
}

func (o *Orchestrator) skip(url string, stage State, err error) {
	o.result.Skipped = append(o.result.Skipped, Skip{URL: url, Stage: stage, Err: err})
	o.log.Warn("skipped", "stage", stage, "url", url, "error", err)
}

// fetch loads url, waiting for wait in rendered mode. Every error comes back
// as a *models.FetchError.
func (o *Orchestrator) fetch(ctx context.Context, url, wait string) (*base.Page, error) {
	page, err := o.fetcher.Fetch(ctx, base.FetchRequest{
		URL:          url,
		WaitSelector: wait,
		WaitTimeout:  o.opts.WaitTimeout,
	})
	if err != nil {
		var fetchErr *models.FetchError
		if !errors.As(err, &fetchErr) {
			err = models.NewFetchError(url, err)
		}
		return nil, err
	}
	return page, nil
}

func (o *Orchestrator) discoverCategories(ctx context.Context) {
	root := o.profile.RootURL
	page, err := o.fetch(ctx, root, o.profile.Waits.Root)
	if err != nil {
		o.fail(root, err)
		return
	}

	set := utils.NewOrderedSet[string]()
	set.AddAll(o.extractor.CategoryLinks(page)...)
	o.categories = set.Items()
	o.result.Categories = len(o.categories)
	if len(o.categories) == 0 {
		o.log.Warn("no categories found", "url", root)
	} else {
		o.log.Info("categories discovered", "count", len(o.categories))
	}
	o.transition(ListingPagination)
}

func (o *Orchestrator) paginate(ctx context.Context) {
	for i, category := range o.categories {
		if err := ctx.Err(); err != nil {
			o.fail(category, err)
			return
		}

		pages := o.pageCount(ctx, category)
		for n := 1; n <= pages; n++ {
			url := o.extractor.ListingPageURL(category, n)
			page, err := o.fetch(ctx, url, o.profile.Waits.Listing)
			o.result.ListingPages++
			if err != nil {
				o.skip(url, ListingPagination, err)
				continue
			}
			added := o.products.AddAll(o.extractor.ListingLinks(page)...)
			o.log.Info("listing page visited",
				"category", fmt.Sprintf("%d/%d", i+1, len(o.categories)),
				"page", fmt.Sprintf("%d/%d", n, pages),
				"new_links", added,
				"total_links", o.products.Len())
		}
	}

	o.queue = o.products.Items()
	o.result.ProductURLs = len(o.queue)
	if o.opts.MaxProducts > 0 && len(o.queue) > o.opts.MaxProducts {
		o.log.Info("product list capped", "found", len(o.queue), "max", o.opts.MaxProducts)
		o.queue = o.queue[:o.opts.MaxProducts]
	}
	o.transition(DetailFetch)
}

// pageCount applies the site's pagination policy to one category.
func (o *Orchestrator) pageCount(ctx context.Context, category string) int {
	p := o.profile.Pagination
	switch p.Kind {
	case base.FixedTrials:
		if p.Trials <= 0 {
			return 1
		}
		return p.Trials
	case base.LastPageIndicator:
		page, err := o.fetch(ctx, category, o.profile.Waits.LastPage)
		if err != nil {
			o.skip(category, ListingPagination, err)
			return 0
		}
		n, err := o.extractor.LastPage(page)
		if err != nil {
			o.log.Warn("last page indicator unreadable", "url", category, "error", err)
			return 0
		}
		return n
	}
	return 0
}

func (o *Orchestrator) fetchDetail(ctx context.Context) {
	if o.next >= len(o.queue) {
		o.transition(Done)
		return
	}

	url := o.queue[o.next]
	o.result.DetailFetches++
	o.log.Info("fetching product", "n", fmt.Sprintf("%d/%d", o.next+1, len(o.queue)), "url", url)

	page, err := o.fetch(ctx, url, o.profile.Waits.Detail)
	if err != nil {
		o.skip(url, DetailFetch, err)
		o.advance(ctx)
		return
	}

	b := records.NewBuilder(o.profile.Brand, url, o.profile.GroupByColor)
	variants, err := o.extractor.Detail(page, b)
	if err != nil {
		o.skip(url, DetailFetch, err)
		o.advance(ctx)
		return
	}

	if len(variants) == 0 {
		o.complete(ctx, b)
		return
	}
	o.current = b
	o.variants = variants
	o.vnext = 0
	o.transition(VariantFetch)
}

func (o *Orchestrator) fetchVariant(ctx context.Context) {
	b := o.current
	if o.vnext >= len(o.variants) {
		o.current, o.variants = nil, nil
		o.transition(DetailFetch)
		o.complete(ctx, b)
		return
	}

	id := o.variants[o.vnext]
	o.vnext++
	param := o.profile.VariantParam
	if param == "" {
		param = defaultVariantParam
	}
	url := utils.WithQueryParam(b.URL(), param, id)

	page, err := o.fetch(ctx, url, o.profile.Waits.Variant)
	if err == nil {
		var fragment records.VariantFragment
		fragment, err = o.extractor.Variant(page, id)
		if err == nil {
			b.AddVariant(fragment)
			return
		}
	}

	// A broken variant drops the whole product.
	o.skip(b.URL(), VariantFetch, fmt.Errorf("variant %s: %w", id, err))
	o.current, o.variants = nil, nil
	o.transition(DetailFetch)
	o.advance(ctx)
}

// complete builds the record of the current product and moves on.
func (o *Orchestrator) complete(ctx context.Context, b *records.Builder) {
	record, err := b.Build()
	if err != nil {
		o.skip(b.URL(), DetailFetch, err)
	} else {
		o.result.Records = append(o.result.Records, record)
	}
	o.advance(ctx)
}

// advance moves to the next product, pausing after every full batch of
// rendered detail fetches.
func (o *Orchestrator) advance(ctx context.Context) {
	o.next++
	if o.fetcher.Mode() != base.ModeRendered || o.next >= len(o.queue) {
		return
	}
	if o.result.DetailFetches%o.opts.PacingBatch != 0 {
		return
	}

	o.log.Info("pacing pause", "after", o.result.DetailFetches, "pause", o.opts.PacingPause)
	o.result.Pauses++
	if err := o.opts.Sleep(ctx, o.opts.PacingPause); err != nil {
		o.fail("", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
