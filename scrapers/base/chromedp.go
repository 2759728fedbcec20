package base

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/raushankrgupta/catalog-crawler/models"
)

// BrowserOptions configures the rendered fetchers.
type BrowserOptions struct {
	Headless   bool
	NoSandbox  bool
	BrowserBin string
	// Stealth hides common automation fingerprints. Only the rod engine
	// supports it.
	Stealth bool
	// PageTimeout bounds one whole page load, navigation included.
	PageTimeout time.Duration
}

// DefaultPageTimeout applies when BrowserOptions.PageTimeout is unset.
const DefaultPageTimeout = 2 * time.Minute

func (o BrowserOptions) pageTimeout() time.Duration {
	if o.PageTimeout <= 0 {
		return DefaultPageTimeout
	}
	return o.PageTimeout
}

// pageError reports err for url, naming the page timeout when pageCtx ran
// out of time.
func pageError(pageCtx context.Context, url string, limit time.Duration, err error) *models.FetchError {
	if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
		return models.NewFetchError(url, fmt.Errorf("page not loaded within %s: %w", limit, context.DeadlineExceeded))
	}
	return models.NewFetchError(url, err)
}

var extraHeaders = network.Headers{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
}

// ChromeDPFetcher renders pages in one headless Chrome owned by the fetcher.
// Each Fetch opens a fresh tab inside that browser.
type ChromeDPFetcher struct {
	timeout       time.Duration
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewChromeDPFetcher starts the browser. Close must be called to stop it.
func NewChromeDPFetcher(opts BrowserOptions) (*ChromeDPFetcher, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("ignore-certificate-errors", true),
	)
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	if opts.BrowserBin != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.BrowserBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// First Run launches the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("chromedp start: %w", err)
	}
	slog.Info("chromedp browser started")

	return &ChromeDPFetcher{
		timeout:       opts.pageTimeout(),
		browserCtx:    browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}, nil
}

func (f *ChromeDPFetcher) Mode() FetchMode { return ModeRendered }

func (f *ChromeDPFetcher) Fetch(ctx context.Context, req FetchRequest) (*Page, error) {
	pageCtx, cancelPage := context.WithTimeout(f.browserCtx, f.timeout)
	defer cancelPage()
	tabCtx, cancelTab := chromedp.NewContext(pageCtx)
	defer cancelTab()

	// Stop the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	if err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extraHeaders),
		chromedp.Navigate(req.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, pageError(pageCtx, req.URL, f.timeout, fmt.Errorf("chromedp navigation error: %w", err))
	}

	if req.WaitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(tabCtx, req.waitTimeout())
		err := chromedp.Run(waitCtx, chromedp.WaitReady(req.WaitSelector, chromedp.ByQuery))
		cancelWait()
		if err != nil {
			return nil, pageError(pageCtx, req.URL, f.timeout, fmt.Errorf("wait for %q: %w", req.WaitSelector, err))
		}
	}

	var htmlContent string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery)); err != nil {
		return nil, pageError(pageCtx, req.URL, f.timeout, fmt.Errorf("chromedp read error: %w", err))
	}

	page, err := NewPage(req.URL, htmlContent)
	if err != nil {
		return nil, models.NewFetchError(req.URL, err)
	}
	return page, nil
}

func (f *ChromeDPFetcher) Close() error {
	f.cancelBrowser()
	f.cancelAlloc()
	slog.Info("chromedp browser stopped")
	return nil
}
