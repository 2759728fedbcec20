package base

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/raushankrgupta/catalog-crawler/models"
)

// RodFetcher renders pages with a rod-controlled browser owned by the fetcher.
type RodFetcher struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	stealth  bool
	timeout  time.Duration
}

// NewRodFetcher launches and connects to a browser. Close must be called.
func NewRodFetcher(opts BrowserOptions) (*RodFetcher, error) {
	l := launcher.New().
		Headless(opts.Headless).
		NoSandbox(opts.NoSandbox)
	if opts.BrowserBin != "" {
		l = l.Bin(opts.BrowserBin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	slog.Info("rod browser launched", "controlURL", controlURL)

	return &RodFetcher{launcher: l, browser: browser, stealth: opts.Stealth, timeout: opts.pageTimeout()}, nil
}

func (f *RodFetcher) Mode() FetchMode { return ModeRendered }

func (f *RodFetcher) Fetch(ctx context.Context, req FetchRequest) (*Page, error) {
	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewFetchError(req.URL, fmt.Errorf("open tab: %w", err))
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			slog.Warn("rod: failed to close tab", "url", req.URL, "error", closeErr)
		}
	}()

	if f.stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "url", req.URL, "error", err)
		}
	}

	pageCtx, cancelPage := context.WithTimeout(ctx, f.timeout)
	defer cancelPage()

	p := page.Context(pageCtx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, pageError(pageCtx, req.URL, f.timeout, fmt.Errorf("navigation error: %w", err))
	}
	if err := p.WaitLoad(); err != nil {
		return nil, pageError(pageCtx, req.URL, f.timeout, fmt.Errorf("wait load: %w", err))
	}

	if req.WaitSelector != "" {
		waitPage := p.Timeout(req.waitTimeout())
		_, err := waitPage.Element(req.WaitSelector)
		waitPage.CancelTimeout()
		if err != nil {
			return nil, pageError(pageCtx, req.URL, f.timeout, fmt.Errorf("wait for %q: %w", req.WaitSelector, err))
		}
	}

	html, err := p.HTML()
	if err != nil {
		return nil, pageError(pageCtx, req.URL, f.timeout, fmt.Errorf("failed to extract page HTML: %w", err))
	}

	result, err := NewPage(req.URL, html)
	if err != nil {
		return nil, models.NewFetchError(req.URL, err)
	}
	return result, nil
}

func (f *RodFetcher) Close() error {
	err := f.browser.Close()
	f.launcher.Kill()
	slog.Info("rod browser closed")
	if err != nil {
		return fmt.Errorf("close browser: %w", err)
	}
	return nil
}
