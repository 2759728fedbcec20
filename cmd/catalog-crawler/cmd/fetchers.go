package cmd

import (
	"context"
	"fmt"

	"github.com/raushankrgupta/catalog-crawler/crawler"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
)

// fetcherFactory opens fetchers per configuration. Rendered fetches use the
// browser engine named by RENDER_ENGINE.
func fetcherFactory(ports *base.PortManager) crawler.FetcherFactory {
	return func(ctx context.Context, mode base.FetchMode) (base.PageFetcher, error) {
		switch mode {
		case base.ModeStatic:
			return base.NewHTTPFetcher(cfg.Crawl.RequestTimeout, cfg.Crawl.StaticRPS), nil
		case base.ModeRendered:
			opts := base.BrowserOptions{
				Headless:    cfg.Browser.Headless,
				NoSandbox:   cfg.Browser.NoSandbox,
				BrowserBin:  cfg.Browser.BrowserBin,
				Stealth:     cfg.Browser.Stealth,
				PageTimeout: cfg.Crawl.RequestTimeout,
			}
			var (
				f   base.PageFetcher
				err error
			)
			switch cfg.Browser.Engine {
			case "chromedp":
				f, err = base.NewChromeDPFetcher(opts)
			case "selenium":
				f, err = base.NewSeleniumFetcher(cfg.Browser.ChromeDriverPath, ports, opts)
			case "rod":
				f, err = base.NewRodFetcher(opts)
			default:
				return nil, fmt.Errorf("unknown render engine %q", cfg.Browser.Engine)
			}
			if err != nil {
				return nil, fmt.Errorf("start %s browser: %w", cfg.Browser.Engine, err)
			}
			return f, nil
		}
		return nil, fmt.Errorf("unknown fetch mode %q", mode)
	}
}
