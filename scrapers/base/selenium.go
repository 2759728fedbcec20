package base

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

// SeleniumFetcher renders pages through a chromedriver service and a single
// WebDriver session that live as long as the fetcher.
type SeleniumFetcher struct {
	ports   *PortManager
	port    int
	service *selenium.Service
	driver  selenium.WebDriver
}

// NewSeleniumFetcher starts chromedriver on a port reserved from ports and
// opens a WebDriver session. Close must be called to stop both.
func NewSeleniumFetcher(driverPath string, ports *PortManager, opts BrowserOptions) (*SeleniumFetcher, error) {
	port, err := ports.GetPort()
	if err != nil {
		return nil, fmt.Errorf("port error: %w", err)
	}

	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		ports.ReleasePort(port)
		return nil, fmt.Errorf("error starting Chrome driver service: %w", err)
	}

	args := []string{
		"--disable-dev-shm-usage",
		"--disable-gpu",
		"--ignore-certificate-errors",
		"--log-level=3",
		"--window-size=1920,1080",
		fmt.Sprintf("--user-agent=%s", userAgent),
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}
	if opts.NoSandbox {
		args = append(args, "--no-sandbox")
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{
		Path:            opts.BrowserBin,
		Args:            args,
		ExcludeSwitches: []string{"enable-automation"},
	})

	driver, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		ports.ReleasePort(port)
		return nil, fmt.Errorf("error creating WebDriver: %w", err)
	}
	if err := driver.SetPageLoadTimeout(opts.pageTimeout()); err != nil {
		slog.Warn("selenium: could not set page load timeout", "error", err)
	}
	slog.Info("selenium session started", "port", port)

	return &SeleniumFetcher{
		ports:   ports,
		port:    port,
		service: service,
		driver:  driver,
	}, nil
}

func (f *SeleniumFetcher) Mode() FetchMode { return ModeRendered }

func (f *SeleniumFetcher) Fetch(ctx context.Context, req FetchRequest) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewFetchError(req.URL, err)
	}

	if err := f.driver.Get(req.URL); err != nil {
		return nil, models.NewFetchError(req.URL, fmt.Errorf("navigation error: %w", err))
	}

	if req.WaitSelector != "" {
		present := func(wd selenium.WebDriver) (bool, error) {
			elems, err := wd.FindElements(selenium.ByCSSSelector, req.WaitSelector)
			if err != nil {
				return false, nil
			}
			return len(elems) > 0, nil
		}
		if err := f.driver.WaitWithTimeout(present, req.waitTimeout()); err != nil {
			return nil, models.NewFetchError(req.URL, fmt.Errorf("wait for %q: %v: %w", req.WaitSelector, err, context.DeadlineExceeded))
		}
	}

	html, err := f.driver.PageSource()
	if err != nil {
		return nil, models.NewFetchError(req.URL, fmt.Errorf("page source error: %w", err))
	}

	page, err := NewPage(req.URL, html)
	if err != nil {
		return nil, models.NewFetchError(req.URL, err)
	}
	return page, nil
}

func (f *SeleniumFetcher) Close() error {
	defer f.ports.ReleasePort(f.port)

	quitErr := f.driver.Quit()
	stopErr := f.service.Stop()
	slog.Info("selenium session stopped", "port", f.port)
	if quitErr != nil {
		return fmt.Errorf("quit webdriver: %w", quitErr)
	}
	if stopErr != nil {
		return fmt.Errorf("stop chromedriver: %w", stopErr)
	}
	return nil
}
