package base

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/catalog-crawler/models"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPFetcher is the static fetch mode: one GET per page, no script execution.
type HTTPFetcher struct {
	Client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher. rps <= 0 leaves requests unthrottled.
func NewHTTPFetcher(timeout time.Duration, rps float64) *HTTPFetcher {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (f *HTTPFetcher) Mode() FetchMode { return ModeStatic }

// Fetch fetches the URL and returns a goquery document via standard HTTP.
func (f *HTTPFetcher) Fetch(ctx context.Context, fr FetchRequest) (*Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, models.NewFetchError(fr.URL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fr.URL, nil)
	if err != nil {
		return nil, models.NewFetchError(fr.URL, err)
	}

	// Common headers to mimic a real browser
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")

	res, err := f.Client.Do(req)
	if err != nil {
		return nil, models.NewFetchError(fr.URL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &models.FetchError{
			URL:        fr.URL,
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status),
		}
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, models.NewFetchError(fr.URL, err)
	}

	slog.Debug("static fetch", "url", fr.URL, "status", res.StatusCode)
	return &Page{URL: fr.URL, Doc: doc}, nil
}

func (f *HTTPFetcher) Close() error {
	f.Client.CloseIdleConnections()
	return nil
}
