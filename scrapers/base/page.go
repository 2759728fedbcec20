package base

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FetchMode selects how pages are retrieved for a site.
type FetchMode string

const (
	// ModeStatic performs a single HTTP request per page.
	ModeStatic FetchMode = "static"
	// ModeRendered loads the page in a browser and waits for a condition.
	ModeRendered FetchMode = "rendered"
)

// ParseFetchMode maps a config value onto a FetchMode.
func ParseFetchMode(s string) (FetchMode, error) {
	switch FetchMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeStatic:
		return ModeStatic, nil
	case ModeRendered:
		return ModeRendered, nil
	}
	return "", fmt.Errorf("unknown fetch mode %q", s)
}

// Page is a fetched and parsed document together with the URL it came from.
type Page struct {
	URL string
	Doc *goquery.Document
}

// NewPage parses html into a Page.
func NewPage(url, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return &Page{URL: url, Doc: doc}, nil
}

// FetchRequest describes one page load.
type FetchRequest struct {
	URL string
	// WaitSelector is a CSS selector that must be present before the rendered
	// DOM is captured. Static fetchers ignore it.
	WaitSelector string
	// WaitTimeout bounds the wait for WaitSelector.
	WaitTimeout time.Duration
}

// PageFetcher retrieves pages. Every failure is reported as a
// *models.FetchError.
type PageFetcher interface {
	Mode() FetchMode
	Fetch(ctx context.Context, req FetchRequest) (*Page, error)
	// Close releases the browser or connections held by the fetcher.
	Close() error
}

// DefaultWaitTimeout bounds a rendered wait when the request sets none.
const DefaultWaitTimeout = 10 * time.Second

func (r FetchRequest) waitTimeout() time.Duration {
	if r.WaitTimeout <= 0 {
		return DefaultWaitTimeout
	}
	return r.WaitTimeout
}
