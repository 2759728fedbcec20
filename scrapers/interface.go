package scrapers

import (
	"github.com/raushankrgupta/catalog-crawler/records"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
)

// PageExtractor is the per-site extraction strategy. Every method works
// purely on page content; none of them fetch.
type PageExtractor interface {
	Profile() base.Profile
	// CanScrape reports whether url belongs to the site.
	CanScrape(url string) bool
	// CategoryLinks returns absolute category URLs from the site root.
	CategoryLinks(page *base.Page) []string
	// ListingPageURL builds the URL of listing page n (1-based) of a category.
	ListingPageURL(categoryURL string, n int) string
	// LastPage reads the total page count from a category page. Only used with
	// the LastPageIndicator policy.
	LastPage(page *base.Page) (int, error)
	// ListingLinks returns absolute product detail URLs from a listing page.
	ListingLinks(page *base.Page) []string
	// Detail fills b from a detail page and returns the variant selector
	// values found on it. A missing mandatory field is an ExtractionError.
	Detail(page *base.Page, b *records.Builder) ([]string, error)
	// Variant extracts one variant from its sub-page.
	Variant(page *base.Page, variantID string) (records.VariantFragment, error)
}
