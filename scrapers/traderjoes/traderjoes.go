package traderjoes

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/raushankrgupta/catalog-crawler/records"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/raushankrgupta/catalog-crawler/utils"
)

const (
	categorySelector = `li[class*="item_linkLevel_2__2W4g_"] a`
	lastPageSelector = `[aria-label*="this is the last page"]`
	listingSelector  = `h2[class*="ProductCard_card__title"] a`
	heroSelector     = `[class*="HeroImage_heroImage"] img`
	descSelector     = `[class*="ProductDetails_main__description"]`
	priceSelector    = `[class*="ProductDetails_main"] [class*="ProductPrice_productPrice__price"]`

	// newProductsCategory lists only new arrivals and needs its filter kept
	// while paging.
	newProductsCategory = "products-2"
)

// TraderJoesScraper handles traderjoes.com. The storefront is a client-side
// app, so every page has to be rendered before it can be read.
type TraderJoesScraper struct{}

func NewTraderJoesScraper() *TraderJoesScraper {
	return &TraderJoesScraper{}
}

func (s *TraderJoesScraper) Profile() base.Profile {
	return base.Profile{
		Name:       "traderjoes",
		Brand:      "Trader Joe's",
		RootURL:    "https://www.traderjoes.com/",
		Mode:       base.ModeRendered,
		Pagination: base.Pagination{Kind: base.LastPageIndicator},
		Waits: base.WaitSelectors{
			Root:     categorySelector,
			LastPage: lastPageSelector,
			Listing:  listingSelector,
			Detail:   "h1",
		},
		PacingBatch: 10,
		PacingPause: 10 * time.Second,
	}
}

func (s *TraderJoesScraper) CanScrape(url string) bool {
	return strings.Contains(utils.HostOf(url), "traderjoes.com")
}

func (s *TraderJoesScraper) CategoryLinks(page *base.Page) []string {
	return page.Links(categorySelector)
}

// ListingPageURL encodes the page number in the JSON "filters" parameter the
// storefront reads.
func (s *TraderJoesScraper) ListingPageURL(categoryURL string, n int) string {
	filters := map[string]any{"page": n}
	if strings.Contains(categoryURL, newProductsCategory) {
		filters["areNewProducts"] = true
	}
	encoded, _ := json.Marshal(filters)

	u, err := url.Parse(categoryURL)
	if err != nil {
		return fmt.Sprintf("%s?filters=%s", categoryURL, url.QueryEscape(string(encoded)))
	}
	u.RawQuery = "filters=" + url.QueryEscape(string(encoded))
	return u.String()
}

// LastPage reads the pager's last button, labelled like
// "Go to page 12, this is the last page".
func (s *TraderJoesScraper) LastPage(page *base.Page) (int, error) {
	label, ok := page.Find(lastPageSelector).First().Attr("aria-label")
	if !ok {
		return 0, fmt.Errorf("traderjoes: no last page indicator on %s", page.URL)
	}
	fields := strings.Fields(label)
	if len(fields) < 4 {
		return 0, fmt.Errorf("traderjoes: unexpected last page label %q", label)
	}
	n, err := strconv.Atoi(strings.ReplaceAll(fields[3], ",", ""))
	if err != nil {
		return 0, fmt.Errorf("traderjoes: last page label %q: %w", label, err)
	}
	return n, nil
}

func (s *TraderJoesScraper) ListingLinks(page *base.Page) []string {
	return page.Links(listingSelector)
}

func (s *TraderJoesScraper) Detail(page *base.Page, b *records.Builder) ([]string, error) {
	title, err := base.RequiredText(page, "title", "h1", utils.NormalizeText)
	if err != nil {
		return nil, err
	}
	b.SetTitle(title)

	image := base.OptionalAttr(page, "image", heroSelector, "srcoriginal")
	if image == nil {
		image = base.OptionalAttr(page, "image", heroSelector, "src")
	}
	if image != nil {
		b.AddImages(*image)
	}

	b.SetDescription(base.OptionalText(page, "description", descSelector, utils.NormalizeText))

	price := base.OptionalText(page, "price", priceSelector, func(text string) string {
		return utils.StripSpaces(utils.LastSegment(text, "-"))
	})
	if price != nil {
		b.AddSalePrices(*price)
		b.AddPrices(*price)
	}

	b.SetColors(nil)
	return nil, nil
}

func (s *TraderJoesScraper) Variant(page *base.Page, variantID string) (records.VariantFragment, error) {
	return records.VariantFragment{}, fmt.Errorf("traderjoes: products have no variants (asked for %q)", variantID)
}
