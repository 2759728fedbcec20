package lechocolat

import (
	"fmt"
	"strings"

	"github.com/raushankrgupta/catalog-crawler/records"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/raushankrgupta/catalog-crawler/utils"
)

const (
	categorySelector = `li[class="siteMenuItem"][data-depth="2"] a`
	listingSelector  = `section[class="productMiniature__data"] a`
	imageSelector    = `[class="productImages__item keen-slider__slide"] a`
	descSelector     = `[id="product_tab_informations"]`
	cartSelector     = `button[class="productActions__addToCart button add-to-cart add"]`
)

// LeChocolatScraper handles Le Chocolat Alain Ducasse. Categories list every
// product on one page and products have no variant selectors.
type LeChocolatScraper struct{}

func NewLeChocolatScraper() *LeChocolatScraper {
	return &LeChocolatScraper{}
}

func (s *LeChocolatScraper) Profile() base.Profile {
	return base.Profile{
		Name:       "lechocolat",
		Brand:      "Le Chocolat - Alain Ducasse",
		RootURL:    "https://www.lechocolat-alainducasse.com/uk/",
		Mode:       base.ModeStatic,
		Pagination: base.Pagination{Kind: base.FixedTrials, Trials: 1},
		Waits: base.WaitSelectors{
			Root:    categorySelector,
			Listing: listingSelector,
			Detail:  "h1",
		},
	}
}

func (s *LeChocolatScraper) CanScrape(url string) bool {
	return strings.Contains(utils.HostOf(url), "lechocolat-alainducasse.com")
}

func (s *LeChocolatScraper) CategoryLinks(page *base.Page) []string {
	return page.Links(categorySelector)
}

// ListingPageURL returns the category page itself; there is only page 1.
func (s *LeChocolatScraper) ListingPageURL(categoryURL string, n int) string {
	return categoryURL
}

func (s *LeChocolatScraper) LastPage(page *base.Page) (int, error) {
	return 0, fmt.Errorf("lechocolat: categories are not paginated")
}

func (s *LeChocolatScraper) ListingLinks(page *base.Page) []string {
	return page.Links(listingSelector)
}

func (s *LeChocolatScraper) Detail(page *base.Page, b *records.Builder) ([]string, error) {
	title, err := base.RequiredText(page, "title", "h1", utils.NormalizeText)
	if err != nil {
		return nil, err
	}
	b.SetTitle(title)

	b.AddImages(page.Links(imageSelector)...)
	b.SetDescription(base.OptionalText(page, "description", descSelector, utils.NormalizeText))

	// The add-to-cart button reads "Add to cart - £16.00".
	price := base.OptionalText(page, "price", cartSelector, func(text string) string {
		return utils.StripSpaces(utils.LastSegment(text, "-"))
	})
	if price != nil {
		b.AddSalePrices(*price)
		b.AddPrices(*price)
	}

	b.SetColors(nil)
	return nil, nil
}

func (s *LeChocolatScraper) Variant(page *base.Page, variantID string) (records.VariantFragment, error) {
	return records.VariantFragment{}, fmt.Errorf("lechocolat: products have no variants (asked for %q)", variantID)
}
