package fortune

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/catalog-crawler/records"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/raushankrgupta/catalog-crawler/utils"
)

const (
	categorySelector = `nav > ul[class*="site-nav"] > li > a`
	listingSelector  = `a[class*="product-card__link"]`
	imageSelector    = `[class*="thumbnails-wrapper"] a`
	descSelector     = `.product-single__description.rte`
	priceSelector    = `[id="ProductPrice-product-template"]`
	variantSelector  = `[id="ProductSelect-product-template"] option`
	optionLabels     = `[for*="SingleOptionSelector-"]`
)

// FortuneScraper handles the HTML parsing for Foreign Fortune Clothing, a
// Shopify storefront served as static HTML.
type FortuneScraper struct{}

func NewFortuneScraper() *FortuneScraper {
	return &FortuneScraper{}
}

func (s *FortuneScraper) Profile() base.Profile {
	return base.Profile{
		Name:         "fortune",
		Brand:        "Foreign Fortune Clothing",
		RootURL:      "https://foreignfortune.com/",
		Mode:         base.ModeStatic,
		Pagination:   base.Pagination{Kind: base.FixedTrials, Trials: 3},
		VariantParam: "variant",
		Waits: base.WaitSelectors{
			Root:    categorySelector,
			Listing: listingSelector,
			Detail:  "h1",
			Variant: priceSelector,
		},
	}
}

func (s *FortuneScraper) CanScrape(url string) bool {
	return strings.Contains(utils.HostOf(url), "foreignfortune.com")
}

func (s *FortuneScraper) CategoryLinks(page *base.Page) []string {
	return page.Links(categorySelector)
}

// ListingPageURL appends ?page=n; the storefront gives no page count.
func (s *FortuneScraper) ListingPageURL(categoryURL string, n int) string {
	return utils.WithQueryParam(categoryURL, "page", fmt.Sprint(n))
}

func (s *FortuneScraper) LastPage(page *base.Page) (int, error) {
	return 0, fmt.Errorf("fortune: listing pages carry no last-page indicator")
}

func (s *FortuneScraper) ListingLinks(page *base.Page) []string {
	return page.Links(listingSelector)
}

func (s *FortuneScraper) Detail(page *base.Page, b *records.Builder) ([]string, error) {
	// 1. Title
	title, err := base.RequiredText(page, "title", "h1", utils.NormalizeText)
	if err != nil {
		return nil, err
	}
	b.SetTitle(title)

	// 2. Images, in thumbnail order
	b.AddImages(page.Links(imageSelector)...)

	// 3. Description
	b.SetDescription(base.OptionalText(page, "description", descSelector, utils.NormalizeText))

	// 4. Price. The storefront shows one price, used as both sale and list price.
	if price := base.OptionalText(page, "price", priceSelector, utils.StripSpaces); price != nil {
		b.AddSalePrices(*price)
		b.AddPrices(*price)
	}

	// 5. Colors offered by the "Color" option select
	var colors []string
	labelledSelect(page, "Color").Find("option").Each(func(i int, o *goquery.Selection) {
		if c := utils.NormalizeText(o.Text()); c != "" {
			colors = append(colors, c)
		}
	})
	b.SetColors(colors)

	// 6. Variant selector values
	ids := utils.NewOrderedSet[string]()
	page.Find(variantSelector).Each(func(i int, o *goquery.Selection) {
		if v := strings.TrimSpace(o.AttrOr("value", "")); v != "" {
			ids.Add(v)
		}
	})
	return ids.Items(), nil
}

func (s *FortuneScraper) Variant(page *base.Page, variantID string) (records.VariantFragment, error) {
	fragment := records.VariantFragment{}
	fragment.Variant.ID = variantID
	fragment.Variant.Image = base.OptionalAttr(page, "variant image", imageSelector, "href")
	fragment.Variant.Prices = base.OptionalText(page, "variant price", priceSelector, utils.StripSpaces)
	fragment.Variant.Size = selectedOption(page, "Size")
	fragment.Color = utils.Deref(selectedOption(page, "Color"))
	return fragment, nil
}

// labelledSelect returns the <select> whose label text contains name.
func labelledSelect(page *base.Page, name string) *goquery.Selection {
	sel := page.Doc.FindNodes()
	page.Find(optionLabels).EachWithBreak(func(i int, label *goquery.Selection) bool {
		if !strings.Contains(label.Text(), name) {
			return true
		}
		id := label.AttrOr("for", "")
		if id == "" {
			return true
		}
		sel = page.Find(fmt.Sprintf(`select[id="%s"]`, id))
		return false
	})
	return sel
}

// selectedOption returns the selected value of the select labelled name.
func selectedOption(page *base.Page, name string) *string {
	opt := labelledSelect(page, name).Find("option[selected]").First()
	if opt.Length() == 0 {
		return nil
	}
	return utils.StringPtr(utils.NormalizeText(opt.Text()))
}
