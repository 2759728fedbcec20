package fortune

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/records"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/stretchr/testify/require"
)

const productURL = "https://foreignfortune.com/collections/tees/products/lion-tee"

const detailHTML = `<html><body>
<h1> Lion   Tee </h1>
<div class="product-single__thumbnails-wrapper">
  <a href="//cdn.shopify.com/lion-front.jpg"></a>
  <a href="//cdn.shopify.com/lion-back.jpg"></a>
</div>
<span id="ProductPrice-product-template"> $ 35.00 </span>
<div class="product-single__description rte"><p>Soft cotton tee.</p></div>
<label for="SingleOptionSelector-0">Color</label>
<select id="SingleOptionSelector-0"><option selected>Black</option><option>White</option></select>
<label for="SingleOptionSelector-1">Size</label>
<select id="SingleOptionSelector-1"><option selected>S</option><option>M</option></select>
<select id="ProductSelect-product-template">
  <option value="111">Black / S</option>
  <option value="112">Black / M</option>
  <option value="111">Black / S</option>
  <option value="">--</option>
</select>
</body></html>`

const variantHTML = `<html><body>
<h1>Lion Tee</h1>
<div class="product-single__thumbnails-wrapper"><a href="/files/lion-black-m.jpg"></a></div>
<span id="ProductPrice-product-template">$30.00</span>
<label for="SingleOptionSelector-0">Color</label>
<select id="SingleOptionSelector-0"><option selected>Black</option><option>White</option></select>
<label for="SingleOptionSelector-1">Size</label>
<select id="SingleOptionSelector-1"><option>S</option><option selected>M</option></select>
</body></html>`

func TestDetail(t *testing.T) {
	s := NewFortuneScraper()
	page, err := base.NewPage(productURL, detailHTML)
	require.NoError(t, err)

	b := records.NewBuilder(s.Profile().Brand, productURL, s.Profile().GroupByColor)
	variants, err := s.Detail(page, b)
	require.NoError(t, err)
	require.Equal(t, []string{"111", "112"}, variants)

	record, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, "lion-tee", record.ProductID)
	require.Equal(t, "Lion Tee", *record.Title)
	require.Equal(t, "Soft cotton tee.", *record.Description)
	require.Equal(t, []string{"$35.00"}, record.SalePrices)
	require.Equal(t, []string{"$35.00"}, record.Prices)
	require.Equal(t, []string{"https://cdn.shopify.com/lion-front.jpg", "https://cdn.shopify.com/lion-back.jpg"}, record.Images)
	require.Equal(t, "https://cdn.shopify.com/lion-front.jpg", *record.PrimaryImage)
	require.Len(t, record.Models, 1)
	require.Equal(t, []string{"Black", "White"}, record.Models[0].Color)
}

func TestDetailMissingTitle(t *testing.T) {
	s := NewFortuneScraper()
	page, err := base.NewPage(productURL, `<html><body><span id="ProductPrice-product-template">$1</span></body></html>`)
	require.NoError(t, err)

	_, err = s.Detail(page, records.NewBuilder(s.Profile().Brand, productURL, false))
	var extractErr *models.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	require.Equal(t, "title", extractErr.Field)
}

func TestVariant(t *testing.T) {
	s := NewFortuneScraper()
	page, err := base.NewPage(productURL+"?variant=112", variantHTML)
	require.NoError(t, err)

	fragment, err := s.Variant(page, "112")
	require.NoError(t, err)

	image := "https://foreignfortune.com/files/lion-black-m.jpg"
	size := "M"
	price := "$30.00"
	want := records.VariantFragment{
		Variant: models.Variant{ID: "112", Image: &image, Size: &size, Prices: &price},
		Color:   "Black",
	}
	if diff := cmp.Diff(want, fragment); diff != "" {
		t.Errorf("variant mismatch (-want +got):\n%s", diff)
	}
}

func TestListing(t *testing.T) {
	s := NewFortuneScraper()
	require.Equal(t, "https://foreignfortune.com/collections/tees?page=2", s.ListingPageURL("https://foreignfortune.com/collections/tees", 2))

	page, err := base.NewPage("https://foreignfortune.com/collections/tees?page=1", `<html><body>
<a class="grid-view-item product-card__link" href="/collections/tees/products/lion-tee">Lion</a>
<a class="grid-view-item product-card__link" href="/collections/tees/products/wolf-tee#reviews">Wolf</a>
</body></html>`)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://foreignfortune.com/collections/tees/products/lion-tee",
		"https://foreignfortune.com/collections/tees/products/wolf-tee",
	}, s.ListingLinks(page))

	_, err = s.LastPage(page)
	require.Error(t, err)
	require.True(t, s.CanScrape("https://www.foreignfortune.com/products/x"))
	require.False(t, s.CanScrape("https://www.traderjoes.com/"))
}
