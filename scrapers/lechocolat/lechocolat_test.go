package lechocolat

import (
	"testing"

	"github.com/raushankrgupta/catalog-crawler/records"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/stretchr/testify/require"
)

const productURL = "https://www.lechocolat-alainducasse.com/uk/chocolate-bars/dark-bar-75"

func TestDetail(t *testing.T) {
	s := NewLeChocolatScraper()
	page, err := base.NewPage(productURL, `<html><body>
<h1>Dark Bar 75%</h1>
<div class="productImages__item keen-slider__slide"><a href="/img/bar.jpg"></a></div>
<button class="productActions__addToCart button add-to-cart add">Add to cart - £ 16.00</button>
</body></html>`)
	require.NoError(t, err)

	b := records.NewBuilder(s.Profile().Brand, productURL, false)
	variants, err := s.Detail(page, b)
	require.NoError(t, err)
	require.Empty(t, variants)

	record, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, "dark-bar-75", record.ProductID)
	require.Equal(t, "Le Chocolat - Alain Ducasse", record.Brand)
	require.Nil(t, record.Description)
	require.Equal(t, []string{"£16.00"}, record.SalePrices)
	require.Equal(t, []string{"https://www.lechocolat-alainducasse.com/img/bar.jpg"}, record.Images)
	require.Len(t, record.Models, 1)
	require.Nil(t, record.Models[0].Color)
	require.Empty(t, record.Models[0].Variants)
}

func TestListing(t *testing.T) {
	s := NewLeChocolatScraper()
	category := "https://www.lechocolat-alainducasse.com/uk/chocolate-bars"
	require.Equal(t, category, s.ListingPageURL(category, 1))

	root, err := base.NewPage(s.Profile().RootURL, `<ul>
<li class="siteMenuItem" data-depth="1"><a href="/uk/gifts">Gifts</a></li>
<li class="siteMenuItem" data-depth="2"><a href="/uk/chocolate-bars">Bars</a></li>
</ul>`)
	require.NoError(t, err)
	require.Equal(t, []string{category}, s.CategoryLinks(root))

	listing, err := base.NewPage(category, `<section class="productMiniature__data"><a href="chocolate-bars/dark-bar-75">Dark</a></section>`)
	require.NoError(t, err)
	require.Equal(t, []string{productURL}, s.ListingLinks(listing))
}
