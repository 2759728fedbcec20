package traderjoes

import (
	"testing"

	"github.com/raushankrgupta/catalog-crawler/records"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/stretchr/testify/require"
)

func TestListingPageURL(t *testing.T) {
	s := NewTraderJoesScraper()
	require.Equal(t,
		"https://www.traderjoes.com/home/products/category/food-8?filters=%7B%22page%22%3A3%7D",
		s.ListingPageURL("https://www.traderjoes.com/home/products/category/food-8", 3))
	require.Equal(t,
		"https://www.traderjoes.com/home/products/category/products-2?filters=%7B%22areNewProducts%22%3Atrue%2C%22page%22%3A1%7D",
		s.ListingPageURL("https://www.traderjoes.com/home/products/category/products-2", 1))
}

func TestLastPage(t *testing.T) {
	s := NewTraderJoesScraper()
	tests := []struct {
		name    string
		html    string
		want    int
		wantErr bool
	}{
		{"plain", `<button aria-label="Go to page 12, this is the last page">12</button>`, 12, false},
		{"thousands", `<button aria-label="Go to page 1,024, this is the last page">1024</button>`, 1024, false},
		{"missing", `<button aria-label="Go to page 2">2</button>`, 0, true},
		{"garbled", `<button aria-label="this is the last page">?</button>`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := base.NewPage("https://www.traderjoes.com/home/products/category/food-8", tt.html)
			require.NoError(t, err)
			got, err := s.LastPage(page)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDetail(t *testing.T) {
	s := NewTraderJoesScraper()
	url := "https://www.traderjoes.com/home/products/pdp/mandarin-orange-chicken-074964"
	page, err := base.NewPage(url, `<html><body>
<h1 class="ProductDetails_main__title__14Cnm">Mandarin Orange Chicken</h1>
<div class="HeroImage_heroImage__2aBcd"><img srcoriginal="/content/dam/trjo/chicken.png" src="data:,"></div>
<div class="ProductDetails_main__3r2bY">
  <div class="ProductPrice_productPrice__1Rq1r"><span class="ProductPrice_productPrice__price__3-50j">$ 5.49</span></div>
</div>
</body></html>`)
	require.NoError(t, err)

	b := records.NewBuilder(s.Profile().Brand, url, false)
	variants, err := s.Detail(page, b)
	require.NoError(t, err)
	require.Empty(t, variants)

	record, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, "mandarin-orange-chicken-074964", record.ProductID)
	require.Equal(t, []string{"https://www.traderjoes.com/content/dam/trjo/chicken.png"}, record.Images)
	require.Equal(t, []string{"$5.49"}, record.Prices)
	require.Nil(t, record.Description)
}

func TestProfile(t *testing.T) {
	p := NewTraderJoesScraper().Profile()
	require.Equal(t, base.ModeRendered, p.Mode)
	require.Equal(t, base.LastPageIndicator, p.Pagination.Kind)
	require.Equal(t, 10, p.PacingBatch)
}
