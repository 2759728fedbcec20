package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	cases := []struct {
		page, href, expect string
	}{
		{"https://foreignfortune.com/", "/collections/men", "https://foreignfortune.com/collections/men"},
		{"https://foreignfortune.com/collections/men?page=2", "../products/hat#reviews", "https://foreignfortune.com/products/hat"},
		{"https://a.example/x", "https://b.example/y", "https://b.example/y"},
		{"https://a.example/x", "   ", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.expect, ResolveURL(c.page, c.href), "page=%s href=%s", c.page, c.href)
	}
}

func TestProductIDFromURL(t *testing.T) {
	require.Equal(t, "wooden-hat", ProductIDFromURL("https://foreignfortune.com/collections/men/products/wooden-hat"))
	require.Equal(t, "70219", ProductIDFromURL("https://www.traderjoes.com/home/products/pdp/70219/"))
	require.Equal(t, "", ProductIDFromURL("https://www.traderjoes.com/"))
}

func TestWithQueryParam(t *testing.T) {
	require.Equal(t,
		"https://foreignfortune.com/products/hat?variant=123",
		WithQueryParam("https://foreignfortune.com/products/hat", "variant", "123"),
	)
	require.Equal(t,
		"https://foreignfortune.com/products/hat?ref=nav&variant=9",
		WithQueryParam("https://foreignfortune.com/products/hat?ref=nav", "variant", "9"),
	)
}

func TestNormalizeText(t *testing.T) {
	require.Equal(t, "Dark Chocolate Bar", NormalizeText("\n  Dark Chocolate \n Bar  "))
	require.Equal(t, "£16.00", StripSpaces(" £ 16.00\n"))
	require.Equal(t, " £16.00", LastSegment("Add to cart - £16.00", "-"))
}

func TestOrderedSet(t *testing.T) {
	set := NewOrderedSet[string]()
	require.True(t, set.Add("b"))
	require.Equal(t, 2, set.AddAll("a", "b", "c"))
	require.False(t, set.Add("a"))
	require.Equal(t, []string{"b", "a", "c"}, set.Items())
	require.True(t, set.Contains("c"))
	require.Equal(t, 3, set.Len())
}
