package scrapers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetExtractor(t *testing.T) {
	require.Equal(t, []string{"fortune", "lechocolat", "traderjoes"}, Names())

	e, err := GetExtractor(" TraderJoes ")
	require.NoError(t, err)
	require.Equal(t, "traderjoes", e.Profile().Name)

	_, err = GetExtractor("amazon")
	require.ErrorContains(t, err, "known: fortune, lechocolat, traderjoes")
}

func TestGetExtractorForURL(t *testing.T) {
	e, err := GetExtractorForURL("https://www.lechocolat-alainducasse.com/uk/x")
	require.NoError(t, err)
	require.Equal(t, "lechocolat", e.Profile().Name)

	_, err = GetExtractorForURL("https://example.com/")
	require.Error(t, err)
}
