package main

import (
	"bytes"
	"testing"

	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/scrapers/base"
	"github.com/stretchr/testify/require"
)

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRecords(&buf, []models.ProductRecord{{ProductID: "lion-hat", Brand: "Shop"}}))
	require.Contains(t, buf.String(), "Product: [")
	require.Contains(t, buf.String(), `"product_id": "lion-hat"`)

	buf.Reset()
	err := printRecords(&buf, []models.ProductRecord{{ProductID: "x", Extra: map[string]any{"bad": make(chan int)}}})
	require.ErrorContains(t, err, "encode products")
	require.Empty(t, buf.String())
}

func TestOpenStaticFetcher(t *testing.T) {
	f, err := openFetcher(base.ModeStatic)
	require.NoError(t, err)
	require.Equal(t, base.ModeStatic, f.Mode())
	require.NoError(t, f.Close())
}
