package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductRecordJSON(t *testing.T) {
	title := "Salt & Pepper"
	p := ProductRecord{
		ProductID: "sp-1",
		Title:     &title,
		Brand:     "Shop",
		URL:       "https://shop.test/p/sp-1",
		Models:    []ColorModel{{Variants: []Variant{}}},
		Extra:     map[string]any{"zeta": 1, "alpha": "a", "title": "ignored"},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.Equal(t,
		`{"product_id":"sp-1","title":"Salt & Pepper","description":null,"sale_prices":null,"prices":null,`+
			`"images":null,"primary_image":null,"brand":"Shop","url":"https://shop.test/p/sp-1",`+
			`"models":[{"color":null,"variants":[]}],"alpha":"a","zeta":1}`,
		string(data))

	var back ProductRecord
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, "Salt & Pepper", *back.Title)
	require.Nil(t, back.Description)
	require.Equal(t, map[string]any{"alpha": "a", "zeta": float64(1)}, back.Extra)
	require.Equal(t, []string{"alpha", "zeta"}, back.ExtraKeys())

	fields := back.Fields()
	require.Equal(t, "a", fields["alpha"])
	require.Equal(t, "sp-1", fields["product_id"])
}

func TestColorModelLegacyColor(t *testing.T) {
	var got []ColorModel
	require.NoError(t, json.Unmarshal([]byte(
		`[{"color":"","variants":[]},{"color":"Red","variants":[{"id":"1"}]},{"color":["Blue","Navy"]},{"color":null}]`,
	), &got))
	require.Nil(t, got[0].Color)
	require.Equal(t, []Variant{}, got[0].Variants)
	require.Equal(t, []string{"Red"}, got[1].Color)
	require.Equal(t, "1", got[1].Variants[0].ID)
	require.Equal(t, []string{"Blue", "Navy"}, got[2].Color)
	require.Nil(t, got[3].Color)

	var bad ColorModel
	require.Error(t, json.Unmarshal([]byte(`{"color":42}`), &bad))
}

func TestUndecodableRecord(t *testing.T) {
	data := []byte(`{"product_id":"x1","title":"Hat","images":"not-a-list","badge":"sale"}`)
	var p ProductRecord
	decodeErr := json.Unmarshal(data, &p)
	require.Error(t, decodeErr)

	rec := UndecodableRecord(data, decodeErr)
	require.Equal(t, decodeErr, rec.DecodeErr)
	require.Equal(t, "x1", rec.ProductID)
	require.Equal(t, "Hat", *rec.Title)
	require.Equal(t, []string{"badge"}, rec.ExtraKeys())

	fields := rec.Fields()
	require.Equal(t, "not-a-list", fields["images"])
	require.Equal(t, "sale", fields["badge"])
	require.Contains(t, fields, "models")
	require.Nil(t, fields["models"])

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	require.JSONEq(t, string(data), string(out))

	notObject := UndecodableRecord([]byte(`42`), decodeErr)
	require.Error(t, notObject.DecodeErr)
	require.Empty(t, notObject.ProductID)
}

func TestErrors(t *testing.T) {
	err := fmt.Errorf("detail: %w", NewFetchError("https://shop.test/p", context.DeadlineExceeded))
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.True(t, IsTimeout(err))

	status := &FetchError{URL: "https://shop.test/p", StatusCode: 503}
	require.Equal(t, "fetch https://shop.test/p: status code 503", status.Error())
	require.False(t, IsTimeout(status))

	require.Equal(t, "extract title from https://shop.test/p: element not found",
		(&ExtractionError{URL: "https://shop.test/p", Field: "title"}).Error())
}
