// Package records assembles normalized ProductRecords from the fragments a
// site extractor pulls off detail and variant pages.
package records

import (
	"log/slog"

	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/utils"
)

// VariantFragment is what a variant sub-page contributes to a record.
type VariantFragment struct {
	Variant models.Variant
	// Color routes the variant to its ColorModel when grouping by color.
	Color string
}

// Builder accumulates one product while its detail page and variant
// sub-pages are processed. Build hands out the finished record.
type Builder struct {
	record       models.ProductRecord
	groupByColor bool
	colorIndex   map[string]int
	built        bool
}

// NewBuilder starts a record for the canonical product URL.
func NewBuilder(brand, canonicalURL string, groupByColor bool) *Builder {
	return &Builder{
		record: models.ProductRecord{
			ProductID: utils.ProductIDFromURL(canonicalURL),
			Brand:     brand,
			URL:       canonicalURL,
		},
		groupByColor: groupByColor,
		colorIndex:   make(map[string]int),
	}
}

func (b *Builder) URL() string { return b.record.URL }

func (b *Builder) SetTitle(title string) *Builder {
	b.record.Title = utils.StringPtr(title)
	return b
}

// SetDescription stores the description; nil marks it absent.
func (b *Builder) SetDescription(description *string) *Builder {
	b.record.Description = description
	return b
}

// AddImages appends image URLs in page order. The first image seen becomes
// the primary image.
func (b *Builder) AddImages(urls ...string) *Builder {
	for _, u := range urls {
		if u == "" {
			continue
		}
		if b.record.PrimaryImage == nil {
			primary := u
			b.record.PrimaryImage = &primary
		}
		b.record.Images = append(b.record.Images, u)
	}
	return b
}

func (b *Builder) AddSalePrices(prices ...string) *Builder {
	b.record.SalePrices = appendNonEmpty(b.record.SalePrices, prices)
	return b
}

func (b *Builder) AddPrices(prices ...string) *Builder {
	b.record.Prices = appendNonEmpty(b.record.Prices, prices)
	return b
}

// SetColors records the color options of a single-model product. An empty
// list leaves the model's color null.
func (b *Builder) SetColors(colors []string) *Builder {
	b.ensureDefaultModel()
	if len(colors) > 0 {
		b.record.Models[0].Color = colors
	}
	return b
}

// AddVariant appends a variant to the product's model, or to the model of
// its color when the builder groups by color.
func (b *Builder) AddVariant(f VariantFragment) *Builder {
	if !b.groupByColor || f.Color == "" {
		b.ensureDefaultModel()
		b.record.Models[0].Variants = append(b.record.Models[0].Variants, f.Variant)
		return b
	}

	idx, ok := b.colorIndex[f.Color]
	if !ok {
		b.record.Models = append(b.record.Models, models.ColorModel{
			Color:    []string{f.Color},
			Variants: []models.Variant{},
		})
		idx = len(b.record.Models) - 1
		b.colorIndex[f.Color] = idx
	}
	b.record.Models[idx].Variants = append(b.record.Models[idx].Variants, f.Variant)
	return b
}

// Build validates the structural minimum and returns the record. A missing
// title or product id is an ExtractionError. The builder must not be used
// afterwards.
func (b *Builder) Build() (models.ProductRecord, error) {
	if b.built {
		slog.Warn("record builder reused after Build", "url", b.record.URL)
	}
	b.built = true

	if b.record.ProductID == "" {
		return models.ProductRecord{}, &models.ExtractionError{URL: b.record.URL, Field: "product_id"}
	}
	if b.record.Title == nil {
		return models.ProductRecord{}, &models.ExtractionError{URL: b.record.URL, Field: "title"}
	}
	if !b.groupByColor || len(b.record.Models) == 0 {
		b.ensureDefaultModel()
	}

	record := b.record
	b.record = models.ProductRecord{}
	return record, nil
}

func (b *Builder) ensureDefaultModel() {
	if len(b.record.Models) == 0 {
		b.record.Models = []models.ColorModel{{Variants: []models.Variant{}}}
	}
}

func appendNonEmpty(dst, values []string) []string {
	for _, v := range values {
		if v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}
