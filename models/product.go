package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// CanonicalFields lists the ProductRecord keys in export order.
var CanonicalFields = []string{
	"product_id",
	"title",
	"description",
	"sale_prices",
	"prices",
	"images",
	"primary_image",
	"brand",
	"url",
	"models",
}

// Variant represents one purchasable size/color combination
type Variant struct {
	ID     string  `json:"id"`
	Image  *string `json:"image"`
	Size   *string `json:"size"`
	Prices *string `json:"prices"`
}

// ColorModel groups the variants sold under one color selection
type ColorModel struct {
	Color    []string  `json:"color"`
	Variants []Variant `json:"variants"`
}

// UnmarshalJSON also accepts color as a single string, as older crawl
// output wrote it. An empty string reads as no color.
func (m *ColorModel) UnmarshalJSON(data []byte) error {
	var aux struct {
		Color    json.RawMessage `json:"color"`
		Variants []Variant       `json:"variants"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	colors, err := decodeColor(aux.Color)
	if err != nil {
		return err
	}
	*m = ColorModel{Color: colors, Variants: aux.Variants}
	return nil
}

func decodeColor(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if strings.TrimSpace(one) == "" {
			return nil, nil
		}
		return []string{one}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	return many, nil
}

// ProductRecord is one product discovered on a detail page.
//
// Keys found in an input file that are not part of the canonical set are kept
// in Extra and written back out next to the canonical fields.
type ProductRecord struct {
	ProductID    string       `json:"product_id"`
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	SalePrices   []string     `json:"sale_prices"`
	Prices       []string     `json:"prices"`
	Images       []string     `json:"images"`
	PrimaryImage *string      `json:"primary_image"`
	Brand        string       `json:"brand"`
	URL          string       `json:"url"`
	Models       []ColorModel `json:"models"`

	Extra map[string]any `json:"-"`

	// DecodeErr is set when the record was read from an object that does not
	// have the record shape. The object itself is kept in raw.
	DecodeErr error `json:"-"`
	raw       map[string]any
}

// UndecodableRecord keeps an input object that failed to decode so it can be
// reported and exported as found. String-valued identity fields are copied.
func UndecodableRecord(data []byte, decodeErr error) ProductRecord {
	p := ProductRecord{DecodeErr: decodeErr}
	if err := json.Unmarshal(data, &p.raw); err != nil {
		return p
	}
	if v, ok := p.raw["product_id"].(string); ok {
		p.ProductID = v
	}
	if v, ok := p.raw["url"].(string); ok {
		p.URL = v
	}
	if v, ok := p.raw["brand"].(string); ok {
		p.Brand = v
	}
	if v, ok := p.raw["title"].(string); ok {
		p.Title = &v
	}
	return p
}

type productAlias ProductRecord

// ExtraKeys returns the ad hoc keys of the record in sorted order.
func (p *ProductRecord) ExtraKeys() []string {
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	for k := range p.raw {
		if !isCanonical(k) {
			if _, dup := p.Extra[k]; !dup {
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Fields returns every attribute of the record keyed by its JSON name.
// Absent values are nil. An undecodable record reports its values as found.
func (p *ProductRecord) Fields() map[string]any {
	if p.raw != nil {
		fields := make(map[string]any, len(CanonicalFields)+len(p.raw))
		for _, k := range CanonicalFields {
			fields[k] = nil
		}
		for k, v := range p.raw {
			fields[k] = v
		}
		return fields
	}
	fields := map[string]any{
		"product_id":    p.ProductID,
		"title":         p.Title,
		"description":   p.Description,
		"sale_prices":   p.SalePrices,
		"prices":        p.Prices,
		"images":        p.Images,
		"primary_image": p.PrimaryImage,
		"brand":         p.Brand,
		"url":           p.URL,
		"models":        p.Models,
	}
	for k, v := range p.Extra {
		if _, canonical := fields[k]; canonical {
			continue
		}
		fields[k] = v
	}
	return fields
}

func (p ProductRecord) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return marshal(p.raw)
	}
	base, err := marshal(productAlias(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return base, nil
	}

	var buf bytes.Buffer
	buf.Write(base[:len(base)-1])
	for _, k := range p.ExtraKeys() {
		if isCanonical(k) {
			continue
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := marshal(p.Extra[k])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *ProductRecord) UnmarshalJSON(data []byte) error {
	var alias productAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = ProductRecord(alias)
	for k, v := range raw {
		if isCanonical(k) {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return err
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[k] = val
	}
	return nil
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isCanonical(key string) bool {
	for _, f := range CanonicalFields {
		if f == key {
			return true
		}
	}
	return false
}
