package base

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/utils"
)

// Cleaner post-processes extracted text.
type Cleaner func(string) string

// Find runs selector against the page.
func (p *Page) Find(selector string) *goquery.Selection {
	return p.Doc.Find(selector)
}

// Text returns the cleaned text of the first element matching selector and
// whether any element matched.
func (p *Page) Text(selector string, clean Cleaner) (string, bool) {
	sel := p.Doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	text := sel.Text()
	if clean != nil {
		text = clean(text)
	}
	return text, true
}

// Links returns the hrefs of every element matching selector, resolved
// against the page URL, in page order. Elements without an href are skipped.
func (p *Page) Links(selector string) []string {
	return p.Attrs(selector, "href")
}

// Attrs returns attr of every match resolved against the page URL.
func (p *Page) Attrs(selector, attr string) []string {
	var out []string
	p.Doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		v, ok := s.Attr(attr)
		if !ok {
			return
		}
		if resolved := utils.ResolveURL(p.URL, v); resolved != "" {
			out = append(out, resolved)
		}
	})
	return out
}

// OptionalText extracts an optional field. A missing element or empty text
// yields nil; the absence is logged with the page context.
func OptionalText(p *Page, field, selector string, clean Cleaner) *string {
	text, ok := p.Text(selector, clean)
	if !ok || strings.TrimSpace(text) == "" {
		slog.Debug("optional field absent", "field", field, "selector", selector, "url", p.URL)
		return nil
	}
	return &text
}

// OptionalAttr extracts an attribute of the first match, resolved as a URL.
func OptionalAttr(p *Page, field, selector, attr string) *string {
	values := p.Attrs(selector, attr)
	if len(values) == 0 {
		slog.Debug("optional field absent", "field", field, "selector", selector, "url", p.URL)
		return nil
	}
	return &values[0]
}

// RequiredText extracts a mandatory field, failing with an ExtractionError
// when the element is missing or has no text.
func RequiredText(p *Page, field, selector string, clean Cleaner) (string, error) {
	text, ok := p.Text(selector, clean)
	if !ok || strings.TrimSpace(text) == "" {
		return "", &models.ExtractionError{URL: p.URL, Field: field}
	}
	return text, nil
}
