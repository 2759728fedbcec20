package scrapers

import (
	"fmt"
	"strings"

	"github.com/raushankrgupta/catalog-crawler/scrapers/fortune"
	"github.com/raushankrgupta/catalog-crawler/scrapers/lechocolat"
	"github.com/raushankrgupta/catalog-crawler/scrapers/traderjoes"
)

// All returns one instance of every site extractor.
func All() []PageExtractor {
	// Register extractors here
	return []PageExtractor{
		fortune.NewFortuneScraper(),
		lechocolat.NewLeChocolatScraper(),
		traderjoes.NewTraderJoesScraper(),
	}
}

// Names lists the site names of the registered extractors.
func Names() []string {
	var names []string
	for _, e := range All() {
		names = append(names, e.Profile().Name)
	}
	return names
}

// GetExtractor returns the extractor for a site name.
func GetExtractor(name string) (PageExtractor, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range All() {
		if e.Profile().Name == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no extractor named %q (known: %s)", name, strings.Join(Names(), ", "))
}

// GetExtractorForURL returns the extractor whose site owns url.
func GetExtractorForURL(url string) (PageExtractor, error) {
	for _, e := range All() {
		if e.CanScrape(url) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no extractor found for url: %s", url)
}
