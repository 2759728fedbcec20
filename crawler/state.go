package crawler

import (
	"time"

	"github.com/raushankrgupta/catalog-crawler/models"
)

// State is a stage of a site crawl.
type State int

const (
	Init State = iota
	CategoryDiscovery
	ListingPagination
	DetailFetch
	VariantFetch
	Done
	// Failed is reached from any fetch step that cannot be recovered from.
	Failed
)

var stateNames = [...]string{
	Init:              "init",
	CategoryDiscovery: "category_discovery",
	ListingPagination: "listing_pagination",
	DetailFetch:       "detail_fetch",
	VariantFetch:      "variant_fetch",
	Done:              "done",
	Failed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Skip records a page or product that was given up on without ending the run.
type Skip struct {
	URL   string
	Stage State
	Err   error
}

// Result is everything a run produced, including the records accumulated
// before a fatal error.
type Result struct {
	Site  string
	State State
	// FailedURL is the page whose fetch ended the run, if any.
	FailedURL string
	Records   []models.ProductRecord
	Skipped   []Skip

	Categories    int
	ListingPages  int
	ProductURLs   int
	DetailFetches int
	Pauses        int

	Started  time.Time
	Finished time.Time
}

func (r *Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
