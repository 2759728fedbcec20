package base

import "time"

// PaginationKind names how a site's listing pages are bounded.
type PaginationKind int

const (
	// FixedTrials visits pages 1..Trials and keeps whatever links appear.
	FixedTrials PaginationKind = iota
	// LastPageIndicator reads the page count from the rendered category page.
	LastPageIndicator
)

func (k PaginationKind) String() string {
	switch k {
	case FixedTrials:
		return "fixed-trials"
	case LastPageIndicator:
		return "last-page"
	}
	return "unknown"
}

// Pagination is a site's listing policy.
type Pagination struct {
	Kind   PaginationKind
	Trials int
}

// WaitSelectors name the element a rendered fetch waits for at each stage.
type WaitSelectors struct {
	Root     string
	LastPage string
	Listing  string
	Detail   string
	Variant  string
}

// Profile is the per-site strategy data the orchestrator needs besides the
// extraction itself.
type Profile struct {
	Name    string
	Brand   string
	RootURL string
	// Mode is the fetch mode used when the site binding does not override it.
	Mode       FetchMode
	Pagination Pagination
	Waits      WaitSelectors
	// GroupByColor builds one ColorModel per variant color instead of one
	// model holding every variant.
	GroupByColor bool
	// VariantParam is the query key that selects a variant on the product URL.
	VariantParam string
	// PacingBatch and PacingPause override the configured rendered-mode pacing
	// when non-zero.
	PacingBatch int
	PacingPause time.Duration
}
