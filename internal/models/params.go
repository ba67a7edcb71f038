package models

import "time"

// Query modes accepted by the search service. Legacy UI values are aliased
// onto these before dispatch.
const (
	QueryModeContains   = "contains"
	QueryModeIsExactly  = "is_exactly"
	QueryModeStartsWith = "starts_with"
)

// Process and hang type wildcard.
const FilterAny = "any"

// SearchParameters carries every filter accepted by the search endpoints.
// Optional fields left empty by the request are filled by the defaults
// policy before the middleware is called.
type SearchParameters struct {
	Signature       string
	Query           string
	Products        []string
	Versions        []string
	Platforms       []string
	EndDate         string
	DateRangeUnit   string
	DateRangeValue  string
	QueryType       string
	Reason          string
	BuildID         string
	ProcessType     string
	HangType        string
	PluginField     string
	PluginQueryType string
	PluginQuery     string
}

// HasSearchTerms reports whether the raw request supplied at least one of
// products, versions, or end date. An entirely empty parameter set renders
// an empty result page without calling the middleware.
func (p SearchParameters) HasSearchTerms() bool {
	return len(p.Products) > 0 || len(p.Versions) > 0 || p.EndDate != ""
}

// DateWindow is a concrete [start, end] query window, both in UTC.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// PageResult captures pagination arithmetic for one result set.
type PageResult struct {
	Total      int
	TotalPages int
	Page       int
	PageSize   int
	Offset     int
	// OutOfRange signals that the requested page is past the last one and
	// the caller must redirect to page TotalPages instead of rendering.
	OutOfRange bool
}
