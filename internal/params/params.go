package params

import (
	"net/url"

	"github.com/crashstack/crashstats-web/internal/models"
)

// FromQuery pulls the search parameter set out of raw query-string values.
// No defaults are applied here; empty means the request left it unset.
func FromQuery(q url.Values) models.SearchParameters {
	return models.SearchParameters{
		Signature:       q.Get("signature"),
		Query:           q.Get("query"),
		Products:        q["product"],
		Versions:        q["version"],
		Platforms:       q["platform"],
		EndDate:         q.Get("date"),
		DateRangeUnit:   q.Get("range_unit"),
		DateRangeValue:  q.Get("range_value"),
		QueryType:       q.Get("query_type"),
		Reason:          q.Get("reason"),
		BuildID:         q.Get("build_id"),
		ProcessType:     q.Get("process_type"),
		HangType:        q.Get("hang_type"),
		PluginField:     q.Get("plugin_field"),
		PluginQueryType: q.Get("plugin_query_type"),
		PluginQuery:     q.Get("plugin_query"),
	}
}
