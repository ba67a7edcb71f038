package params

import (
	"time"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// Fallback values for unset search parameters. Kept as a single table so the
// default set stays auditable; ApplyDefaults walks it rather than scattering
// per-field conditionals.
var scalarDefaults = []struct {
	field    func(*models.SearchParameters) *string
	fallback string
}{
	{func(p *models.SearchParameters) *string { return &p.DateRangeValue }, "1"},
	{func(p *models.SearchParameters) *string { return &p.DateRangeUnit }, "weeks"},
	{func(p *models.SearchParameters) *string { return &p.QueryType }, models.QueryModeContains},
	{func(p *models.SearchParameters) *string { return &p.ProcessType }, models.FilterAny},
	{func(p *models.SearchParameters) *string { return &p.HangType }, models.FilterAny},
	{func(p *models.SearchParameters) *string { return &p.PluginField }, "filename"},
	{func(p *models.SearchParameters) *string { return &p.PluginQueryType }, models.QueryModeIsExactly},
}

// Legacy UI values translated onto the service vocabulary. The rules run
// after default-fill, on query_type and plugin_query_type independently;
// plugin_query_type recognizes only the "exact" alias.
var queryTypeAliases = map[string]string{
	"exact":      models.QueryModeIsExactly,
	"startswith": models.QueryModeStartsWith,
}

// ApplyDefaults fills every unset optional field with its documented
// fallback and translates legacy alias values. It is a pure function and
// idempotent: applying it to its own output changes nothing.
func ApplyDefaults(p models.SearchParameters, defaultProduct string, now time.Time) models.SearchParameters {
	if len(p.Products) == 0 && defaultProduct != "" {
		p.Products = []string{defaultProduct}
	}
	if p.EndDate == "" {
		p.EndDate = now.UTC().Format(utils.UIDateTime)
	}
	for _, d := range scalarDefaults {
		field := d.field(&p)
		if *field == "" {
			*field = d.fallback
		}
	}

	if alias, ok := queryTypeAliases[p.QueryType]; ok {
		p.QueryType = alias
	}
	if p.PluginQueryType == "exact" {
		p.PluginQueryType = models.QueryModeIsExactly
	}
	return p
}
