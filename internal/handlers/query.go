package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/crashstack/crashstats-web/internal/metrics"
	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/paging"
	"github.com/crashstack/crashstats-web/internal/params"
	"github.com/crashstack/crashstats-web/internal/repo"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// QueryReport is the free-text search payload.
type QueryReport struct {
	Params        models.SearchParameters  `json:"params"`
	Products      []models.ProductVersions `json:"products"`
	Platforms     []string                 `json:"platforms"`
	Hits          []models.ReportRow       `json:"hits"`
	Total         int                      `json:"total"`
	TotalPages    int                      `json:"total_pages"`
	CurrentPage   int                      `json:"current_page"`
	ResultsOffset int                      `json:"results_offset"`
	CurrentURL    string                   `json:"current_url"`
}

// Query runs a free-text search over crash reports. A request with none of
// products, versions, or end date set renders an empty result page without
// calling the middleware.
func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	const report = "query"
	started := time.Now()

	page, err := paging.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	result, err := paging.Paginate(0, paging.QueryPageSize, page)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	products, err := h.client.ProductsVersions(r.Context())
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	defaultProduct := h.site.DefaultProduct
	if len(products) > 0 {
		defaultProduct = products[0].Product
	}

	searchParams := params.FromQuery(r.URL.Query())
	doQuery := searchParams.HasSearchTerms()
	searchParams = params.ApplyDefaults(searchParams, defaultProduct, utils.UTCNow())

	currentURL, err := h.currentURL(r, "query")
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	data := QueryReport{
		Params:        searchParams,
		Products:      products,
		Platforms:     h.site.OperatingSystems,
		CurrentPage:   page,
		ResultsOffset: result.Offset,
		CurrentURL:    currentURL,
	}

	if doQuery {
		end, err := utils.ParseUIDate(searchParams.EndDate)
		if err != nil {
			h.fail(w, r, report, utils.BadRequest("invalid date"), started)
			return
		}
		rangeValue, err := params.RangeValue(searchParams.DateRangeValue)
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}
		window := params.ResolveDateRange(end, searchParams.DateRangeUnit, rangeValue)

		hits, err := h.client.Search(r.Context(), repo.SearchQuery{
			Terms:            searchParams.Query,
			Products:         searchParams.Products,
			Versions:         searchParams.Versions,
			OS:               searchParams.Platforms,
			Start:            window.Start,
			End:              window.End,
			SearchMode:       searchParams.QueryType,
			Reasons:          searchParams.Reason,
			BuildIDs:         searchParams.BuildID,
			ProcessType:      searchParams.ProcessType,
			HangType:         searchParams.HangType,
			PluginField:      searchParams.PluginField,
			PluginSearchMode: searchParams.PluginQueryType,
			PluginTerms:      searchParams.PluginQuery,
			ResultCount:      paging.QueryPageSize,
			ResultOffset:     result.Offset,
		})
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}

		paged, err := paging.Paginate(hits.Total, paging.QueryPageSize, page)
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}
		data.Hits = hits.Hits
		data.Total = hits.Total
		data.TotalPages = paged.TotalPages
	}

	h.render(w, r, report, data, started)
}

// BugInfo proxies a validated bug lookup to the bug tracker.
func (h *Handlers) BugInfo(w http.ResponseWriter, r *http.Request) {
	const report = "buginfo"
	started := time.Now()
	query := r.URL.Query()

	bugIDs := splitList(query.Get("bug_ids"))
	if len(bugIDs) == 0 {
		h.fail(w, r, report, utils.BadRequest("bug_ids is required"), started)
		return
	}
	fields := splitList(query.Get("include_fields"))
	if len(fields) == 0 {
		h.fail(w, r, report, utils.BadRequest("include_fields is required"), started)
		return
	}

	info, err := h.client.BugzillaInfo(r.Context(), bugIDs, fields)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(info); err != nil {
		h.logger.Error("write buginfo", slog.Any("error", err))
		return
	}
	metrics.ObserveReport(report, metrics.OutcomeSuccess, time.Since(started))
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
