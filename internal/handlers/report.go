package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/paging"
	"github.com/crashstack/crashstats-web/internal/params"
	"github.com/crashstack/crashstats-web/internal/reports"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// ReportIndexData is the single-crash report payload.
type ReportIndexData struct {
	Report          models.ProcessedCrash   `json:"report"`
	ProcessType     string                  `json:"process_type"`
	Product         string                  `json:"product"`
	Version         string                  `json:"version"`
	ParsedDump      models.ParsedDump       `json:"parsed_dump"`
	BugAssociations []models.BugAssociation `json:"bug_associations"`
	BugProductMap   map[string]string       `json:"bug_product_map"`
	Comments        models.CommentsPage     `json:"comments"`
	Raw             models.RawCrash         `json:"raw"`
	HangID          string                  `json:"hang_id"`
	CrashPairs      []string                `json:"crash_pairs"`
}

// ReportIndex renders one processed crash report with its raw submission,
// parsed dump, bug associations, recent comments, and hang pair when the
// crash was half of a hang.
func (h *Handlers) ReportIndex(w http.ResponseWriter, r *http.Request) {
	const report = "report_index"
	started := time.Now()
	crashID := mux.Vars(r)["crash_id"]

	crash, err := h.client.ProcessedCrash(r.Context(), crashID)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	processType := "unknown"
	switch crash.ProcessType {
	case "":
		processType = "browser"
	case "plugin":
		processType = "plugin"
	case "content":
		processType = "content"
	}

	associations, err := h.client.Bugs(r.Context(), []string{crash.Signature})
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	end := utils.UTCNow()
	comments, err := h.client.CommentsBySignature(r.Context(), crash.Signature, end.Add(-14*24*time.Hour), end)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	raw, err := h.client.RawCrash(r.Context(), crashID)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	data := ReportIndexData{
		Report:          crash,
		ProcessType:     processType,
		Product:         crash.Product,
		Version:         crash.Version,
		ParsedDump:      reports.ParseDump(crash.Dump, h.site.VCSMappings),
		BugAssociations: associations,
		BugProductMap:   h.site.BugProductMap,
		Comments:        comments,
		Raw:             raw,
	}

	if hangID, ok := raw.HangID(); ok {
		data.HangID = hangID
		pairs, err := h.client.CrashPairsByCrashID(r.Context(), crash.UUID, hangID)
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}
		data.CrashPairs = pairs
	}

	h.render(w, r, report, data, started)
}

// ReportListData is the paginated per-signature report payload.
type ReportListData struct {
	models.ReportListData
	CurrentPage     int                     `json:"current_page"`
	CurrentDay      int                     `json:"current_day"`
	StartDate       string                  `json:"start_date"`
	EndDate         string                  `json:"end_date"`
	CurrentURL      string                  `json:"current_url"`
	BugAssociations []models.BugAssociation `json:"bug_associations"`
}

// ReportList renders one page of crash reports matching a signature. A
// zero-row result is fatal for the request.
func (h *Handlers) ReportList(w http.ResponseWriter, r *http.Request) {
	const report = "report_list"
	started := time.Now()
	query := r.URL.Query()

	signature := query.Get("signature")
	if signature == "" {
		h.fail(w, r, report, utils.BadRequest("signature is required"), started)
		return
	}
	versionKey := query.Get("version")

	end := utils.UTCNow()
	if raw := query.Get("date"); raw != "" {
		parsed, err := utils.ParseUIDate(raw)
		if err != nil {
			h.fail(w, r, report, utils.BadRequest("invalid date"), started)
			return
		}
		end = parsed
	}

	duration := 7
	if raw := query.Get("range_value"); raw != "" {
		var err error
		if duration, err = params.RangeValue(raw); err != nil {
			h.fail(w, r, report, err, started)
			return
		}
	}

	page, err := paging.ParsePage(query.Get("page"))
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	result, err := paging.Paginate(0, paging.ReportListPageSize, page)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	start := end.Add(-time.Duration(duration) * 24 * time.Hour)

	listing, err := h.client.ReportList(r.Context(), signature, versionKey, start, paging.ReportListPageSize, result.Offset)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	processed, err := reports.ProcessReportList(listing, paging.ReportListPageSize)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	associations, err := h.client.Bugs(r.Context(), []string{processed.Signature})
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	currentURL, err := h.currentURL(r, "report_list")
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	h.render(w, r, report, ReportListData{
		ReportListData:  processed,
		CurrentPage:     page,
		CurrentDay:      duration,
		StartDate:       start.Format(utils.DayOnly),
		EndDate:         end.Format(utils.DayOnly),
		CurrentURL:      currentURL,
		BugAssociations: associations,
	}, started)
}
