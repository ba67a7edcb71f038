package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/paging"
	"github.com/crashstack/crashstats-web/internal/params"
	"github.com/crashstack/crashstats-web/internal/releases"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// HangReportData is the paginated hang report payload.
type HangReportData struct {
	Product     string                `json:"product"`
	Version     string                `json:"version"`
	Days        int                   `json:"days"`
	CurrentPage int                   `json:"current_page"`
	CurrentURL  string                `json:"current_url"`
	HangReport  models.HangReportPage `json:"hangreport"`
}

// HangReport renders one page of the hang report. A request past the last
// page redirects to the last page with the days parameter re-inserted
// explicitly.
func (h *Handlers) HangReport(w http.ResponseWriter, r *http.Request) {
	const report = "hangreport"
	started := time.Now()

	ctx, err := h.baseContext(r)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	days, err := params.ResolveDays(r.URL.Query().Get("days"), []int{3, 7, 14, 28}, 7)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	page, err := paging.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	if page < 1 {
		h.fail(w, r, report, utils.BadRequest("page must be 1 or greater"), started)
		return
	}

	rawVersions := mux.Vars(r)["versions"]
	if rawVersions == "" {
		featured, ok := releases.FirstFeatured(ctx.CurrentVersions, ctx.Product)
		if !ok {
			h.fail(w, r, report, utils.NotFound("no featured version for product"), started)
			return
		}
		target, err := h.routeURL("hangreport", "product", ctx.Product, "versions", featured)
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}
		h.redirect(w, r, report, target, started)
		return
	}
	version := strings.Split(rawVersions, ";")[0]

	currentURL, err := h.currentURL(r, "hangreport", "product", ctx.Product, "versions", version)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	hangs, err := h.client.HangReport(r.Context(), ctx.Product, version, utils.UTCNow(), days, paging.HangReportPageSize, page)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	if hangs.TotalPages > 0 && page > hangs.TotalPages {
		// Naughty parameter; go to the last page, keeping days explicit.
		base, err := h.routeURL("hangreport", "product", ctx.Product, "versions", version)
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}
		target := fmt.Sprintf("%s?days=%d&page=%d", base, days, hangs.TotalPages)
		h.redirect(w, r, report, target, started)
		return
	}

	h.render(w, r, report, HangReportData{
		Product:     ctx.Product,
		Version:     version,
		Days:        days,
		CurrentPage: page,
		CurrentURL:  currentURL,
		HangReport:  hangs,
	}, started)
}
