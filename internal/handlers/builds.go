package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/reports"
)

// BuildsReport lists nightly builds grouped by (date, version).
type BuildsReport struct {
	Product   string              `json:"product"`
	Version   string              `json:"version"`
	AllBuilds []models.BuildGroup `json:"all_builds"`
	// Nightly is the flat nightly list feed consumers take directly.
	Nightly []models.BuildRow `json:"nightly"`
}

// Builds renders the nightly build listing for a product, optionally
// narrowed to a single version.
func (h *Handlers) Builds(w http.ResponseWriter, r *http.Request) {
	const report = "builds"
	started := time.Now()

	ctx, err := h.baseContext(r)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	// The daily-builds listing takes at most one version.
	version := mux.Vars(r)["versions"]

	rows, err := h.client.DailyBuilds(r.Context(), ctx.Product, version)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	groups, err := reports.GroupNightlyBuilds(rows)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	h.render(w, r, report, BuildsReport{
		Product:   ctx.Product,
		Version:   version,
		AllBuilds: groups,
		Nightly:   reports.NightlyBuilds(rows),
	}, started)
}
