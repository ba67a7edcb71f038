package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/params"
	"github.com/crashstack/crashstats-web/internal/releases"
	"github.com/crashstack/crashstats-web/internal/reports"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// ProductsReport is the crash-volume overview payload for one product.
type ProductsReport struct {
	Product   string             `json:"product"`
	Versions  []string           `json:"versions"`
	Version   string             `json:"version"`
	Days      int                `json:"days"`
	GraphData models.VolumeGraph `json:"graph_data"`
}

// Products renders the crash-volume overview for a product. With no version
// segment the full featured set is used silently.
func (h *Handlers) Products(w http.ResponseWriter, r *http.Request) {
	const report = "products"
	started := time.Now()

	ctx, err := h.baseContext(r)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	days, err := params.ResolveDays(r.URL.Query().Get("days"), []int{3, 7, 14}, 7)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	versions := releases.ResolveVersions(mux.Vars(r)["versions"], ctx.CurrentVersions, ctx.Product)

	end := utils.UTCNow()
	start := end.Add(-time.Duration(days+1) * 24 * time.Hour)

	crashes, err := h.client.CrashVolume(r.Context(), ctx.Product, versions, h.site.OperatingSystems, start, end)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	graph, err := reports.VolumeGraph(start, end, crashes)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	data := ProductsReport{
		Product:   ctx.Product,
		Versions:  versions,
		Days:      days,
		GraphData: graph,
	}
	if len(versions) == 1 {
		data.Version = versions[0]
	}
	h.render(w, r, report, data, started)
}

// ProductsListReport lists the products the service knows about.
type ProductsListReport struct {
	Products []models.Product `json:"products"`
}

// ProductsList renders the product listing.
func (h *Handlers) ProductsList(w http.ResponseWriter, r *http.Request) {
	const report = "products_list"
	started := time.Now()

	products, err := h.client.CurrentProducts(r.Context())
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	h.render(w, r, report, ProductsListReport{Products: products}, started)
}

// DailyReport is the daily crash-volume payload.
type DailyReport struct {
	Product   string             `json:"product"`
	Versions  []string           `json:"versions"`
	Version   string             `json:"version"`
	GraphData models.VolumeGraph `json:"graph_data"`
}

// Daily renders the daily crash-volume chart over the trailing eight days.
func (h *Handlers) Daily(w http.ResponseWriter, r *http.Request) {
	const report = "daily"
	started := time.Now()

	ctx, err := h.baseContext(r)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	versions := releases.ResolveVersions(mux.Vars(r)["versions"], ctx.CurrentVersions, ctx.Product)

	end := utils.UTCNow()
	start := end.Add(-8 * 24 * time.Hour)

	crashes, err := h.client.CrashVolume(r.Context(), ctx.Product, versions, h.site.OperatingSystems, start, end)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	graph, err := reports.VolumeGraph(start, end, crashes)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	data := DailyReport{
		Product:   ctx.Product,
		Versions:  versions,
		GraphData: graph,
	}
	if len(versions) == 1 {
		data.Version = versions[0]
	}
	h.render(w, r, report, data, started)
}
