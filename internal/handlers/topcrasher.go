package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/paging"
	"github.com/crashstack/crashstats-web/internal/params"
	"github.com/crashstack/crashstats-web/internal/releases"
	"github.com/crashstack/crashstats-web/internal/reports"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// Crash types recognised by the TCBS report; anything else falls back to
// browser.
var tcbsCrashTypes = map[string]bool{
	"all":     true,
	"browser": true,
	"plugin":  true,
	"content": true,
}

// TopCrasherReport is the ranked top-crashers payload.
type TopCrasherReport struct {
	Product   string                `json:"product"`
	Version   string                `json:"version"`
	CrashType string                `json:"crash_type"`
	OSName    string                `json:"os_name"`
	Days      int                   `json:"days"`
	TCBS      models.TopCrasherPage `json:"tcbs"`
}

// TopCrasher renders the top crashers by signature for one product version.
// A request without a version redirects to the first featured version
// rather than silently picking one.
func (h *Handlers) TopCrasher(w http.ResponseWriter, r *http.Request) {
	const report = "topcrasher"
	started := time.Now()

	ctx, err := h.baseContext(r)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	days, err := params.ResolveDays(r.URL.Query().Get("days"), []int{1, 3, 7, 14, 28}, 7)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	rawVersions := mux.Vars(r)["versions"]
	if rawVersions == "" {
		featured, ok := releases.FirstFeatured(ctx.CurrentVersions, ctx.Product)
		if !ok {
			h.fail(w, r, report, utils.NotFound("no featured version for product"), started)
			return
		}
		target, err := h.routeURL("topcrasher", "product", ctx.Product, "versions", featured)
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}
		h.redirect(w, r, report, target, started)
		return
	}
	version := strings.Split(rawVersions, ";")[0]

	crashType := r.URL.Query().Get("crash_type")
	if !tcbsCrashTypes[crashType] {
		crashType = "browser"
	}
	osName := r.URL.Query().Get("os_name")
	if !h.site.RecognizedOS(osName) {
		osName = ""
	}

	tcbs, err := h.client.TopCrashers(r.Context(), ctx.Product, version, crashType, utils.UTCNow(), days*24, paging.TopCrasherLimit)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	signatures := make([]string, 0, len(tcbs.Crashes))
	for _, crash := range tcbs.Crashes {
		signatures = append(signatures, crash.Signature)
	}
	associations, err := h.client.Bugs(r.Context(), signatures)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	reports.MergeBugAssociations(tcbs.Crashes, reports.BugsBySignature(associations))

	h.render(w, r, report, TopCrasherReport{
		Product:   ctx.Product,
		Version:   version,
		CrashType: crashType,
		OSName:    osName,
		Days:      days,
		TCBS:      tcbs,
	}, started)
}

// TopChangersReport buckets crash signatures by rank improvement.
type TopChangersReport struct {
	Product  string                         `json:"product"`
	Versions []string                       `json:"versions"`
	Version  string                         `json:"version"`
	Days     int                            `json:"days"`
	Changers map[int][]models.TopCrasherRow `json:"topchangers"`
}

// TopChangers renders crash signatures ranked by how far they climbed since
// the previous window. Rows from each resolved version interleave within a
// bucket in fetch order.
func (h *Handlers) TopChangers(w http.ResponseWriter, r *http.Request) {
	const report = "topchangers"
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

	rawVersions := mux.Vars(r)["versions"]
	if rawVersions == "" {
		featured, ok := releases.FirstFeatured(ctx.CurrentVersions, ctx.Product)
		if !ok {
			h.fail(w, r, report, utils.NotFound("no featured version for product"), started)
			return
		}
		target, err := h.routeURL("topchangers", "product", ctx.Product, "versions", featured)
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}
		h.redirect(w, r, report, target, started)
		return
	}
	versions := strings.Split(rawVersions, ";")

	end := utils.UTCNow()
	fetches := make([][]models.TopCrasherRow, 0, len(versions))
	for _, version := range versions {
		tcbs, err := h.client.TopCrashers(r.Context(), ctx.Product, version, "browser", end, days*24, paging.TopCrasherLimit)
		if err != nil {
			h.fail(w, r, report, err, started)
			return
		}
		fetches = append(fetches, tcbs.Crashes)
	}

	changers, err := reports.ChangerBuckets(fetches...)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	data := TopChangersReport{
		Product:  ctx.Product,
		Versions: versions,
		Days:     days,
		Changers: changers,
	}
	if len(versions) == 1 {
		data.Version = versions[0]
	}
	h.render(w, r, report, data, started)
}
