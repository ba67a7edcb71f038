// Package handlers orchestrates the report endpoints: parameter
// normalization, middleware queries, result aggregation, and the handoff to
// the render sink or a redirect.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/crashstack/crashstats-web/internal/config"
	"github.com/crashstack/crashstats-web/internal/metrics"
	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/releases"
	"github.com/crashstack/crashstats-web/internal/repo"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// MiddlewareAPI defines the aggregation-service operations the report
// handlers depend on.
type MiddlewareAPI interface {
	CurrentVersions(ctx context.Context) ([]models.VersionRelease, error)
	CurrentProducts(ctx context.Context) ([]models.Product, error)
	ProductsVersions(ctx context.Context) ([]models.ProductVersions, error)
	CrashVolume(ctx context.Context, product string, versions, osNames []string, start, end time.Time) (map[string]map[string]models.VolumeDay, error)
	TopCrashers(ctx context.Context, product, version, crashType string, end time.Time, durationHours, limit int) (models.TopCrasherPage, error)
	Bugs(ctx context.Context, signatures []string) ([]models.BugAssociation, error)
	DailyBuilds(ctx context.Context, product, version string) ([]models.BuildRow, error)
	HangReport(ctx context.Context, product, version string, end time.Time, days, pageSize, page int) (models.HangReportPage, error)
	ProcessedCrash(ctx context.Context, crashID string) (models.ProcessedCrash, error)
	RawCrash(ctx context.Context, crashID string) (models.RawCrash, error)
	CommentsBySignature(ctx context.Context, signature string, start, end time.Time) (models.CommentsPage, error)
	CrashPairsByCrashID(ctx context.Context, uuid, hangID string) ([]string, error)
	ReportList(ctx context.Context, signature, versionKey string, start time.Time, pageSize, offset int) (models.ReportListPage, error)
	Status(ctx context.Context) (models.StatusPage, error)
	Search(ctx context.Context, q repo.SearchQuery) (models.SearchPage, error)
	SignatureTrend(ctx context.Context, product, versions, signature string, end time.Time, durationHours float64) (models.SignatureTrend, error)
	SignatureSummary(ctx context.Context, dimension, signature string, start, end time.Time) ([]models.SignatureSummaryRaw, error)
	BugzillaInfo(ctx context.Context, bugIDs, fields []string) (json.RawMessage, error)
}

// Renderer is the sink report data is handed to. The core never renders
// itself; the shipped implementation writes JSON, a template layer would be
// another implementation.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, report string, data any) error
}

// JSONRenderer renders every report as a JSON envelope.
type JSONRenderer struct{}

// Render writes the named report and its data bag as JSON.
func (JSONRenderer) Render(w http.ResponseWriter, _ *http.Request, report string, data any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(struct {
		Report string `json:"report"`
		Data   any    `json:"data"`
	}{Report: report, Data: data})
}

// Handlers hosts the report endpoints.
type Handlers struct {
	logger    *slog.Logger
	client    MiddlewareAPI
	site      config.SiteConfig
	renderer  Renderer
	router    *mux.Router
	latencies *utils.LatencyTracker
}

// New constructs the report handler set.
func New(logger *slog.Logger, client MiddlewareAPI, site config.SiteConfig, renderer Renderer) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if renderer == nil {
		renderer = JSONRenderer{}
	}
	return &Handlers{
		logger:    logger,
		client:    client,
		site:      site,
		renderer:  renderer,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Routes registers every report endpoint on the router. Routes are named so
// redirect targets can be rebuilt with their parameters re-serialized.
func (h *Handlers) Routes(r *mux.Router) {
	h.router = r

	r.HandleFunc("/products", h.ProductsList).Methods(http.MethodGet).Name("products_list")
	r.HandleFunc("/products/{product}", h.Products).Methods(http.MethodGet).Name("products")
	r.HandleFunc("/products/{product}/versions/{versions}", h.Products).Methods(http.MethodGet).Name("products_versions")
	r.HandleFunc("/topcrasher/{product}", h.TopCrasher).Methods(http.MethodGet)
	r.HandleFunc("/topcrasher/{product}/{versions}", h.TopCrasher).Methods(http.MethodGet).Name("topcrasher")
	r.HandleFunc("/daily/{product}", h.Daily).Methods(http.MethodGet)
	r.HandleFunc("/daily/{product}/{versions}", h.Daily).Methods(http.MethodGet).Name("daily")
	r.HandleFunc("/builds/{product}", h.Builds).Methods(http.MethodGet)
	r.HandleFunc("/builds/{product}/{versions}", h.Builds).Methods(http.MethodGet).Name("builds")
	r.HandleFunc("/hangreport/{product}", h.HangReport).Methods(http.MethodGet)
	r.HandleFunc("/hangreport/{product}/{versions}", h.HangReport).Methods(http.MethodGet).Name("hangreport")
	r.HandleFunc("/topchangers/{product}", h.TopChangers).Methods(http.MethodGet)
	r.HandleFunc("/topchangers/{product}/{versions}", h.TopChangers).Methods(http.MethodGet).Name("topchangers")
	r.HandleFunc("/report/index/{crash_id}", h.ReportIndex).Methods(http.MethodGet).Name("report_index")
	r.HandleFunc("/report/list", h.ReportList).Methods(http.MethodGet).Name("report_list")
	r.HandleFunc("/status", h.Status).Methods(http.MethodGet).Name("status")
	r.HandleFunc("/query", h.Query).Methods(http.MethodGet).Name("query")
	r.HandleFunc("/buginfo/bug", h.BugInfo).Methods(http.MethodGet).Name("buginfo")
	r.HandleFunc("/plot/signature/{product}/{versions}/{start_date}/{end_date}/{signature}", h.PlotSignature).
		Methods(http.MethodGet).Name("plot_signature")
	r.HandleFunc("/signature-summary", h.SignatureSummary).Methods(http.MethodGet).Name("signature_summary")
}

// baseContext resolves the URL product/version segments against the current
// versions table before a handler runs.
func (h *Handlers) baseContext(r *http.Request) (releases.RequestContext, error) {
	vars := mux.Vars(r)
	current, err := h.client.CurrentVersions(r.Context())
	if err != nil {
		return releases.RequestContext{}, err
	}
	return releases.BuildContext(vars["product"], vars["versions"], current, h.site.DefaultProduct)
}

// render hands the report to the render sink and records the request.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, report string, data any, started time.Time) {
	if err := h.renderer.Render(w, r, report, data); err != nil {
		h.logger.Error("render failed", slog.String("report", report), slog.Any("error", err))
		metrics.ObserveReport(report, metrics.OutcomeError, time.Since(started))
		return
	}
	duration := time.Since(started)
	metrics.ObserveReport(report, metrics.OutcomeSuccess, duration)
	h.latencies.Observe(duration)
	if count := h.latencies.Count(); count >= 20 && count%20 == 0 {
		h.logger.Info("render latency", slog.Duration("p95", h.latencies.Percentile(95)), slog.Int("samples", count))
	}
}

// redirect issues a found redirect. Redirects are normal control flow and
// are never logged or counted as failures.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, report, target string, started time.Time) {
	metrics.ObserveReport(report, metrics.OutcomeRedirect, time.Since(started))
	http.Redirect(w, r, target, http.StatusFound)
}

// fail maps a fault onto its HTTP status. Only upstream failures are logged
// as errors.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, report string, err error, started time.Time) {
	metrics.ObserveReport(report, metrics.OutcomeError, time.Since(started))
	switch {
	case errors.Is(err, utils.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, utils.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("report failed", slog.String("report", report), slog.Any("error", err))
		http.Error(w, "report failed", http.StatusInternalServerError)
	}
}

// routeURL builds the path for a named route.
func (h *Handlers) routeURL(name string, pairs ...string) (string, error) {
	route := h.router.Get(name)
	if route == nil {
		return "", utils.NewAppError("handlers.routeURL", "unknown route "+name, nil)
	}
	u, err := route.URL(pairs...)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// currentURL rebuilds the request URL for a named route with the original
// query parameters minus page, for pagination links.
func (h *Handlers) currentURL(r *http.Request, name string, pairs ...string) (string, error) {
	base, err := h.routeURL(name, pairs...)
	if err != nil {
		return "", err
	}
	query := url.Values{}
	for key, values := range r.URL.Query() {
		if key == "page" {
			continue
		}
		query[key] = values
	}
	if len(query) == 0 {
		return base + "?", nil
	}
	return base + "?" + query.Encode(), nil
}
