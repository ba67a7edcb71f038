package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/params"
	"github.com/crashstack/crashstats-web/internal/reports"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// PlotSignature renders the chart series for one signature's crash history
// inside an explicit day-granularity window.
func (h *Handlers) PlotSignature(w http.ResponseWriter, r *http.Request) {
	const report = "plot_signature"
	started := time.Now()
	vars := mux.Vars(r)

	start, err := utils.ParseDay(vars["start_date"])
	if err != nil {
		h.fail(w, r, report, utils.BadRequest("invalid start_date"), started)
		return
	}
	end, err := utils.ParseDay(vars["end_date"])
	if err != nil {
		h.fail(w, r, report, utils.BadRequest("invalid end_date"), started)
		return
	}

	durationHours := end.Sub(start).Hours()

	trend, err := h.client.SignatureTrend(r.Context(), vars["product"], vars["versions"], vars["signature"], end, durationHours)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	graph, err := reports.TrendGraph(trend)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	h.render(w, r, report, graph, started)
}

// SignatureSummary renders the per-dimension breakdown of one signature.
// The six dimensions are independent and fetched concurrently; results are
// recombined by dimension key, never by arrival order.
func (h *Handlers) SignatureSummary(w http.ResponseWriter, r *http.Request) {
	const report = "signature_summary"
	started := time.Now()
	query := r.URL.Query()

	rangeValue, err := params.RangeValue(query.Get("range_value"))
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	signature := query.Get("signature")

	end := utils.UTCNow()
	start := end.Add(-time.Duration(rangeValue) * 24 * time.Hour)

	var mu sync.Mutex
	raw := make(map[string][]models.SignatureSummaryRaw, len(reports.SummaryDimensions))

	group, ctx := errgroup.WithContext(r.Context())
	for _, dimension := range reports.SummaryDimensions {
		group.Go(func() error {
			rows, err := h.client.SignatureSummary(ctx, dimension, signature, start, end)
			if err != nil {
				return err
			}
			mu.Lock()
			raw[dimension] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	h.render(w, r, report, reports.ReshapeSignatureSummary(raw), started)
}
