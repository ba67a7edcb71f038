package handlers

import (
	"net/http"
	"time"

	"github.com/crashstack/crashstats-web/internal/reports"
)

// Status renders recent processing-status samples with their plot series.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	const report = "status"
	started := time.Now()

	page, err := h.client.Status(r.Context())
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}
	data, err := reports.ProcessStatus(page)
	if err != nil {
		h.fail(w, r, report, err, started)
		return
	}

	h.render(w, r, report, data, started)
}
