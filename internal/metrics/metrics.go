package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for report requests. Redirects are normal control flow,
// not failures, and carry their own label.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeRedirect = "redirect"
)

var (
	reportRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crashstats",
			Name:      "report_requests_total",
			Help:      "Total report requests handled, partitioned by report and outcome.",
		},
		[]string{"report", "outcome"},
	)

	reportDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crashstats",
			Name:      "report_seconds",
			Help:      "Report request latency in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 10},
		},
		[]string{"report"},
	)

	middlewareCallSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crashstats",
			Name:      "middleware_call_seconds",
			Help:      "Middleware call latency in seconds, partitioned by operation.",
		},
		[]string{"operation", "outcome"},
	)
)

// Register attaches crashstats collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		reportRequestsTotal,
		reportDurationSeconds,
		middlewareCallSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveReport records one handled report request.
func ObserveReport(report, outcome string, duration time.Duration) {
	reportRequestsTotal.WithLabelValues(report, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	reportDurationSeconds.WithLabelValues(report).Observe(duration.Seconds())
}

// ObserveMiddlewareCall records one middleware round trip.
func ObserveMiddlewareCall(operation string, duration time.Duration, ok bool) {
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeError
	}
	if duration < 0 {
		duration = 0
	}
	middlewareCallSeconds.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}
