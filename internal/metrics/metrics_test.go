package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second Register: %v", err)
	}
}

func TestObserveHelpers(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatal(err)
	}

	ObserveReport("topcrasher", OutcomeRedirect, 5*time.Millisecond)
	ObserveReport("query", OutcomeSuccess, -time.Second)
	ObserveMiddlewareCall("tcbs", 10*time.Millisecond, true)
	ObserveMiddlewareCall("search", 10*time.Millisecond, false)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("no metric families gathered")
	}
}
