package reports

import (
	"testing"

	"github.com/crashstack/crashstats-web/internal/models"
)

func TestReshapeSignatureSummaryScalesCategoryFractions(t *testing.T) {
	raw := map[string][]models.SignatureSummaryRaw{
		DimOS: {
			{Category: "Windows NT", Percentage: 0.1234, ReportCount: 906},
			{Category: "Mac OS X", Percentage: 0.05, ReportCount: 50},
		},
		DimUptime: {
			{Category: "< 1 min", Percentage: 1.0, ReportCount: 400},
		},
	}

	report := ReshapeSignatureSummary(raw)

	if len(report.PercentageByOS) != 2 {
		t.Fatalf("got %d OS rows, want 2", len(report.PercentageByOS))
	}
	if got := report.PercentageByOS[0]; got.Label != "Windows NT" || got.Percentage != "12.34" || got.NumberOfCrashes != 906 {
		t.Errorf("OS row = %+v, want Windows NT 12.34 906", got)
	}
	if got := report.UptimeRange[0].Percentage; got != "100.00" {
		t.Errorf("uptime percentage = %q, want 100.00", got)
	}
}

// The products dimension already arrives on a 0-100 scale and must not be
// multiplied again.
func TestReshapeSignatureSummaryProductsNotRescaled(t *testing.T) {
	raw := map[string][]models.SignatureSummaryRaw{
		DimProducts: {
			{ProductName: "Firefox", VersionString: "26.0a1", Percentage: 12.34, ReportCount: 120},
		},
	}

	report := ReshapeSignatureSummary(raw)

	if len(report.ProductVersions) != 1 {
		t.Fatalf("got %d product rows, want 1", len(report.ProductVersions))
	}
	got := report.ProductVersions[0]
	if got.Product != "Firefox" || got.Version != "26.0a1" || got.Percentage != "12.34" {
		t.Errorf("product row = %+v, want Firefox 26.0a1 12.34", got)
	}
}

func TestReshapeSignatureSummaryMissingDimensions(t *testing.T) {
	report := ReshapeSignatureSummary(map[string][]models.SignatureSummaryRaw{})

	if len(report.Architectures) != 0 || len(report.FlashVersions) != 0 {
		t.Errorf("missing dimensions should yield empty slices: %+v", report)
	}
	if report.ProductVersions == nil {
		t.Error("ProductVersions should be empty, not nil")
	}
}
