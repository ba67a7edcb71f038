package reports

import (
	"errors"
	"testing"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

func reportRow(uuid, build, osName, comments string) models.ReportRow {
	return models.ReportRow{
		UUID:          uuid,
		Product:       "Firefox",
		Version:       "26.0a1",
		Signature:     "js::GCMarker::processMarkStackTop",
		Build:         build,
		OSName:        osName,
		DateProcessed: "2013-09-06 08:50:23.496536+00:00",
		InstallTime:   "2013-09-06 05:08:59+00:00",
		UserComments:  comments,
	}
}

func TestProcessReportList(t *testing.T) {
	page := models.ReportListPage{
		Hits: []models.ReportRow{
			reportRow("uuid-1", "20130906030203", "Windows NT", ""),
			reportRow("uuid-2", "20130906030203", "Linux", "crashed while scrolling"),
			reportRow("uuid-3", "20130905030203", "Windows NT", ""),
		},
		Total: 600,
	}

	data, err := ProcessReportList(page, 250)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.Product != "Firefox" || data.Signature != "js::GCMarker::processMarkStackTop" {
		t.Errorf("header = %s / %s", data.Product, data.Signature)
	}
	if data.Total != 600 || data.TotalPages != 3 {
		t.Errorf("Total = %d, TotalPages = %d; want 600, 3", data.Total, data.TotalPages)
	}

	if got := data.Hits[0].DateProcessed; got != "Sep 06, 2013 08:50" {
		t.Errorf("DateProcessed = %q, want display format", got)
	}
	if got := data.Hits[0].InstallTime; got != "2013-09-06 05:08:59" {
		t.Errorf("InstallTime = %q, want offset stripped", got)
	}

	tally := data.Table["20130906030203"]
	if tally.Total != 2 || tally.ByOS["Windows NT"] != 1 || tally.ByOS["Linux"] != 1 {
		t.Errorf("tally for 20130906030203 = %+v", tally)
	}
	if data.Table["20130905030203"].Total != 1 {
		t.Errorf("tally for 20130905030203 = %+v", data.Table["20130905030203"])
	}

	if len(data.Comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(data.Comments))
	}
	if c := data.Comments[0]; c.UUID != "uuid-2" || c.Comments != "crashed while scrolling" {
		t.Errorf("comment = %+v", c)
	}
}

// date_processed arrives with a fractional-second field of varying width;
// every width, including none, must parse.
func TestProcessReportListFractionWidths(t *testing.T) {
	stamps := []string{
		"2013-09-06 08:50:23.496536+00:00",
		"2013-09-06 08:50:23.4+00:00",
		"2013-09-06 08:50:23+00:00",
	}
	for _, stamp := range stamps {
		row := reportRow("uuid-1", "20130906030203", "Windows NT", "")
		row.DateProcessed = stamp
		data, err := ProcessReportList(models.ReportListPage{Hits: []models.ReportRow{row}, Total: 1}, 250)
		if err != nil {
			t.Errorf("stamp %q: %v", stamp, err)
			continue
		}
		if got := data.Hits[0].DateProcessed; got != "Sep 06, 2013 08:50" {
			t.Errorf("stamp %q rendered as %q", stamp, got)
		}
	}
}

func TestProcessReportListEmptyIsFatal(t *testing.T) {
	_, err := ProcessReportList(models.ReportListPage{Total: 0}, 250)
	if !errors.Is(err, utils.ErrEmptyResult) {
		t.Errorf("error = %v, want ErrEmptyResult", err)
	}
}

func TestProcessReportListBadTimestamp(t *testing.T) {
	row := reportRow("uuid-1", "20130906030203", "Windows NT", "")
	row.DateProcessed = "not a date"
	_, err := ProcessReportList(models.ReportListPage{Hits: []models.ReportRow{row}, Total: 1}, 250)
	if err == nil {
		t.Error("expected error for malformed date_processed")
	}
}
