package reports

import (
	"fmt"
	"time"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// ProcessReportList reformats report-list timestamps for display, tallies
// rows per build id and operating system, and collects user comments. A
// zero-row result set is fatal for the request, not rendered as an empty
// table.
func ProcessReportList(page models.ReportListPage, pageSize int) (models.ReportListData, error) {
	if len(page.Hits) == 0 {
		return models.ReportListData{}, fmt.Errorf("report list: %w", utils.ErrEmptyResult)
	}

	first := page.Hits[0]
	data := models.ReportListData{
		Product:    first.Product,
		Version:    first.Version,
		Signature:  first.Signature,
		Total:      page.Total,
		TotalPages: (page.Total + pageSize - 1) / pageSize,
		Table:      make(map[string]models.BuildTally),
		Comments:   []models.CommentEntry{},
	}

	for _, report := range page.Hits {
		processed, err := time.Parse(utils.ProcessedStamp, report.DateProcessed)
		if err != nil {
			return models.ReportListData{}, fmt.Errorf("date_processed %q: %w", report.DateProcessed, err)
		}
		report.DateProcessed = processed.Format(utils.ProcessedDisplay)

		installed, err := time.Parse(utils.InstallStamp, report.InstallTime)
		if err != nil {
			return models.ReportListData{}, fmt.Errorf("install_time %q: %w", report.InstallTime, err)
		}
		report.InstallTime = installed.Format(utils.InstallDisplay)

		tally := data.Table[report.Build]
		if tally.ByOS == nil {
			tally.ByOS = make(map[string]int)
		}
		tally.Total++
		tally.ByOS[report.OSName]++
		data.Table[report.Build] = tally

		if report.UserComments != "" {
			data.Comments = append(data.Comments, models.CommentEntry{
				Comments:      report.UserComments,
				UUID:          report.UUID,
				DateProcessed: report.DateProcessed,
			})
		}

		data.Hits = append(data.Hits, report)
	}

	return data, nil
}
