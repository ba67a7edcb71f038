package reports

import (
	"time"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// StatusReport is the reshaped status page payload.
type StatusReport struct {
	Stats             []models.StatusRow `json:"stats"`
	Latest            models.StatusRow   `json:"latest"`
	Plot              models.StatusPlot  `json:"plot"`
	ServiceRevision   string             `json:"service_revision"`
	CollectorRevision string             `json:"collector_revision"`
}

// ProcessStatus builds plot series from the raw status samples, oldest
// first, and reformats the table timestamps for display. The newest sample
// is surfaced separately as Latest.
func ProcessStatus(page models.StatusPage) (StatusReport, error) {
	report := StatusReport{
		ServiceRevision:   page.ServiceRevision,
		CollectorRevision: page.CollectorRevision,
	}
	if len(page.Hits) == 0 {
		return report, nil
	}

	// Samples arrive newest first; plots run oldest to newest.
	for i := len(page.Hits) - 1; i >= 0; i-- {
		stat := page.Hits[i]
		index := len(page.Hits) - 1 - i
		report.Plot.AvgProcessSec = append(report.Plot.AvgProcessSec, models.IndexedValue{Index: index, Value: stat.AvgProcessSec})
		report.Plot.AvgWaitSec = append(report.Plot.AvgWaitSec, models.IndexedValue{Index: index, Value: stat.AvgWaitSec})
		report.Plot.WaitingJobCount = append(report.Plot.WaitingJobCount, models.IndexedValue{Index: index, Value: float64(stat.WaitingJobCount)})
		report.Plot.ProcessorsCount = append(report.Plot.ProcessorsCount, models.IndexedValue{Index: index, Value: float64(stat.ProcessorsCount)})

		clock, err := formatStatusDate(stat.DateCreated, utils.ClockDisplay)
		if err != nil {
			return StatusReport{}, err
		}
		report.Plot.DateCreated = append(report.Plot.DateCreated, models.IndexedLabel{Index: index, Label: clock})
	}

	for _, stat := range page.Hits {
		var err error
		if stat.DateCreated, err = formatStatusDate(stat.DateCreated, utils.StatusDisplay); err != nil {
			return StatusReport{}, err
		}
		if stat.DateRecentlyCompleted, err = formatStatusDate(stat.DateRecentlyCompleted, utils.StatusDisplay); err != nil {
			return StatusReport{}, err
		}
		if stat.DateOldestJobQueued, err = formatStatusDate(stat.DateOldestJobQueued, utils.StatusDisplay); err != nil {
			return StatusReport{}, err
		}
		report.Stats = append(report.Stats, stat)
	}
	report.Latest = report.Stats[0]

	return report, nil
}

// formatStatusDate truncates an ISO 8601 timestamp for display. Empty
// values pass through; the status feed omits them for idle queues.
func formatStatusDate(value, layout string) (string, error) {
	if value == "" {
		return "", nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
