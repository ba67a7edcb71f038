package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// VolumeGraph reshapes a crash-volume result, keyed product:version then
// day, into chart series. Series are ordered by product:version key
// descending so the newest version plots first.
func VolumeGraph(start, end time.Time, crashes map[string]map[string]models.VolumeDay) (models.VolumeGraph, error) {
	graph := models.VolumeGraph{
		StartDate: start.Format(utils.DayOnly),
		EndDate:   end.Format(utils.DayOnly),
	}

	keys := make([]string, 0, len(crashes))
	for key := range crashes {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	for _, key := range keys {
		label := key
		if _, version, found := strings.Cut(key, ":"); found {
			label = version
		}
		series := models.VolumeSeries{Label: label}

		days := make([]string, 0, len(crashes[key]))
		for day := range crashes[key] {
			days = append(days, day)
		}
		sort.Strings(days)

		for _, day := range days {
			millis, err := utils.UnixMillis(day)
			if err != nil {
				return models.VolumeGraph{}, err
			}
			series.Ratios = append(series.Ratios, models.GraphPoint{
				Millis: millis,
				Value:  crashes[key][day].CrashHADU,
			})
		}
		graph.Series = append(graph.Series, series)
	}
	graph.Count = len(graph.Series)

	return graph, nil
}

// TrendGraph reshapes a signature trend into counts and percents chart
// series. percentOfTotal arrives as a fraction and plots on a 0-100 scale.
func TrendGraph(trend models.SignatureTrend) (models.TrendGraph, error) {
	graph := models.TrendGraph{
		StartDate: trend.StartDate,
		EndDate:   trend.EndDate,
		Signature: trend.Signature,
	}
	for _, point := range trend.History {
		millis, err := utils.UnixMillis(point.Date)
		if err != nil {
			return models.TrendGraph{}, err
		}
		graph.Counts = append(graph.Counts, models.GraphPoint{Millis: millis, Value: float64(point.Count)})
		graph.Percents = append(graph.Percents, models.GraphPoint{Millis: millis, Value: point.PercentOfTotal * 100})
	}
	return graph, nil
}
