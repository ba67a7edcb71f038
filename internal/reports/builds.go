// Package reports post-processes middleware result sets into the shapes the
// report pages render.
package reports

import (
	"fmt"
	"sort"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// BuildTypeNightly is the only build type the build listings keep.
const BuildTypeNightly = "Nightly"

// NightlyBuilds filters a daily-builds result down to nightly rows,
// preserving source order. Feed consumers take this list directly.
func NightlyBuilds(rows []models.BuildRow) []models.BuildRow {
	var nightly []models.BuildRow
	for _, row := range rows {
		if row.BuildType == BuildTypeNightly {
			nightly = append(nightly, row)
		}
	}
	return nightly
}

// GroupNightlyBuilds groups nightly rows by their (date, version) pair and
// returns the groups descending by key. Rows within a group keep source
// order.
func GroupNightlyBuilds(rows []models.BuildRow) ([]models.BuildGroup, error) {
	type key struct {
		date    string
		version string
	}

	grouped := make(map[key][]models.BuildRow)
	var order []key
	for _, row := range NightlyBuilds(rows) {
		k := key{date: row.Date, version: row.Version}
		if _, seen := grouped[k]; !seen {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], row)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].date != order[j].date {
			return order[i].date > order[j].date
		}
		return order[i].version > order[j].version
	})

	groups := make([]models.BuildGroup, 0, len(order))
	for _, k := range order {
		date, err := utils.ParseDay(k.date)
		if err != nil {
			return nil, fmt.Errorf("build date: %w", err)
		}
		groups = append(groups, models.BuildGroup{
			Date:    date,
			Version: k.version,
			Builds:  grouped[k],
		})
	}
	return groups, nil
}
