package reports

import (
	"fmt"

	"github.com/crashstack/crashstats-web/internal/models"
)

// Summary dimensions queried from the middleware.
const (
	DimArchitecture = "architecture"
	DimFlashVersion = "flash_version"
	DimOS           = "os"
	DimProcessType  = "process_type"
	DimProducts     = "products"
	DimUptime       = "uptime"
)

// SummaryDimensions lists every dimension a signature summary covers.
var SummaryDimensions = []string{
	DimArchitecture,
	DimFlashVersion,
	DimOS,
	DimProcessType,
	DimProducts,
	DimUptime,
}

// ReshapeSignatureSummary converts the per-dimension raw rows into the
// display report. Category dimensions store percentages as fractions
// server-side and are scaled by 100 here; the products dimension is already
// on a 0-100 scale and must not be re-scaled.
func ReshapeSignatureSummary(raw map[string][]models.SignatureSummaryRaw) models.SignatureSummaryReport {
	report := models.SignatureSummaryReport{
		Architectures:   categoryEntries(raw[DimArchitecture]),
		PercentageByOS:  categoryEntries(raw[DimOS]),
		ProcessTypes:    categoryEntries(raw[DimProcessType]),
		FlashVersions:   categoryEntries(raw[DimFlashVersion]),
		UptimeRange:     categoryEntries(raw[DimUptime]),
		ProductVersions: []models.ProductSummaryEntry{},
	}
	for _, row := range raw[DimProducts] {
		report.ProductVersions = append(report.ProductVersions, models.ProductSummaryEntry{
			Product:         row.ProductName,
			Version:         row.VersionString,
			Percentage:      fmt.Sprintf("%.2f", row.Percentage),
			NumberOfCrashes: row.ReportCount,
		})
	}
	return report
}

func categoryEntries(rows []models.SignatureSummaryRaw) []models.SignatureSummaryEntry {
	entries := make([]models.SignatureSummaryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.SignatureSummaryEntry{
			Label:           row.Category,
			Percentage:      fmt.Sprintf("%.2f", row.Percentage*100),
			NumberOfCrashes: row.ReportCount,
		})
	}
	return entries
}
