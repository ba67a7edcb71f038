// Package paging implements the pagination arithmetic shared by the
// paginated report endpoints.
package paging

import (
	"strconv"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// Page sizes fixed per endpoint.
const (
	QueryPageSize      = 100
	ReportListPageSize = 250
	HangReportPageSize = 100
	TopCrasherLimit    = 300
)

// ParsePage reads the page query parameter, defaulting to 1 when absent.
// A non-integer value is a caller fault.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.BadRequest("invalid page")
	}
	return page, nil
}

// Paginate computes offset and page-count state for a result set. A page
// below 1 is rejected. When OutOfRange is set the caller must redirect to
// page TotalPages rather than render; redirecting there and paginating
// again never flags OutOfRange a second time.
func Paginate(total, pageSize, page int) (models.PageResult, error) {
	if page < 1 {
		return models.PageResult{}, utils.BadRequest("page must be 1 or greater")
	}

	totalPages := (total + pageSize - 1) / pageSize
	return models.PageResult{
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
		Offset:     pageSize * (page - 1),
		OutOfRange: totalPages > 0 && page > totalPages,
	}, nil
}
