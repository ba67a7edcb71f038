package params

import (
	"strconv"
	"time"

	"github.com/crashstack/crashstats-web/internal/models"
	"github.com/crashstack/crashstats-web/internal/utils"
)

// ResolveDateRange converts a unit+value pair and an end timestamp into a
// concrete [start, end] window. An unrecognized unit falls back to one week.
func ResolveDateRange(end time.Time, unit string, value int) models.DateWindow {
	var length time.Duration
	switch unit {
	case "weeks":
		length = time.Duration(value) * 7 * 24 * time.Hour
	case "days":
		length = time.Duration(value) * 24 * time.Hour
	case "hours":
		length = time.Duration(value) * time.Hour
	default:
		length = 7 * 24 * time.Hour
	}
	return models.DateWindow{Start: end.Add(-length), End: end}
}

// RangeValue coerces the raw date-range value to an integer. A non-numeric
// value is a caller fault, not silently zeroed.
func RangeValue(raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.BadRequest("range_value must be an integer")
	}
	return value, nil
}

// ResolveDays validates the days query parameter against an endpoint's
// allowed set. Missing or out-of-set integers fall back to the default; a
// non-integer value is a caller fault.
func ResolveDays(raw string, allowed []int, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.BadRequest("days must be an integer")
	}
	for _, a := range allowed {
		if days == a {
			return days, nil
		}
	}
	return fallback, nil
}
