package utils

import (
	"fmt"
	"time"
)

// Date/time layouts used across the reporting endpoints. The UI and the
// middleware service disagree on formats, and two report-list fields carry
// their own fixed layouts on top of that.
const (
	// UIDateTime is the format search forms submit and display.
	UIDateTime = "01/02/2006 15:04:05"
	// ServiceDateTime is the format the middleware expects in queries.
	ServiceDateTime = "2006-01-02T15:04:05"
	// DayOnly is used for day-granularity fields such as build dates.
	DayOnly = "2006-01-02"

	// ProcessedStamp is the report-list date_processed layout. The feed
	// appends fractional seconds of varying width; the layout leaves them
	// out so time.Parse accepts any width, or none.
	ProcessedStamp = "2006-01-02 15:04:05+00:00"
	// InstallStamp is the report-list install_time layout: no fractional
	// seconds.
	InstallStamp = "2006-01-02 15:04:05+00:00"

	// ProcessedDisplay is how date_processed is shown in report tables.
	ProcessedDisplay = "Jan 02, 2006 15:04"
	// InstallDisplay is how install_time is shown in report tables.
	InstallDisplay = "2006-01-02 15:04:05"
	// StatusDisplay is how status timestamps are shown.
	StatusDisplay = "Jan 02 2006 15:04:05"
	// ClockDisplay is the short hour:minute form used by status plots.
	ClockDisplay = "15:04"
)

// UTCNow returns the current time in UTC.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// ParseUIDate parses a UI-format timestamp as UTC.
func ParseUIDate(value string) (time.Time, error) {
	t, err := time.Parse(UIDateTime, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse ui date %q: %w", value, err)
	}
	return t.UTC(), nil
}

// ParseDay parses a YYYY-MM-DD day string as UTC midnight.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(DayOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", value, err)
	}
	return t.UTC(), nil
}

// UnixMillis converts a day string into epoch milliseconds for chart axes.
func UnixMillis(day string) (int64, error) {
	t, err := ParseDay(day)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}
