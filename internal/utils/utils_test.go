package utils

import (
	"errors"
	"testing"
	"time"
)

func TestParseUIDate(t *testing.T) {
	got, err := ParseUIDate("09/06/2013 08:50:23")
	if err != nil {
		t.Fatalf("ParseUIDate: %v", err)
	}
	want := time.Date(2013, 9, 6, 8, 50, 23, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseUIDate("2013-09-06"); err == nil {
		t.Error("expected error for service-format date")
	}
}

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2013-09-06")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if got.Hour() != 0 || got.Location() != time.UTC {
		t.Errorf("got %v, want UTC midnight", got)
	}
}

func TestUnixMillis(t *testing.T) {
	got, err := UnixMillis("2013-09-06")
	if err != nil {
		t.Fatalf("UnixMillis: %v", err)
	}
	want := time.Date(2013, 9, 6, 0, 0, 0, 0, time.UTC).UnixMilli()
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestFaultHelpers(t *testing.T) {
	err := BadRequest("page must be 1 or greater")
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("BadRequest does not wrap ErrBadRequest: %v", err)
	}
	if err.Error() != "bad request: page must be 1 or greater" {
		t.Errorf("message = %q", err.Error())
	}

	if !errors.Is(NotFound("no such product"), ErrNotFound) {
		t.Error("NotFound does not wrap ErrNotFound")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewAppError("middleware.search", "request failed", inner)
	if !errors.Is(err, inner) {
		t.Errorf("AppError does not unwrap to its cause: %v", err)
	}
	if got := err.Error(); got != "middleware.search: request failed: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestLatencyTracker(t *testing.T) {
	tracker := NewLatencyTracker(4)
	for _, d := range []time.Duration{10, 20, 30, 40, 50} {
		tracker.Observe(d * time.Millisecond)
	}

	// Oldest sample drops once full.
	if got := tracker.Count(); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}
	if got := tracker.Percentile(0); got != 20*time.Millisecond {
		t.Errorf("p0 = %v, want 20ms after 10ms evicted", got)
	}
	if got := tracker.Percentile(100); got != 50*time.Millisecond {
		t.Errorf("p100 = %v", got)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	if got := NewLatencyTracker(8).Percentile(95); got != 0 {
		t.Errorf("empty tracker percentile = %v, want 0", got)
	}
}
