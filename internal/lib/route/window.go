package route

import (
	"errors"
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

// Accepted timestamp layouts. Timestamps without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

var errUnrecognizedTimestamp = errors.New("not an ISO-8601 timestamp")

// ParseTimestamp parses an ISO-8601 timestamp such as "2024-08-10T00:00:00Z"
// or "2024-08-10T02:00:00+02:00". A trailing Z is kept as a zero UTC offset.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("timestamp is empty")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errUnrecognizedTimestamp
}

// FormatTimestamp renders t as ISO-8601 with an explicit numeric offset,
// e.g. "2024-08-10T00:00:00+00:00". Fractions are written as microseconds
// and only when present.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02T15:04:05-07:00")
	}
	return t.Format("2006-01-02T15:04:05.000000-07:00")
}

// ParseWindow parses start and end timestamps into a TimeWindow
func ParseWindow(start, end string) (TimeWindow, error) {
	s, err := ParseTimestamp(start)
	if err != nil {
		return TimeWindow{}, &InvalidWindowError{Field: "start_time", Value: start, Err: err}
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return TimeWindow{}, &InvalidWindowError{Field: "end_time", Value: end, Err: err}
	}
	return TimeWindow{Start: s, End: e}, nil
}

// Days returns the number of whole days in the window, at least 1. Partial
// days are truncated, so a 36 hour window is 1 day.
func (w TimeWindow) Days() int {
	days := int(w.End.Sub(w.Start) / day)
	if days < 1 {
		return 1
	}
	return days
}

// Seconds returns the window length in seconds, at least 1
func (w TimeWindow) Seconds() float64 {
	return math.Max(w.End.Sub(w.Start).Seconds(), 1)
}

// Contains reports whether t falls within the window, inclusive
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w TimeWindow) String() string {
	return FormatTimestamp(w.Start) + "/" + FormatTimestamp(w.End)
}
