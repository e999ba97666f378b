package utils

import (
	"strings"
	"time"
)

// Date layouts accepted by ParseDate, tried in order. Month-first layouts come
// before day-first ones, matching the import templates shipped with the
// product.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// ParseDate parses a calendar date from free-form cell text. The time
// component, if any, is discarded. Returns false when nothing parses.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), true
		}
	}
	return time.Time{}, false
}

// ParsePeriod parses a filing period like "2024-01" (longer strings such as
// "2024-01 (Jan)" are accepted by reading the leading YYYY-MM). Returns the
// first day of the period.
func ParsePeriod(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 7 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01", s[:7])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DateOnly truncates a timestamp to midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns b-a in whole calendar days.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// FormatDate renders a date for display, or "" for the zero value.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
