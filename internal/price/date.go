package price

import (
	"strings"
	"time"
)

// Canonical date layouts. Both sort lexicographically in time order.
const (
	DateLayout     = "20060102"
	DateTimeLayout = "20060102 150405"
)

var parseLayouts = []string{
	DateTimeLayout,
	DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a canonical date or date-time string (ISO dashed forms are
// accepted too). Times are UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CanonicalDate parses s and formats it canonically at its own precision:
// date-times keep their time of day, plain dates stay dates.
func CanonicalDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if strings.Contains(layout, "15") {
				return FormatDateTime(t), true
			}
			return FormatDate(t), true
		}
	}
	return "", false
}

// FormatDate formats t as a canonical date.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatDateTime formats t as a canonical date-time.
func FormatDateTime(t time.Time) string { return t.Format(DateTimeLayout) }

// lastDayOfMonth returns midnight of the last day of t's month.
func lastDayOfMonth(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1)
}

// nextWeekday returns the first day on or after t that falls on wd.
func nextWeekday(t time.Time, wd time.Weekday) time.Time {
	diff := (int(wd) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, diff)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
