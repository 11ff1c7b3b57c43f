// Package interval holds the conflict predicates for reservation time
// extents. The rules are intentionally written once, as single inequalities:
// time-of-day ranges are half-open (a slot ending at 10:00 does not collide
// with one starting at 10:00), date spans are inclusive on both ends (a
// return date blocks that whole day).
package interval

import (
	"fmt"
	"time"
)

const (
	timeLayout = "15:04"
	dateLayout = "2006-01-02"
)

// Span is the time extent claimed by a reservation or requested by a caller.
// StartTime/EndTime are HH:MM strings and are empty for date-span kinds.
type Span struct {
	StartDate time.Time
	EndDate   time.Time
	StartTime string
	EndTime   string
}

// TimesOverlap reports whether two half-open HH:MM ranges collide.
// Fixed-width HH:MM strings compare correctly as strings.
func TimesOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}

// DatesOverlap reports whether two inclusive whole-day spans collide.
func DatesOverlap(start1, end1, start2, end2 time.Time) bool {
	s1, e1 := Day(start1), Day(end1)
	s2, e2 := Day(start2), Day(end2)
	return !s1.After(e2) && !s2.After(e1)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// Day truncates an instant to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseTime validates an HH:MM value and returns it normalized.
func ParseTime(s string) (string, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Format(timeLayout), nil
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date in the canonical YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
