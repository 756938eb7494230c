package persistence

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the textual form of a calendar date.
const DateLayout = "2006-01-02"

// ClockLayout is the textual form of a time-of-day reading.
const ClockLayout = "15:04"

// CalendarDate drops the time-of-day and zone of t, keeping the date as read
// in t's own location. The result is midnight UTC of that date.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("persistence: invalid date %q: %w", value, err)
	}
	return t, nil
}

// MustDate parses a YYYY-MM-DD date and panics on error. Intended for seed
// data and tests.
func MustDate(value string) time.Time {
	t, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseClock parses an HH:MM reading into minutes after midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("persistence: invalid time of day %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes after midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
