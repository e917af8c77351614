package utils

import (
	"time"
)

const DateLayout = "2006-01-02"

// DateOf truncates an instant to its calendar date in the given location.
func DateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween returns the whole calendar days from `from` to `to`.
// Both are truncated to their dates in loc first, so a 23:59 check-in and a
// 00:01 check-in on adjacent days always differ by exactly one day. The dates
// are re-anchored in UTC before subtracting: a DST transition makes a local
// day 23 or 25 hours long, which would otherwise throw off the division.
func DaysBetween(from, to time.Time, loc *time.Location) int {
	a := DateOf(from, loc)
	b := DateOf(to, loc)
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

// ParseClock parses a HH:MM:SS (or HH:MM) string and applies it to date.
func ParseClock(clock string, date time.Time) (time.Time, error) {
	if clock == "" {
		return date, nil
	}

	layout := "15:04:05"
	if len(clock) == 5 {
		layout = "15:04"
	}

	parsed, err := time.Parse(layout, clock)
	if err != nil {
		return date, err
	}

	return time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		parsed.Hour(),
		parsed.Minute(),
		parsed.Second(),
		0,
		date.Location(),
	), nil
}
