// Package streak computes check-in streaks from calendar dates. Pure
// functions, no clock and no storage.
package streak

import "time"

type Summary struct {
	ConsecutiveDays int
	TotalDays       int
}

// Consecutive walks backward from today through the user's check-in dates
// and counts consecutive calendar days. Dates must be sorted descending and
// truncated to midnight. When today has no record the walk starts at
// yesterday, so an unbroken run up to yesterday still counts.
func Consecutive(datesDesc []time.Time, today time.Time) int {
	if len(datesDesc) == 0 {
		return 0
	}

	cursor := today
	if !sameDay(datesDesc[0], today) {
		cursor = today.AddDate(0, 0, -1)
	}

	count := 0
	for _, d := range datesDesc {
		if sameDay(d, cursor) {
			count++
			cursor = cursor.AddDate(0, 0, -1)
		} else {
			break
		}
	}

	return count
}

// Compute returns the consecutive streak and the total day count in one pass
// over the date set.
func Compute(datesDesc []time.Time, today time.Time) Summary {
	return Summary{
		ConsecutiveDays: Consecutive(datesDesc, today),
		TotalDays:       len(datesDesc),
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
