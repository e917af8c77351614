package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	instant := time.Date(2026, 9, 1, 23, 59, 59, 0, loc)
	got := DateOf(instant, loc)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, loc), got)
}

func TestDateOfCrossesTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	// 2026-09-01 18:00 UTC is already 2026-09-02 in Shanghai
	instant := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	got := DateOf(instant, loc)

	assert.Equal(t, time.Date(2026, 9, 2, 0, 0, 0, 0, loc), got)
}

func TestDaysBetween(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{
			name: "same day",
			from: time.Date(2026, 9, 1, 8, 0, 0, 0, loc),
			to:   time.Date(2026, 9, 1, 20, 0, 0, 0, loc),
			want: 0,
		},
		{
			name: "adjacent days around midnight",
			from: time.Date(2026, 8, 31, 23, 59, 0, 0, loc),
			to:   time.Date(2026, 9, 1, 0, 1, 0, 0, loc),
			want: 1,
		},
		{
			name: "two full days",
			from: time.Date(2026, 8, 30, 12, 0, 0, 0, loc),
			to:   time.Date(2026, 9, 1, 1, 0, 0, 0, loc),
			want: 2,
		},
		{
			name: "almost 48 hours is still one day apart by calendar",
			from: time.Date(2026, 8, 31, 0, 1, 0, 0, loc),
			to:   time.Date(2026, 9, 1, 23, 59, 0, 0, loc),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to, loc))
		})
	}
}

func TestDaysBetweenAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Clocks spring forward on 2026-03-08, so that local day is 23 hours long.
	from := time.Date(2026, 3, 7, 12, 0, 0, 0, loc)

	// Only 47 elapsed hours, but two calendar days apart.
	assert.Equal(t, 2, DaysBetween(from, time.Date(2026, 3, 9, 12, 0, 0, 0, loc), loc))
	assert.Equal(t, 1, DaysBetween(from, time.Date(2026, 3, 8, 12, 0, 0, 0, loc), loc))
}

func TestParseClock(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseClock("20:30:00", date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 20, 30, 0, 0, time.UTC), got)

	got, err = ParseClock("08:15", date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 8, 15, 0, 0, time.UTC), got)

	_, err = ParseClock("not-a-clock", date)
	assert.Error(t, err)
}
