package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConsecutive(t *testing.T) {
	today := day(2026, 9, 1)

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{
			name:  "no check-ins",
			dates: nil,
			want:  0,
		},
		{
			name:  "only today",
			dates: []time.Time{today},
			want:  1,
		},
		{
			name: "unbroken run ending today",
			dates: []time.Time{
				day(2026, 9, 1), day(2026, 8, 31), day(2026, 8, 30),
			},
			want: 3,
		},
		{
			name: "today missing, run ends yesterday",
			dates: []time.Time{
				day(2026, 8, 31), day(2026, 8, 30),
			},
			want: 2,
		},
		{
			name: "gap breaks the run",
			dates: []time.Time{
				day(2026, 9, 1), day(2026, 8, 31), day(2026, 8, 28),
			},
			want: 2,
		},
		{
			name: "last check-in two days ago",
			dates: []time.Time{
				day(2026, 8, 30), day(2026, 8, 29),
			},
			want: 0,
		},
		{
			name: "run across a month boundary",
			dates: []time.Time{
				day(2026, 9, 1), day(2026, 8, 31),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Consecutive(tt.dates, today))
		})
	}
}

func TestCompute(t *testing.T) {
	today := day(2026, 9, 1)
	dates := []time.Time{
		day(2026, 9, 1), day(2026, 8, 31), day(2026, 8, 20),
	}

	got := Compute(dates, today)
	assert.Equal(t, 2, got.ConsecutiveDays)
	assert.Equal(t, 3, got.TotalDays)
}

func TestConsecutiveIgnoresTimeOfDay(t *testing.T) {
	today := day(2026, 9, 1)
	dates := []time.Time{
		time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 1, 0, 0, time.UTC),
	}

	assert.Equal(t, 2, Consecutive(dates, today))
}
