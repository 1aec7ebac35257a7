package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayDiscardsTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	late := time.Date(2024, 7, 1, 23, 45, 12, 0, loc)
	assert.Equal(t, date(2024, 7, 1), Day(late))
	assert.True(t, SameDay(late, time.Date(2024, 7, 1, 0, 30, 0, 0, loc)))
}

func TestNightsBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"three nights", date(2024, 7, 1), date(2024, 7, 4), 3},
		{"single night", date(2024, 7, 1), date(2024, 7, 2), 1},
		{"same day", date(2024, 7, 1), date(2024, 7, 1), 0},
		{"reversed", date(2024, 7, 4), date(2024, 7, 1), 0},
		{"across month boundary", date(2024, 6, 29), date(2024, 7, 2), 3},
		{"across year boundary", date(2023, 12, 30), date(2024, 1, 2), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NightsBetween(tt.start, tt.end))
		})
	}
}

func TestNightsIgnoresDSTOffsets(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// DST starts on 2024-03-31 in Berlin; the wall-clock interval is
	// 23 hours short of three full days.
	start := time.Date(2024, 3, 30, 12, 0, 0, 0, loc)
	end := time.Date(2024, 4, 2, 11, 0, 0, 0, loc)
	assert.Equal(t, 3, NightsBetween(start, end))
}

func TestNewValidatesOrder(t *testing.T) {
	_, err := New(date(2024, 7, 4), date(2024, 7, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)

	r, err := New(date(2024, 7, 1), date(2024, 7, 4))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Nights())
}

func TestEachDayInclusive(t *testing.T) {
	var days []time.Time
	EachDay(date(2024, 6, 29), date(2024, 7, 2), func(d time.Time) {
		days = append(days, d)
	})
	require.Len(t, days, 4)
	assert.Equal(t, date(2024, 6, 29), days[0])
	assert.Equal(t, date(2024, 7, 2), days[3])
}
