package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekBoundsAlwaysMondayToSunday(t *testing.T) {
	base := time.Date(2026, 10, 5, 13, 45, 0, 0, time.UTC) // Monday
	for i := 0; i < 21; i++ {
		today := base.AddDate(0, 0, i)
		start, end := WeekBounds(today)
		assert.Equal(t, time.Monday, start.Weekday(), today)
		assert.Equal(t, time.Sunday, end.Weekday(), today)
		assert.Equal(t, 6*24*time.Hour, end.Sub(start))
		assert.False(t, Day(today).Before(start))
		assert.False(t, Day(today).After(end))
	}
}

func TestWeekBoundsSunday(t *testing.T) {
	start, end := WeekBounds(time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "2026-10-12", FormatDate(start))
	assert.Equal(t, "2026-10-18", FormatDate(end))
}

func TestDayNormalisesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	d := Day(time.Date(2026, 10, 13, 3, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), d)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", FormatDate(d))

	for _, bad := range []string{"", "2026-2-28", "2026-02-30", "28/02/2026"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}
