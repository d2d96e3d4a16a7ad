package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeekNumberOverrideTable(t *testing.T) {
	cases := []struct {
		date time.Time
		week int
	}{
		{day(2025, time.January, 1), 1},
		{day(2025, time.January, 5), 1},
		{day(2025, time.December, 29), 53},
		{day(2025, time.December, 31), 53},
		{day(2026, time.January, 1), 1},
		{day(2026, time.January, 4), 1},
		{day(2026, time.January, 5), 2},
		{day(2026, time.January, 11), 2},
		{day(2026, time.December, 28), isoWeek(day(2026, time.December, 31))},
		{day(2027, time.January, 1), 1},
		{day(2027, time.January, 3), 1},
		{day(2027, time.January, 4), 2},
		{day(2027, time.January, 10), 2},
		{day(2027, time.December, 27), isoWeek(day(2027, time.December, 31))},
		{day(2027, time.December, 31), isoWeek(day(2027, time.December, 31))},
	}
	for _, c := range cases {
		require.Equal(t, c.week, WeekNumber(c.date), "date %s", c.date.Format("2006-01-02"))
	}
}

func TestWeekNumberFallsThroughToISO(t *testing.T) {
	// The first date after the fixed week 1 of 2025 is a Monday; ISO
	// numbering takes over from there.
	require.Equal(t, 2, WeekNumber(day(2025, time.January, 6)))

	// Mid-year dates inside the special years still use ISO.
	for _, d := range []time.Time{
		day(2025, time.June, 15),
		day(2026, time.July, 1),
		day(2027, time.March, 9),
	} {
		require.Equal(t, isoWeek(d), WeekNumber(d))
	}
}

func TestWeekNumberOutsideSpecialYearsIsISO(t *testing.T) {
	for _, d := range []time.Time{
		day(2023, time.January, 1),
		day(2024, time.December, 30),
		day(2028, time.January, 3),
		day(2030, time.August, 19),
	} {
		require.Equal(t, isoWeek(d), WeekNumber(d))
	}
}

func TestWeekNumberIgnoresClock(t *testing.T) {
	late := time.Date(2025, time.January, 5, 23, 59, 59, 0, time.UTC)
	require.Equal(t, 1, WeekNumber(late))
}

func TestWeekDateRange(t *testing.T) {
	start, end := WeekDateRange(1)
	require.Equal(t, day(2025, time.January, 1), start)
	require.Equal(t, day(2025, time.January, 5), end)

	start, end = WeekDateRange(2)
	require.Equal(t, day(2025, time.January, 6), start)
	require.Equal(t, day(2025, time.January, 12), end)

	start, end = WeekDateRange(10)
	require.Equal(t, day(2025, time.March, 3), start)
	require.Equal(t, day(2025, time.March, 9), end)
}

func TestWeekDateRangeIsLinearBeyond2025(t *testing.T) {
	// The linear scheme keeps counting seven-day weeks past the year it
	// was anchored in. It is not the inverse of WeekNumber there; this
	// pins the formula, not an equivalence.
	start, end := WeekDateRange(54)
	require.Equal(t, day(2026, time.January, 5), start)
	require.Equal(t, day(2026, time.January, 11), end)
}
