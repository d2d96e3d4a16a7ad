package analytics

import "time"

// The business counts weeks from its own fiscal calendar: week 1 of 2025
// is the short range Jan 1–5, and the year-boundary weeks of 2025–2027
// are pinned to explicit date ranges that disagree with ISO-8601. Any
// date not covered by the table falls through to the ISO week number.
//
// The table is deliberately literal. No governing rule is known for years
// beyond 2027, so nothing here tries to derive one.

type weekOverride struct {
	start time.Time
	end   time.Time // inclusive
	week  int
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isoWeek(t time.Time) int {
	_, w := t.ISOWeek()
	return w
}

var weekOverrides = []weekOverride{
	{day(2025, time.January, 1), day(2025, time.January, 5), 1},
	{day(2025, time.December, 29), day(2025, time.December, 31), 53},
	{day(2026, time.January, 1), day(2026, time.January, 4), 1},
	{day(2026, time.January, 5), day(2026, time.January, 11), 2},
	{day(2026, time.December, 28), day(2026, time.December, 31), isoWeek(day(2026, time.December, 31))},
	{day(2027, time.January, 1), day(2027, time.January, 3), 1},
	{day(2027, time.January, 4), day(2027, time.January, 10), 2},
	{day(2027, time.December, 27), day(2027, time.December, 31), isoWeek(day(2027, time.December, 31))},
}

// WeekNumber maps a calendar date to its business week number.
func WeekNumber(date time.Time) int {
	d := DateOf(date)
	for _, o := range weekOverrides {
		if !d.Before(o.start) && !d.After(o.end) {
			return o.week
		}
	}
	return isoWeek(d)
}

// WeekDateRange maps a week number to its date range under the linear
// 2025-epoch scheme: week 1 is the fixed range Jan 1–5 2025 and every
// later week is seven days counted from Jan 6 2025.
//
// This is a second, simpler scheme used by the weekly range labels. It is
// only valid relative to 2025 and is NOT the inverse of WeekNumber for
// dates beyond that year; the two schemes coexist by design.
func WeekDateRange(week int) (time.Time, time.Time) {
	if week <= 1 {
		return day(2025, time.January, 1), day(2025, time.January, 5)
	}
	start := day(2025, time.January, 6).AddDate(0, 0, (week-2)*7)
	return start, start.AddDate(0, 0, 6)
}

// DefaultDateRange returns the reporting window ending today and starting
// daysBack days earlier.
func DefaultDateRange(daysBack int) (time.Time, time.Time) {
	end := DateOf(time.Now().UTC())
	return end.AddDate(0, 0, -daysBack), end
}
