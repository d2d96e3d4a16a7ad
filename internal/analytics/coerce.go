package analytics

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayouts are the timestamp shapes the reporting table is known to
// produce. Tried in order; the first match wins.
var timeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a timestamp column tolerantly. Empty or malformed
// values report ok=false; callers decide whether that excludes the record
// from their view. This is the single place the tolerance policy lives.
func ParseTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "null") {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate is ParseTime truncated to the calendar date.
func ParseDate(value string) (time.Time, bool) {
	t, ok := ParseTime(value)
	if !ok {
		return time.Time{}, false
	}
	return DateOf(t), true
}

// DateOf drops the clock portion of a timestamp.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CoerceCredits parses a credit cost column. Malformed or empty values
// coerce to zero rather than excluding the record.
func CoerceCredits(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}
