package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{
		"2025-06-01T10:30:00Z",
		"2025-06-01T10:30:00",
		"2025-06-01 10:30:00.123456",
		"2025-06-01 10:30:00",
	} {
		parsed, ok := ParseTime(s)
		require.True(t, ok, "layout %q", s)
		require.Equal(t, 10, parsed.Hour())
	}

	_, ok := ParseTime("")
	require.False(t, ok)
	_, ok = ParseTime("01/06/2025")
	require.False(t, ok)
}

func TestParseDateDropsClock(t *testing.T) {
	parsed, ok := ParseDate("2025-06-01 23:59:59")
	require.True(t, ok)
	require.Equal(t, day(2025, time.June, 1), parsed)

	parsed, ok = ParseDate("2025-06-01")
	require.True(t, ok)
	require.Equal(t, day(2025, time.June, 1), parsed)
}

func TestCoerceCredits(t *testing.T) {
	require.True(t, CoerceCredits("12.50").Equal(decimal.RequireFromString("12.50")))
	require.True(t, CoerceCredits("0").IsZero())
	require.True(t, CoerceCredits("").IsZero())
	require.True(t, CoerceCredits("n/a").IsZero())
}
