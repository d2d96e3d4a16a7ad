package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"example.com/orderboard/services/insights/internal/analytics"
)

func TestWriteDaily(t *testing.T) {
	avg := 1.5
	buckets := []analytics.DayBucket{
		{
			Date:           time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			Orders:         3,
			Establishments: 2,
			Average:        &avg,
		},
		{
			Date:           time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
			Orders:         1,
			Establishments: 1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDaily(&buf, buckets))

	want := "date,orders,establishments,average\n" +
		"2025-06-01,3,2,1.50\n" +
		"2025-06-02,1,1,\n"
	require.Equal(t, want, buf.String())
}

func TestWriteDailyEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDaily(&buf, nil))
	require.Equal(t, "date,orders,establishments,average\n", buf.String())
}

func TestWriteWeeklyOrders(t *testing.T) {
	buckets := []analytics.WeekBucket{
		{
			Week:      1,
			FirstDate: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
			LastDate:  time.Date(2025, time.January, 4, 0, 0, 0, 0, time.UTC),
			Orders:    7,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWeekly(&buf, buckets, analytics.WeekMetricOrders))

	want := "week,first_date,last_date,orders\n" +
		"1,2025-01-02,2025-01-04,7\n"
	require.Equal(t, want, buf.String())
}

func TestWriteWeeklyCredits(t *testing.T) {
	buckets := []analytics.WeekBucket{
		{
			Week:      2,
			FirstDate: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
			LastDate:  time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC),
			Credits:   decimal.RequireFromString("14.75"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWeekly(&buf, buckets, analytics.WeekMetricCredits))

	want := "week,first_date,last_date,credits\n" +
		"2,2025-01-06,2025-01-12,14.75\n"
	require.Equal(t, want, buf.String())
}
