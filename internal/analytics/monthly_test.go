package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"example.com/orderboard/services/insights/internal/models"
)

func TestMonthlyRollup(t *testing.T) {
	records := []models.OrderRecord{
		// June 1: two establishments, three orders.
		rec(1, 1, "A", "", "2025-06-01 10:00:00", "2025-06-01 09:00:00", "2"),
		rec(2, 1, "A", "", "2025-06-01 11:00:00", "2025-06-01 10:00:00", "2"),
		rec(3, 2, "B", "", "2025-06-01 12:00:00", "2025-06-01 11:00:00", "2"),
		// June 2: one establishment, one order.
		rec(4, 2, "B", "", "2025-06-02 12:00:00", "2025-06-02 11:00:00", "2"),
		// July.
		rec(5, 3, "C", "", "2025-07-05 12:00:00", "2025-07-05 11:00:00", "3"),
		rec(6, 4, "D", "", "broken", "2025-07-05 11:00:00", "3"),
	}

	months, perDay := MonthlyRollup(records, CreditByCreated)
	require.Len(t, months, 2)
	require.Len(t, perDay, 3)

	june := months[0]
	require.Equal(t, day(2025, time.June, 1), june.Month)
	require.Equal(t, 4, june.TotalOrders)
	require.Equal(t, 2, june.UniqueEstablishments)
	require.True(t, june.TotalCredits.Equal(decimal.NewFromInt(8)), "got %s", june.TotalCredits)
	require.InDelta(t, 1.5, june.AvgActiveEstablishments, 1e-9) // (2+1)/2 days
	require.InDelta(t, 2.5, june.AvgDailyOrders, 1e-9)          // (3+1)/2 days
	require.NotNil(t, june.Ratio)
	require.InDelta(t, 1.25, *june.Ratio, 1e-9) // (3/2 + 1/1) / 2

	july := months[1]
	require.Equal(t, day(2025, time.July, 1), july.Month)
	require.Equal(t, 1, july.TotalOrders)
	// The record with the broken completion still contributes credits
	// through its creation date.
	require.True(t, july.TotalCredits.Equal(decimal.NewFromInt(6)), "got %s", july.TotalCredits)
}

func TestMonthlyRollupCreditKey(t *testing.T) {
	// Completed in June, created in May. Under the default key the
	// credits land in May, which has no completed orders and therefore
	// no bucket; June reads zero.
	records := []models.OrderRecord{
		rec(1, 1, "A", "", "2025-06-10 10:00:00", "2025-05-28 09:00:00", "10"),
	}

	months, _ := MonthlyRollup(records, CreditByCreated)
	require.Len(t, months, 1)
	require.Equal(t, day(2025, time.June, 1), months[0].Month)
	require.True(t, months[0].TotalCredits.IsZero(), "got %s", months[0].TotalCredits)

	months, _ = MonthlyRollup(records, CreditByCompleted)
	require.Len(t, months, 1)
	require.True(t, months[0].TotalCredits.Equal(decimal.NewFromInt(10)),
		"got %s", months[0].TotalCredits)
}

func TestMonthlyRollupEmptyInput(t *testing.T) {
	months, perDay := MonthlyRollup(nil, CreditByCreated)
	require.Empty(t, months)
	require.Empty(t, perDay)
}

func TestPercentChange(t *testing.T) {
	require.Equal(t, 50.0, PercentChange(150, 100))
	require.Equal(t, -25.0, PercentChange(75, 100))
	require.Equal(t, 0.0, PercentChange(5, 0))
	require.Equal(t, 0.0, PercentChange(5, -1))
	require.Equal(t, 0.0, PercentChange(0, 0))
}

func TestCompareMonths(t *testing.T) {
	records := []models.OrderRecord{
		rec(1, 1, "A", "", "2025-06-01 10:00:00", "2025-06-01 09:00:00", "4"),
		rec(2, 1, "A", "", "2025-07-01 10:00:00", "2025-07-01 09:00:00", "6"),
		rec(3, 2, "B", "", "2025-07-02 10:00:00", "2025-07-02 09:00:00", "2"),
		// September: gap means no deltas against August.
		rec(4, 1, "A", "", "2025-09-01 10:00:00", "2025-09-01 09:00:00", "1"),
	}

	months, _ := MonthlyRollup(records, CreditByCreated)
	comparisons := CompareMonths(months)
	require.Len(t, comparisons, 3)

	require.Equal(t, day(2025, time.June, 1), comparisons[0].Month)
	require.Nil(t, comparisons[0].Deltas)

	require.Equal(t, day(2025, time.July, 1), comparisons[1].Month)
	require.NotNil(t, comparisons[1].Deltas)
	require.InDelta(t, 100.0, comparisons[1].Deltas.TotalOrders, 1e-9)  // 1 -> 2
	require.InDelta(t, 100.0, comparisons[1].Deltas.TotalCredits, 1e-9) // 4 -> 8

	require.Equal(t, day(2025, time.September, 1), comparisons[2].Month)
	require.Nil(t, comparisons[2].Deltas)
}
