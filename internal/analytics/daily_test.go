package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/orderboard/services/insights/internal/models"
)

// rec builds an order row the way the reporting table delivers it: all
// timestamps and the credit cost as text.
func rec(id, restaurantID int64, name, accepted, completed, created, credits string) models.OrderRecord {
	return models.OrderRecord{
		OrderID:        id,
		RestaurantID:   restaurantID,
		RestaurantName: name,
		AcceptedAt:     accepted,
		CompletedAt:    completed,
		CreatedAt:      created,
		CreditCost:     credits,
	}
}

func TestDailyOrderEstablishments(t *testing.T) {
	records := []models.OrderRecord{
		rec(1, 10, "A", "", "2025-06-01 12:00:00", "", "1"),
		rec(2, 10, "A", "", "2025-06-01 13:30:00", "", "1"),
		rec(3, 20, "B", "", "2025-06-01 19:45:00", "", "1"),
		rec(4, 20, "B", "", "2025-06-02 11:00:00", "", "1"),
		rec(5, 30, "C", "", "not-a-date", "", "1"),
		rec(6, 30, "C", "", "", "", "1"),
	}

	buckets := DailyOrderEstablishments(records)
	require.Len(t, buckets, 2)

	require.Equal(t, day(2025, time.June, 1), buckets[0].Date)
	require.Equal(t, 3, buckets[0].Orders)
	require.Equal(t, 2, buckets[0].Establishments)
	require.NotNil(t, buckets[0].Average)
	require.InDelta(t, 1.5, *buckets[0].Average, 1e-9)

	require.Equal(t, day(2025, time.June, 2), buckets[1].Date)
	require.Equal(t, 1, buckets[1].Orders)
	require.Equal(t, 1, buckets[1].Establishments)
}

func TestDailyOrderCountConserved(t *testing.T) {
	records := []models.OrderRecord{
		rec(1, 1, "A", "", "2025-03-10 09:00:00", "", "0"),
		rec(2, 1, "A", "", "2025-03-11 10:00:00", "", "0"),
		rec(3, 2, "B", "", "2025-03-12 11:00:00", "", "0"),
		rec(4, 2, "B", "", "garbage", "", "0"),
		rec(5, 3, "C", "", "2025-03-10 20:00:00", "", "0"),
	}

	buckets := DailyOrderEstablishments(records)
	total := 0
	for _, b := range buckets {
		total += b.Orders
	}
	require.Equal(t, 4, total) // one record had no parseable completion
}

func TestDailyOrderEstablishmentsEmptyInput(t *testing.T) {
	require.Empty(t, DailyOrderEstablishments(nil))
	require.Empty(t, DailyOrderEstablishments([]models.OrderRecord{}))
}

func TestHourlyOrdersDenseRange(t *testing.T) {
	target := day(2025, time.June, 1)
	records := []models.OrderRecord{
		rec(1, 1, "A", "", "2025-06-01 08:15:00", "", "0"),
		rec(2, 1, "A", "", "2025-06-01 12:00:00", "", "0"),
		rec(3, 2, "B", "", "2025-06-01 12:59:59", "", "0"),
		rec(4, 2, "B", "", "2025-06-01 23:30:00", "", "0"),
		rec(5, 3, "C", "", "2025-06-01 07:59:00", "", "0"), // before opening
		rec(6, 3, "C", "", "2025-06-02 12:00:00", "", "0"), // other day
		rec(7, 3, "C", "", "bad", "", "0"),
	}

	buckets := HourlyOrders(records, target)
	require.Len(t, buckets, 16)

	sum := 0
	for i, b := range buckets {
		require.Equal(t, BusinessHourStart+i, b.Hour)
		sum += b.Orders
	}
	require.Equal(t, 3, sum)

	require.Equal(t, 1, buckets[0].Orders)  // 8h
	require.Equal(t, 2, buckets[4].Orders)  // 12h
	require.Equal(t, 1, buckets[15].Orders) // 23h
}

func TestHourlyOrdersEmptyInputStillDense(t *testing.T) {
	buckets := HourlyOrders(nil, day(2025, time.June, 1))
	require.Len(t, buckets, 16)
	for _, b := range buckets {
		require.Zero(t, b.Orders)
	}
}

func TestHourLabel(t *testing.T) {
	require.Equal(t, "8:00 AM", HourLabel(8))
	require.Equal(t, "11:00 AM", HourLabel(11))
	require.Equal(t, "12:00 PM", HourLabel(12))
	require.Equal(t, "1:00 PM", HourLabel(13))
	require.Equal(t, "11:00 PM", HourLabel(23))
	// Hour zero never appears in the filtered range but the rule still
	// renders it literally.
	require.Equal(t, "0:00 AM", HourLabel(0))
}

func TestTopEstablishments(t *testing.T) {
	records := []models.OrderRecord{
		rec(1, 1, "Asador", "", "2025-06-01 12:00:00", "", "0"),
		rec(2, 1, "Asador", "", "2025-06-01 13:00:00", "", "0"),
		rec(3, 2, "Bistro", "", "2025-06-01 14:00:00", "", "0"),
		rec(4, 2, "Bistro", "", "2025-06-02 14:00:00", "", "0"),
		rec(5, 2, "Bistro", "", "2025-06-03 14:00:00", "", "0"),
		rec(6, 3, "Cantina", "", "2025-06-01 15:00:00", "", "0"),
		rec(7, 4, "", "", "2025-06-01 16:00:00", "", "0"),       // nameless
		rec(8, 3, "Cantina", "", "broken", "", "0"),             // no completion
	}

	ranked := TopEstablishments(records, 2)
	require.Len(t, ranked, 2)
	require.Equal(t, EstablishmentBucket{Name: "Bistro", Orders: 3}, ranked[0])
	require.Equal(t, EstablishmentBucket{Name: "Asador", Orders: 2}, ranked[1])

	require.Empty(t, TopEstablishments(nil, 10))
}
