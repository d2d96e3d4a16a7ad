package analytics

import (
	"fmt"
	"sort"
	"time"

	"example.com/orderboard/services/insights/internal/models"
)

// Business hours shown on the hourly distribution, inclusive.
const (
	BusinessHourStart = 8
	BusinessHourEnd   = 23
)

// DayBucket summarizes one calendar day of completed orders.
type DayBucket struct {
	Date           time.Time `json:"date"`
	Orders         int       `json:"orders"`
	Establishments int       `json:"establishments"`
	// Average is orders per establishment; nil when the day has no
	// establishments, which the grouping cannot actually produce but the
	// division is guarded regardless.
	Average *float64 `json:"average,omitempty"`
}

// HourBucket is one hour of the dense business-hours distribution.
type HourBucket struct {
	Hour   int    `json:"hour"`
	Orders int    `json:"orders"`
	Label  string `json:"label"`
}

// EstablishmentBucket ranks one establishment by completed orders.
type EstablishmentBucket struct {
	Name   string `json:"name"`
	Orders int    `json:"orders"`
}

// DailyOrderEstablishments groups records by completion date and counts
// orders and distinct establishments per day. Records without a parseable
// completion timestamp are dropped from this view only. The result is
// sorted by date ascending.
func DailyOrderEstablishments(records []models.OrderRecord) []DayBucket {
	type dayAgg struct {
		orders         int
		establishments map[int64]struct{}
	}
	days := make(map[time.Time]*dayAgg)
	for _, r := range records {
		date, ok := ParseDate(r.CompletedAt)
		if !ok {
			continue
		}
		agg, found := days[date]
		if !found {
			agg = &dayAgg{establishments: make(map[int64]struct{})}
			days[date] = agg
		}
		agg.orders++
		agg.establishments[r.RestaurantID] = struct{}{}
	}

	buckets := make([]DayBucket, 0, len(days))
	for date, agg := range days {
		b := DayBucket{
			Date:           date,
			Orders:         agg.orders,
			Establishments: len(agg.establishments),
		}
		if b.Establishments > 0 {
			avg := float64(b.Orders) / float64(b.Establishments)
			b.Average = &avg
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Date.Before(buckets[j].Date) })
	return buckets
}

// HourlyOrders counts completed orders per hour of day for one target
// date. The result is dense: exactly one bucket per business hour, zero
// filled, regardless of input.
func HourlyOrders(records []models.OrderRecord, targetDate time.Time) []HourBucket {
	target := DateOf(targetDate)
	counts := make(map[int]int)
	for _, r := range records {
		t, ok := ParseTime(r.CompletedAt)
		if !ok || !DateOf(t).Equal(target) {
			continue
		}
		h := t.Hour()
		if h >= BusinessHourStart && h <= BusinessHourEnd {
			counts[h]++
		}
	}

	buckets := make([]HourBucket, 0, BusinessHourEnd-BusinessHourStart+1)
	for h := BusinessHourStart; h <= BusinessHourEnd; h++ {
		buckets = append(buckets, HourBucket{Hour: h, Orders: counts[h], Label: HourLabel(h)})
	}
	return buckets
}

// HourLabel renders an hour of day as a 12-hour clock label.
func HourLabel(hour int) string {
	switch {
	case hour > 12:
		return fmt.Sprintf("%d:00 PM", hour-12)
	case hour < 12:
		return fmt.Sprintf("%d:00 AM", hour)
	default:
		return "12:00 PM"
	}
}

// TopEstablishments ranks establishments by completed-order volume,
// keeping at most limit entries. Records without a name or a parseable
// completion timestamp are excluded. Ties keep name order stable so the
// ranking is deterministic.
func TopEstablishments(records []models.OrderRecord, limit int) []EstablishmentBucket {
	counts := make(map[string]int)
	for _, r := range records {
		if r.RestaurantName == "" {
			continue
		}
		if _, ok := ParseDate(r.CompletedAt); !ok {
			continue
		}
		counts[r.RestaurantName]++
	}

	ranked := make([]EstablishmentBucket, 0, len(counts))
	for name, n := range counts {
		ranked = append(ranked, EstablishmentBucket{Name: name, Orders: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Orders != ranked[j].Orders {
			return ranked[i].Orders > ranked[j].Orders
		}
		return ranked[i].Name < ranked[j].Name
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
