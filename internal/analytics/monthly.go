package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"example.com/orderboard/services/insights/internal/models"
)

// CreditDateKey selects which timestamp keys credits into a month.
//
// The monthly table deliberately mixes keys: orders are counted by their
// completion month while credits default to the creation month. The two
// sub-tables are computed independently and joined on the month so the
// mismatch stays visible, and the key is configurable so a caller can pin
// either interpretation.
type CreditDateKey string

const (
	CreditByCreated   CreditDateKey = "created_at"
	CreditByCompleted CreditDateKey = "completed_at"
)

// MonthBucket is one calendar month of rolled-up activity. Month is the
// first day of the month.
type MonthBucket struct {
	Month time.Time `json:"month"`
	// AvgActiveEstablishments is the mean across days-in-month of that
	// day's distinct establishment count.
	AvgActiveEstablishments float64 `json:"avg_active_establishments"`
	// UniqueEstablishments counts distinct establishments across the
	// whole month, not averaged.
	UniqueEstablishments int             `json:"unique_establishments"`
	TotalOrders          int             `json:"total_orders"`
	TotalCredits         decimal.Decimal `json:"total_credits"`
	// Ratio is the mean over days of orders/establishments, excluding
	// days with zero establishments; nil when no day qualifies.
	Ratio *float64 `json:"ratio,omitempty"`
	// AvgDailyOrders is the mean order count per day in the month.
	AvgDailyOrders float64 `json:"avg_daily_orders"`
}

// MonthDeltas holds month-over-month percent changes for each rollup
// metric.
type MonthDeltas struct {
	AvgActiveEstablishments float64 `json:"avg_active_establishments"`
	UniqueEstablishments    float64 `json:"unique_establishments"`
	TotalOrders             float64 `json:"total_orders"`
	TotalCredits            float64 `json:"total_credits"`
	Ratio                   float64 `json:"ratio"`
	AvgDailyOrders          float64 `json:"avg_daily_orders"`
}

// MonthComparison pairs a month with its deltas against the immediately
// preceding calendar month. Deltas is nil when that month is absent.
type MonthComparison struct {
	Month  time.Time    `json:"month"`
	Deltas *MonthDeltas `json:"deltas,omitempty"`
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// MonthlyRollup builds the per-month summary table plus the per-day table
// it is derived from. The per-day table is the daily view reused as-is.
//
// Credits are summed in an independent pass keyed by creditKey and joined
// onto the months that have completed orders; a month with credits but no
// completed orders does not appear.
func MonthlyRollup(records []models.OrderRecord, creditKey CreditDateKey) ([]MonthBucket, []DayBucket) {
	perDay := DailyOrderEstablishments(records)

	type monthAgg struct {
		orders    int
		unique    map[int64]struct{}
		dayEst    []int
		dayOrders []int
	}
	months := make(map[time.Time]*monthAgg)

	for _, r := range records {
		date, ok := ParseDate(r.CompletedAt)
		if !ok {
			continue
		}
		m := monthOf(date)
		agg, found := months[m]
		if !found {
			agg = &monthAgg{unique: make(map[int64]struct{})}
			months[m] = agg
		}
		agg.orders++
		agg.unique[r.RestaurantID] = struct{}{}
	}

	// Fold the per-day table into its months for the averaged metrics.
	for _, d := range perDay {
		if agg, found := months[monthOf(d.Date)]; found {
			agg.dayEst = append(agg.dayEst, d.Establishments)
			agg.dayOrders = append(agg.dayOrders, d.Orders)
		}
	}

	// Independent credits sub-table, joined on month below.
	credits := make(map[time.Time]decimal.Decimal)
	for _, r := range records {
		var date time.Time
		var ok bool
		if creditKey == CreditByCompleted {
			date, ok = ParseDate(r.CompletedAt)
		} else {
			date, ok = ParseDate(r.CreatedAt)
		}
		if !ok {
			continue
		}
		m := monthOf(date)
		credits[m] = credits[m].Add(CoerceCredits(r.CreditCost))
	}

	buckets := make([]MonthBucket, 0, len(months))
	for m, agg := range months {
		b := MonthBucket{
			Month:                m,
			UniqueEstablishments: len(agg.unique),
			TotalOrders:          agg.orders,
			TotalCredits:         credits[m],
		}

		var estSum, orderSum, ratioSum float64
		ratioDays := 0
		for i, est := range agg.dayEst {
			estSum += float64(est)
			orderSum += float64(agg.dayOrders[i])
			if est > 0 {
				ratioSum += float64(agg.dayOrders[i]) / float64(est)
				ratioDays++
			}
		}
		if n := len(agg.dayEst); n > 0 {
			b.AvgActiveEstablishments = estSum / float64(n)
			b.AvgDailyOrders = orderSum / float64(n)
		}
		if ratioDays > 0 {
			ratio := ratioSum / float64(ratioDays)
			b.Ratio = &ratio
		}
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month.Before(buckets[j].Month) })
	return buckets, perDay
}

// PercentChange reports the month-over-month change in percent. A
// previous value of zero (or less) yields exactly 0, never infinity: a
// metric appearing from nothing reads as "no prior baseline".
func PercentChange(current, previous float64) float64 {
	if previous > 0 {
		return (current - previous) / previous * 100
	}
	return 0
}

// CompareMonths derives month-over-month deltas for every bucket whose
// immediately preceding calendar month is also present.
func CompareMonths(months []MonthBucket) []MonthComparison {
	byMonth := make(map[time.Time]MonthBucket, len(months))
	for _, m := range months {
		byMonth[m.Month] = m
	}

	comparisons := make([]MonthComparison, 0, len(months))
	for _, cur := range months {
		cmp := MonthComparison{Month: cur.Month}
		if prev, found := byMonth[cur.Month.AddDate(0, -1, 0)]; found {
			cmp.Deltas = &MonthDeltas{
				AvgActiveEstablishments: PercentChange(cur.AvgActiveEstablishments, prev.AvgActiveEstablishments),
				UniqueEstablishments:    PercentChange(float64(cur.UniqueEstablishments), float64(prev.UniqueEstablishments)),
				TotalOrders:             PercentChange(float64(cur.TotalOrders), float64(prev.TotalOrders)),
				TotalCredits:            PercentChange(cur.TotalCredits.InexactFloat64(), prev.TotalCredits.InexactFloat64()),
				Ratio:                   PercentChange(derefRatio(cur.Ratio), derefRatio(prev.Ratio)),
				AvgDailyOrders:          PercentChange(cur.AvgDailyOrders, prev.AvgDailyOrders),
			}
		}
		comparisons = append(comparisons, cmp)
	}
	return comparisons
}

func derefRatio(r *float64) float64 {
	if r == nil {
		return 0
	}
	return *r
}
