package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"example.com/orderboard/services/insights/internal/models"
)

// WeekMetric selects what a weekly aggregate sums.
type WeekMetric string

const (
	// WeekMetricOrders counts orders keyed by completion date.
	WeekMetricOrders WeekMetric = "orders"
	// WeekMetricCredits sums credit cost keyed by creation date.
	WeekMetricCredits WeekMetric = "credits"
)

// WeekBucket is one business week of aggregated activity. FirstDate and
// LastDate are the min/max constituent dates that actually mapped to the
// week within the queried range, not the calendar week's boundaries.
type WeekBucket struct {
	Week      int             `json:"week"`
	FirstDate time.Time       `json:"first_date"`
	LastDate  time.Time       `json:"last_date"`
	Orders    int             `json:"orders,omitempty"`
	Credits   decimal.Decimal `json:"credits"`
}

// WeeklyAggregate groups records into business weeks for one year.
//
// The orders metric counts records per completion date; the credits
// metric sums coerced credit cost per creation date. In both cases,
// records whose keying timestamp does not parse are dropped, dates
// outside the requested year are filtered out, and the remaining dates
// map to weeks through WeekNumber. Result is sorted by week ascending;
// empty input yields an empty slice.
func WeeklyAggregate(records []models.OrderRecord, metric WeekMetric, year int) []WeekBucket {
	type weekAgg struct {
		orders  int
		credits decimal.Decimal
		first   time.Time
		last    time.Time
	}
	weeks := make(map[int]*weekAgg)

	for _, r := range records {
		var date time.Time
		var ok bool
		switch metric {
		case WeekMetricCredits:
			date, ok = ParseDate(r.CreatedAt)
		default:
			date, ok = ParseDate(r.CompletedAt)
		}
		if !ok || date.Year() != year {
			continue
		}

		w := WeekNumber(date)
		agg, found := weeks[w]
		if !found {
			agg = &weekAgg{credits: decimal.Zero, first: date, last: date}
			weeks[w] = agg
		}
		if date.Before(agg.first) {
			agg.first = date
		}
		if date.After(agg.last) {
			agg.last = date
		}
		switch metric {
		case WeekMetricCredits:
			agg.credits = agg.credits.Add(CoerceCredits(r.CreditCost))
		default:
			agg.orders++
		}
	}

	buckets := make([]WeekBucket, 0, len(weeks))
	for w, agg := range weeks {
		buckets = append(buckets, WeekBucket{
			Week:      w,
			FirstDate: agg.first,
			LastDate:  agg.last,
			Orders:    agg.orders,
			Credits:   agg.credits,
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Week < buckets[j].Week })
	return buckets
}
