package analytics

import (
	"time"

	"example.com/orderboard/services/insights/internal/models"
)

// bucketWidth is the sweep resolution.
const bucketWidth = time.Minute

// ConcurrencyPoint is one sweep bucket: the count of orders whose
// accepted-to-completed interval overlaps [Start, Start+1m), with
// closed-interval semantics on both ends.
type ConcurrencyPoint struct {
	Start time.Time `json:"start"`
	Count int       `json:"count"`
}

// ConcurrencyResult is the in-flight series for one day plus its peak
// window. HasData is false when no qualifying order exists; all other
// fields are zero-valued in that case.
type ConcurrencyResult struct {
	Points    []ConcurrencyPoint `json:"points,omitempty"`
	Peak      int                `json:"peak"`
	PeakStart time.Time          `json:"peak_start,omitempty"`
	PeakEnd   time.Time          `json:"peak_end,omitempty"`
	HasData   bool               `json:"has_data"`
}

type interval struct {
	accepted  time.Time
	completed time.Time
}

// ConcurrencySeries computes how many orders were simultaneously open
// (accepted but not yet completed) during targetDate, in one-minute
// buckets spanning from the floor-of-hour of the earliest acceptance to
// the ceiling-of-hour of the latest completion.
//
// Orders are filtered to those accepted on targetDate; orders without a
// parseable completion timestamp are dropped. The counts come from an
// event sweep (increment at the first overlapped bucket, decrement after
// the last, prefix sum) and match the naive per-bucket overlap test
// exactly. The peak window is the earliest bucket holding the maximum.
func ConcurrencySeries(records []models.OrderRecord, targetDate time.Time) ConcurrencyResult {
	target := DateOf(targetDate)

	var intervals []interval
	for _, r := range records {
		accepted, ok := ParseTime(r.AcceptedAt)
		if !ok || !DateOf(accepted).Equal(target) {
			continue
		}
		completed, ok := ParseTime(r.CompletedAt)
		if !ok {
			continue
		}
		intervals = append(intervals, interval{accepted: accepted, completed: completed})
	}
	if len(intervals) == 0 {
		return ConcurrencyResult{}
	}

	minTime := intervals[0].accepted
	maxTime := intervals[0].completed
	for _, iv := range intervals[1:] {
		if iv.accepted.Before(minTime) {
			minTime = iv.accepted
		}
		if iv.completed.After(maxTime) {
			maxTime = iv.completed
		}
	}

	origin := minTime.Truncate(time.Hour)
	spanEnd := ceilHour(maxTime)
	n := int(spanEnd.Sub(origin) / bucketWidth)
	if n <= 0 {
		return ConcurrencyResult{}
	}

	// Event sweep: each order covers the contiguous bucket range
	// [firstBucket(accepted), lastBucket(completed)].
	diff := make([]int, n+1)
	for _, iv := range intervals {
		lo := firstBucket(origin, iv.accepted)
		hi := lastBucket(origin, iv.completed, n)
		if lo > hi {
			continue
		}
		diff[lo]++
		diff[hi+1]--
	}

	points := make([]ConcurrencyPoint, n)
	running := 0
	peakIdx := 0
	for i := 0; i < n; i++ {
		running += diff[i]
		points[i] = ConcurrencyPoint{Start: origin.Add(time.Duration(i) * bucketWidth), Count: running}
		if running > points[peakIdx].Count {
			peakIdx = i
		}
	}

	return ConcurrencyResult{
		Points:    points,
		Peak:      points[peakIdx].Count,
		PeakStart: points[peakIdx].Start,
		PeakEnd:   points[peakIdx].Start.Add(bucketWidth),
		HasData:   true,
	}
}

// firstBucket is the lowest bucket index whose end is at or after t,
// i.e. the first bucket the order's interval overlaps.
func firstBucket(origin, t time.Time) int {
	offset := t.Sub(origin)
	idx := int(ceilDiv(int64(offset), int64(bucketWidth))) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}

// lastBucket is the highest bucket index whose start is at or before t,
// clamped to the series.
func lastBucket(origin, t time.Time, n int) int {
	idx := int(t.Sub(origin) / bucketWidth)
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}

func ceilHour(t time.Time) time.Time {
	floored := t.Truncate(time.Hour)
	if floored.Equal(t) {
		return floored
	}
	return floored.Add(time.Hour)
}
