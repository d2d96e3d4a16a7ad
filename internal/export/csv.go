// Package export renders aggregate tables as CSV downloads. It is thin
// plumbing over already-computed tables; no aggregation happens here.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"example.com/orderboard/services/insights/internal/analytics"
)

const dateLayout = "2006-01-02"

// WriteDaily writes the daily order/establishment table as CSV.
func WriteDaily(w io.Writer, buckets []analytics.DayBucket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "orders", "establishments", "average"}); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	for _, b := range buckets {
		avg := ""
		if b.Average != nil {
			avg = fmt.Sprintf("%.2f", *b.Average)
		}
		row := []string{
			b.Date.Format(dateLayout),
			strconv.Itoa(b.Orders),
			strconv.Itoa(b.Establishments),
			avg,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

// WriteWeekly writes a weekly aggregate table as CSV. The value column
// follows the metric the table was built with.
func WriteWeekly(w io.Writer, buckets []analytics.WeekBucket, metric analytics.WeekMetric) error {
	valueHeader := "orders"
	if metric == analytics.WeekMetricCredits {
		valueHeader = "credits"
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"week", "first_date", "last_date", valueHeader}); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	for _, b := range buckets {
		value := strconv.Itoa(b.Orders)
		if metric == analytics.WeekMetricCredits {
			value = b.Credits.String()
		}
		row := []string{
			strconv.Itoa(b.Week),
			b.FirstDate.Format(dateLayout),
			b.LastDate.Format(dateLayout),
			value,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}
