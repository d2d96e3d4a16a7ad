package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"example.com/orderboard/services/insights/config"
	"example.com/orderboard/services/insights/internal/analytics"
	"example.com/orderboard/services/insights/internal/cache"
	"example.com/orderboard/services/insights/internal/metrics"
	"example.com/orderboard/services/insights/internal/models"
	"example.com/orderboard/services/insights/internal/repositories"
	"example.com/orderboard/services/insights/internal/tracing"
)

// OrderFetcher is the order store boundary: one ranged fetch.
type OrderFetcher interface {
	FetchRange(ctx context.Context, start, end time.Time) ([]models.OrderRecord, error)
}

// InsightsService orchestrates the dashboard views: a cached ranged
// fetch feeding the pure aggregation functions in internal/analytics.
type InsightsService struct {
	db         *gorm.DB // Write database
	readOnlyDB *gorm.DB // Read-only database
	orderRepo  OrderFetcher
	cache      *cache.RedisCache
	metrics    *metrics.Metrics
	tracer     tracing.Tracer
	reporting  config.ReportingConfig
}

// GeneralDashboard bundles the views of the landing dashboard, computed
// over a single fetched record set.
type GeneralDashboard struct {
	Daily             []analytics.DayBucket          `json:"daily"`
	Hourly            []analytics.HourBucket         `json:"hourly"`
	TopEstablishments []analytics.EstablishmentBucket `json:"top_establishments"`
	Concurrency       analytics.ConcurrencyResult    `json:"concurrency"`
}

// MonthlyView bundles the monthly rollup with its per-day source table
// and month-over-month comparisons.
type MonthlyView struct {
	Months      []analytics.MonthBucket     `json:"months"`
	Comparisons []analytics.MonthComparison `json:"comparisons"`
	PerDay      []analytics.DayBucket       `json:"per_day"`
}

// NewInsightsService creates a new insights service
func NewInsightsService(
	db *gorm.DB,
	readOnlyDB *gorm.DB,
	redisCache *cache.RedisCache,
	metricsCollector *metrics.Metrics,
	tracer tracing.Tracer,
	reporting config.ReportingConfig,
) *InsightsService {
	return &InsightsService{
		db:         db,
		readOnlyDB: readOnlyDB,
		orderRepo:  repositories.NewOrderRepository(db, readOnlyDB),
		cache:      redisCache,
		metrics:    metricsCollector,
		tracer:     tracer,
		reporting:  reporting,
	}
}

// OrdersForRange returns the raw order rows for [start, end], consulting
// the result cache first. A fetch failure is absorbed: the caller gets an
// empty record set and every aggregate view degrades to its documented
// empty result, never a propagated error.
func (s *InsightsService) OrdersForRange(ctx context.Context, start, end time.Time) []models.OrderRecord {
	txn := s.tracer.StartTransaction("orders-for-range")
	defer s.tracer.EndTransaction(txn)
	s.tracer.AddAttribute(txn, "start", start.Format("2006-01-02"))
	s.tracer.AddAttribute(txn, "end", end.Format("2006-01-02"))

	key := cache.OrdersCacheKey(start, end)

	var cached []models.OrderRecord
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.IncrementCounter("orders_cache_hit")
		return cached
	}
	s.metrics.IncrementCounter("orders_cache_miss")

	span := s.tracer.StartSpan("fetch-order-records", txn)
	began := time.Now()
	records, err := s.orderRepo.FetchRange(ctx, start, end)
	span.End()
	s.metrics.RecordTimer("orders_fetch", time.Since(began).Milliseconds())

	if err != nil {
		// The order store is a collaborator; its failure reads as "no
		// data" to every view rather than a distinct error channel.
		log.Warn().Err(err).
			Str("start", start.Format("2006-01-02")).
			Str("end", end.Format("2006-01-02")).
			Msg("Order fetch failed, reporting empty record set")
		s.tracer.RecordError(txn, err)
		s.metrics.IncrementCounter("orders_fetch_failed")
		s.metrics.SetHealth("order_store", false)
		return nil
	}
	s.metrics.SetHealth("order_store", true)

	if err := s.cache.Set(ctx, key, records, cache.ResultTTL); err != nil {
		log.Debug().Err(err).Msg("Failed to cache order records")
	}

	log.Info().Int("records", len(records)).
		Str("start", start.Format("2006-01-02")).
		Str("end", end.Format("2006-01-02")).
		Msg("Order records fetched")
	return records
}

// DailyOverview returns per-day order and establishment counts.
func (s *InsightsService) DailyOverview(ctx context.Context, start, end time.Time) []analytics.DayBucket {
	records := s.OrdersForRange(ctx, start, end)
	return analytics.DailyOrderEstablishments(records)
}

// HourlyView returns the dense business-hours distribution for one day.
func (s *InsightsService) HourlyView(ctx context.Context, start, end, targetDate time.Time) []analytics.HourBucket {
	records := s.OrdersForRange(ctx, start, end)
	return analytics.HourlyOrders(records, targetDate)
}

// WeeklyView returns business-week buckets for the given metric and year.
func (s *InsightsService) WeeklyView(ctx context.Context, start, end time.Time, metric analytics.WeekMetric, year int) []analytics.WeekBucket {
	records := s.OrdersForRange(ctx, start, end)
	return analytics.WeeklyAggregate(records, metric, year)
}

// Monthly returns the monthly rollup, its comparisons and the per-day
// source table.
func (s *InsightsService) Monthly(ctx context.Context, start, end time.Time, creditKey analytics.CreditDateKey) MonthlyView {
	records := s.OrdersForRange(ctx, start, end)
	months, perDay := analytics.MonthlyRollup(records, creditKey)
	return MonthlyView{
		Months:      months,
		Comparisons: analytics.CompareMonths(months),
		PerDay:      perDay,
	}
}

// ConcurrencyView returns the in-flight sweep for one day.
func (s *InsightsService) ConcurrencyView(ctx context.Context, start, end, targetDate time.Time) analytics.ConcurrencyResult {
	records := s.OrdersForRange(ctx, start, end)
	return analytics.ConcurrencySeries(records, targetDate)
}

// TopEstablishmentsView ranks establishments by completed orders.
func (s *InsightsService) TopEstablishmentsView(ctx context.Context, start, end time.Time, limit int) []analytics.EstablishmentBucket {
	if limit <= 0 {
		limit = s.reporting.TopEstablishmentsLimit
	}
	records := s.OrdersForRange(ctx, start, end)
	return analytics.TopEstablishments(records, limit)
}

// Dashboard computes the landing dashboard views in parallel over one
// record set. The aggregations are pure functions of their input, so the
// fan-out needs no coordination beyond the group wait.
func (s *InsightsService) Dashboard(ctx context.Context, start, end, targetDate time.Time) GeneralDashboard {
	txn := s.tracer.StartTransaction("general-dashboard")
	defer s.tracer.EndTransaction(txn)

	records := s.OrdersForRange(ctx, start, end)

	var dashboard GeneralDashboard
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		dashboard.Daily = analytics.DailyOrderEstablishments(records)
		dashboard.Hourly = analytics.HourlyOrders(records, targetDate)
		dashboard.TopEstablishments = analytics.TopEstablishments(records, s.reporting.TopEstablishmentsLimit)
		return nil
	})
	g.Go(func() error {
		dashboard.Concurrency = analytics.ConcurrencySeries(records, targetDate)
		return nil
	})
	_ = g.Wait()

	return dashboard
}

// DefaultRange is the reporting window used when a request carries no
// explicit range.
func (s *InsightsService) DefaultRange() (time.Time, time.Time) {
	return analytics.DefaultDateRange(s.reporting.DefaultDaysBack)
}

// WarmCache refreshes the cached result for the default reporting window.
// The worker runs this on the cache freshness interval so interactive
// requests rarely pay for a cold fetch.
func (s *InsightsService) WarmCache(ctx context.Context) error {
	start, end := s.DefaultRange()
	records := s.OrdersForRange(ctx, start, end)
	log.Info().Int("records", len(records)).Msg("Report cache warmed")
	return nil
}
