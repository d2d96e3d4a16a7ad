package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"example.com/orderboard/services/insights/internal/analytics"
	"example.com/orderboard/services/insights/internal/export"
	"example.com/orderboard/services/insights/internal/services"
	"example.com/orderboard/services/insights/internal/tracing"
)

const dateLayout = "2006-01-02"

// InsightsHandler handles dashboard HTTP requests
type InsightsHandler struct {
	insightsService *services.InsightsService
	tracer          tracing.Tracer
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightsService *services.InsightsService, tracer tracing.Tracer) *InsightsHandler {
	return &InsightsHandler{
		insightsService: insightsService,
		tracer:          tracer,
	}
}

// RangeRequest carries the common query parameters of the report routes.
// All fields are optional; an absent range falls back to the configured
// default reporting window and an absent date falls back to the range end.
type RangeRequest struct {
	Start string `form:"start"`
	End   string `form:"end"`
	Date  string `form:"date"`
}

func (h *InsightsHandler) parseRange(c *gin.Context) (start, end, targetDate time.Time, ok bool) {
	var req RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return start, end, targetDate, false
	}

	start, end = h.insightsService.DefaultRange()
	var err error
	if req.Start != "" {
		if start, err = time.Parse(dateLayout, req.Start); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
			return start, end, targetDate, false
		}
	}
	if req.End != "" {
		if end, err = time.Parse(dateLayout, req.End); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return start, end, targetDate, false
		}
	}
	targetDate = end
	if req.Date != "" {
		if targetDate, err = time.Parse(dateLayout, req.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return start, end, targetDate, false
		}
	}
	return start, end, targetDate, true
}

// HandleDaily returns per-day order/establishment counts.
func (h *InsightsHandler) HandleDaily(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-dashboard-daily")
	defer h.tracer.EndTransaction(txn)

	start, end, _, ok := h.parseRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily": h.insightsService.DailyOverview(c.Request.Context(), start, end)})
}

// HandleHourly returns the dense business-hours distribution for one day.
func (h *InsightsHandler) HandleHourly(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-dashboard-hourly")
	defer h.tracer.EndTransaction(txn)

	start, end, targetDate, ok := h.parseRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"hourly": h.insightsService.HourlyView(c.Request.Context(), start, end, targetDate)})
}

// HandleWeekly returns business-week buckets for one metric and year.
func (h *InsightsHandler) HandleWeekly(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-dashboard-weekly")
	defer h.tracer.EndTransaction(txn)

	start, end, _, ok := h.parseRange(c)
	if !ok {
		return
	}
	metric, year, ok := h.parseWeeklyParams(c, end)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"metric": metric,
		"year":   year,
		"weeks":  h.insightsService.WeeklyView(c.Request.Context(), start, end, metric, year),
	})
}

func (h *InsightsHandler) parseWeeklyParams(c *gin.Context, end time.Time) (analytics.WeekMetric, int, bool) {
	metric := analytics.WeekMetricOrders
	switch c.Query("metric") {
	case "", string(analytics.WeekMetricOrders):
	case string(analytics.WeekMetricCredits):
		metric = analytics.WeekMetricCredits
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "metric must be orders or credits"})
		return metric, 0, false
	}

	year := end.Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := time.Parse("2006", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a four-digit year"})
			return metric, 0, false
		}
		year = parsed.Year()
	}
	return metric, year, true
}

// HandleMonthly returns the monthly rollup with comparisons.
func (h *InsightsHandler) HandleMonthly(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-dashboard-monthly")
	defer h.tracer.EndTransaction(txn)

	start, end, _, ok := h.parseRange(c)
	if !ok {
		return
	}

	creditKey := analytics.CreditByCreated
	switch c.Query("credit_key") {
	case "", string(analytics.CreditByCreated):
	case string(analytics.CreditByCompleted):
		creditKey = analytics.CreditByCompleted
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "credit_key must be created_at or completed_at"})
		return
	}

	c.JSON(http.StatusOK, h.insightsService.Monthly(c.Request.Context(), start, end, creditKey))
}

// HandleConcurrency returns the in-flight order sweep for one day.
func (h *InsightsHandler) HandleConcurrency(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-dashboard-concurrency")
	defer h.tracer.EndTransaction(txn)

	start, end, targetDate, ok := h.parseRange(c)
	if !ok {
		return
	}
	h.tracer.AddAttribute(txn, "date", targetDate.Format(dateLayout))
	c.JSON(http.StatusOK, h.insightsService.ConcurrencyView(c.Request.Context(), start, end, targetDate))
}

// HandleTopEstablishments returns the establishment ranking.
func (h *InsightsHandler) HandleTopEstablishments(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-dashboard-top-establishments")
	defer h.tracer.EndTransaction(txn)

	start, end, _, ok := h.parseRange(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		var req struct {
			Limit int `form:"limit"`
		}
		if err := c.ShouldBindQuery(&req); err != nil || req.Limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = req.Limit
	}
	c.JSON(http.StatusOK, gin.H{
		"top_establishments": h.insightsService.TopEstablishmentsView(c.Request.Context(), start, end, limit),
	})
}

// HandleDashboard returns the combined landing dashboard.
func (h *InsightsHandler) HandleDashboard(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-dashboard-general")
	defer h.tracer.EndTransaction(txn)

	start, end, targetDate, ok := h.parseRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.insightsService.Dashboard(c.Request.Context(), start, end, targetDate))
}

// HandleDailyCSV streams the daily table as a CSV download.
func (h *InsightsHandler) HandleDailyCSV(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-export-daily-csv")
	defer h.tracer.EndTransaction(txn)

	start, end, _, ok := h.parseRange(c)
	if !ok {
		return
	}
	buckets := h.insightsService.DailyOverview(c.Request.Context(), start, end)

	c.Header("Content-Disposition", `attachment; filename="daily.csv"`)
	c.Header("Content-Type", "text/csv")
	if err := export.WriteDaily(c.Writer, buckets); err != nil {
		log.Error().Err(err).Msg("Failed to write daily CSV")
		h.tracer.RecordError(txn, err)
	}
}

// HandleWeeklyCSV streams a weekly aggregate as a CSV download.
func (h *InsightsHandler) HandleWeeklyCSV(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-export-weekly-csv")
	defer h.tracer.EndTransaction(txn)

	start, end, _, ok := h.parseRange(c)
	if !ok {
		return
	}
	metric, year, ok := h.parseWeeklyParams(c, end)
	if !ok {
		return
	}
	buckets := h.insightsService.WeeklyView(c.Request.Context(), start, end, metric, year)

	c.Header("Content-Disposition", `attachment; filename="weekly.csv"`)
	c.Header("Content-Type", "text/csv")
	if err := export.WriteWeekly(c.Writer, buckets, metric); err != nil {
		log.Error().Err(err).Msg("Failed to write weekly CSV")
		h.tracer.RecordError(txn, err)
	}
}

// RegisterRoutes registers the handler's routes
func (h *InsightsHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")

	dashboard := api.Group("/dashboard")
	dashboard.GET("/general", h.HandleDashboard)
	dashboard.GET("/daily", h.HandleDaily)
	dashboard.GET("/hourly", h.HandleHourly)
	dashboard.GET("/weekly", h.HandleWeekly)
	dashboard.GET("/monthly", h.HandleMonthly)
	dashboard.GET("/concurrency", h.HandleConcurrency)
	dashboard.GET("/top-establishments", h.HandleTopEstablishments)

	exports := api.Group("/export")
	exports.GET("/daily.csv", h.HandleDailyCSV)
	exports.GET("/weekly.csv", h.HandleWeeklyCSV)
}
