package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cropsight/backend/internal/infrastructure/imaging"
	"github.com/cropsight/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	classifier *usecase.ClassifierService
	statistics *usecase.StatisticsService
	forecaster *usecase.ForecastService
	realtime   *usecase.RealTimeService
	horizon    int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	classifier *usecase.ClassifierService,
	statistics *usecase.StatisticsService,
	forecaster *usecase.ForecastService,
	realtime *usecase.RealTimeService,
	horizon int,
) *Handler {
	if horizon <= 0 {
		horizon = usecase.DefaultHorizonDays
	}
	return &Handler{
		classifier: classifier,
		statistics: statistics,
		forecaster: forecaster,
		realtime:   realtime,
		horizon:    horizon,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cropsight-backend",
		"version": "1.0.0",
	})
}

// AnalyzeImage accepts a multipart product photograph and returns the
// classification result. Upload and decode problems are the only errors the
// endpoint reports; classification itself never fails the caller.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported or corrupt image"})
		return
	}

	result := h.classifier.Analyze(c.Request.Context(), img, header.Filename)
	c.JSON(http.StatusOK, result)
}

// ProductStatistics returns the rolling price statistics for a product.
func (h *Handler) ProductStatistics(c *gin.Context) {
	product := c.Param("name")
	c.JSON(http.StatusOK, h.statistics.Statistics(c.Request.Context(), product))
}

// ProductHistory returns the price series over the trailing days.
func (h *Handler) ProductHistory(c *gin.Context) {
	product := c.Param("name")
	days := intQuery(c, "days", usecase.DefaultStatisticsWindow)
	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"history": h.statistics.History(c.Request.Context(), product, days),
	})
}

// ProductForecast returns the multi-day price prediction.
func (h *Handler) ProductForecast(c *gin.Context) {
	product := c.Param("name")
	days := intQuery(c, "days", h.horizon)
	c.JSON(http.StatusOK, h.forecaster.Forecast(c.Request.Context(), product, days))
}

// ProductRealtime returns the simulated live price quote.
func (h *Handler) ProductRealtime(c *gin.Context) {
	product := c.Param("name")
	c.JSON(http.StatusOK, h.realtime.Quote(c.Request.Context(), product))
}

// intQuery reads a positive integer query parameter with a fallback.
func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
