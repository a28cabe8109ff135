package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/sentiment"
	"github.com/telinsight/employee-insights-api/internal/services"
)

type InsightHandler struct {
	log            *logger.Logger
	insightService services.InsightService
	aggregation    services.AggregationService
	conclusion     services.ConclusionGenerator
}

func NewInsightHandler(log *logger.Logger, insightService services.InsightService, aggregation services.AggregationService, conclusion services.ConclusionGenerator) *InsightHandler {
	return &InsightHandler{
		log:            log.With("handler", "InsightHandler"),
		insightService: insightService,
		aggregation:    aggregation,
		conclusion:     conclusion,
	}
}

// POST /api/insights/refresh
func (h *InsightHandler) RefreshKeywordAggregate(c *gin.Context) {
	count, err := h.aggregation.RecomputeKeywordAggregate(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"count": count}, "Successfully refreshed insight summary")
}

// POST /api/insights/refresh/city
func (h *InsightHandler) RefreshCityAggregate(c *gin.Context) {
	count, err := h.aggregation.RecomputeCityAggregate(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, gin.H{"count": count}, "Successfully refreshed city insight")
}

// GET /api/insights/summary
func (h *InsightHandler) Summary(c *gin.Context) {
	rows, err := h.insightService.Summary(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, rows, "Successfully retrieved all insights summary")
}

// GET /api/insights/dashboard
func (h *InsightHandler) Dashboard(c *gin.Context) {
	stats, err := h.insightService.DashboardStats(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, stats, "Successfully retrieved dashboard statistics")
}

// GET /api/insights/top-positive
func (h *InsightHandler) TopPositive(c *gin.Context) {
	rows, err := h.insightService.TopPositive(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, rows, "Successfully retrieved top positive insights")
}

// GET /api/insights/top-negative
func (h *InsightHandler) TopNegative(c *gin.Context) {
	rows, err := h.insightService.TopNegative(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, rows, "Successfully retrieved top negative insights")
}

// GET /api/insights/filter
// Recomputes keyword aggregates over the filtered fact subset; nothing
// is persisted.
func (h *InsightHandler) FilteredAggregate(c *gin.Context) {
	filter, err := parseFeedbackFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	rows, err := h.aggregation.FilteredKeywordAggregate(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, rows, "Successfully computed filtered insights")
}

// GET /api/insights/cities
func (h *InsightHandler) CitySummary(c *gin.Context) {
	rows, err := h.insightService.CitySummary(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, rows, "Successfully retrieved city insights")
}

// GET /api/insights/conclusion
func (h *InsightHandler) Conclusion(c *gin.Context) {
	stats, err := h.insightService.DashboardStats(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	text, err := h.conclusion.Generate(c.Request.Context(), stats)
	if err != nil {
		RespondError(c, http.StatusBadGateway, err)
		return
	}
	RespondOK(c, gin.H{"conclusion": text}, "Successfully generated conclusion")
}

// GET /api/insights/:word
func (h *InsightHandler) SearchByWord(c *gin.Context) {
	word := strings.TrimSpace(c.Param("word"))
	if word == "" {
		RespondError(c, http.StatusBadRequest, fmt.Errorf("word parameter is required"))
		return
	}
	rows, err := h.insightService.SearchByWord(c.Request.Context(), word)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, rows, fmt.Sprintf("Successfully retrieved insights for '%s'", word))
}

// GET /api/feedback
func (h *InsightHandler) ListFeedback(c *gin.Context) {
	filter, err := parseFeedbackFilter(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.insightService.ListFeedback(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondOK(c, result, "Successfully retrieved feedback")
}

func parseFeedbackFilter(c *gin.Context) (repos.FeedbackFilter, error) {
	filter := repos.FeedbackFilter{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if raw := strings.TrimSpace(c.Query("sentiment")); raw != "" {
		switch strings.ToLower(raw) {
		case sentiment.Positive, "positif":
			filter.Sentimen = sentiment.Positive
		case sentiment.Negative, "negatif":
			filter.Sentimen = sentiment.Negative
		case sentiment.Neutral, "netral":
			filter.Sentimen = sentiment.Neutral
		default:
			return filter, fmt.Errorf("unknown sentiment %q", raw)
		}
	}
	if raw := c.Query("date_from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid date_from: %w", err)
		}
		filter.DateFrom = &parsed
	}
	if raw := c.Query("date_to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("invalid date_to: %w", err)
		}
		filter.DateTo = &parsed
	}
	return filter, nil
}
