package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/sentiment"
	"github.com/telinsight/employee-insights-api/internal/services"
	"github.com/telinsight/employee-insights-api/internal/types"
)

var handlerDBCounter atomic.Int64

func newHandlerFixture(t *testing.T) (*InsightHandler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", handlerDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Feedback{}, &types.InsightSummary{}, &types.CityInsight{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	feedbackRepo := repos.NewFeedbackRepo(db, log)
	summaryRepo := repos.NewInsightSummaryRepo(db, log)
	cityRepo := repos.NewCityInsightRepo(db, log)
	aggregation := services.NewAggregationService(db, log, feedbackRepo, summaryRepo, cityRepo)
	insightService := services.NewInsightService(db, log, summaryRepo, cityRepo, feedbackRepo)
	handler := NewInsightHandler(log, insightService, aggregation, services.StaticConclusionGenerator{})
	return handler, db
}

func decodeEnvelope(t *testing.T, body []byte) APIResponse {
	t.Helper()
	var envelope APIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, body)
	}
	return envelope
}

func TestSummaryEndpointEnvelope(t *testing.T) {
	handler, db := newHandlerFixture(t)
	if err := db.Create(&types.InsightSummary{WordInsight: "layanan", TotalCount: 2, PositifCount: 2, PositifPercentage: 100}).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	router := gin.New()
	router.GET("/api/insights/summary", handler.Summary)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/insights/summary", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	envelope := decodeEnvelope(t, w.Body.Bytes())
	if !envelope.Success {
		t.Fatalf("success = false: %s", envelope.Message)
	}
	rows, ok := envelope.Data.([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("data = %#v, want one summary row", envelope.Data)
	}
}

func TestFilteredEndpointMatchesStoredSemantics(t *testing.T) {
	handler, db := newHandlerFixture(t)

	facts := []*types.Feedback{
		{SourceData: "survey", EmployeeName: "a", Date: datatypes.Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), Witel: "Jabar", Kota: "Bandung", OriginalText: "layanan bagus", WordInsight: "layanan", Sentimen: sentiment.Positive},
		{SourceData: "survey", EmployeeName: "b", Date: datatypes.Date(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), Witel: "Jabar", Kota: "Bandung", OriginalText: "layanan lambat", WordInsight: "layanan", Sentimen: sentiment.Negative},
	}
	if err := db.Create(&facts).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	router := gin.New()
	router.GET("/api/insights/filter", handler.FilteredAggregate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/insights/filter?sentiment=positif", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	envelope := decodeEnvelope(t, w.Body.Bytes())
	if !envelope.Success {
		t.Fatalf("success = false: %s", envelope.Message)
	}
	rows, ok := envelope.Data.([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("data = %#v, want one group", envelope.Data)
	}
	group, ok := rows[0].(map[string]any)
	if !ok {
		t.Fatalf("group = %#v", rows[0])
	}
	if group["word_insight"] != "layanan" || group["total_count"] != float64(1) {
		t.Errorf("group = %#v, want layanan with total 1", group)
	}
}

func TestFilteredEndpointRejectsUnknownSentiment(t *testing.T) {
	handler, _ := newHandlerFixture(t)

	router := gin.New()
	router.GET("/api/insights/filter", handler.FilteredAggregate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/insights/filter?sentiment=bogus", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	envelope := decodeEnvelope(t, w.Body.Bytes())
	if envelope.Success {
		t.Fatal("success = true for invalid sentiment")
	}
}

func TestFilteredEndpointRejectsBadDate(t *testing.T) {
	handler, _ := newHandlerFixture(t)

	router := gin.New()
	router.GET("/api/insights/filter", handler.FilteredAggregate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/insights/filter?date_from=01-01-2024", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestConclusionEndpoint(t *testing.T) {
	handler, db := newHandlerFixture(t)
	if err := db.Create(&types.InsightSummary{WordInsight: "layanan", TotalCount: 4, PositifCount: 3, NegatifCount: 1, PositifPercentage: 75, NegatifPercentage: 25}).Error; err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	router := gin.New()
	router.GET("/api/insights/conclusion", handler.Conclusion)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/insights/conclusion", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	envelope := decodeEnvelope(t, w.Body.Bytes())
	data, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %#v", envelope.Data)
	}
	if text, _ := data["conclusion"].(string); text == "" {
		t.Error("conclusion text is empty")
	}
}
