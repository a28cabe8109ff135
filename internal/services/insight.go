package services

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/sentiment"
	"github.com/telinsight/employee-insights-api/internal/types"
)

const (
	topInsightMinPct   = 70.0
	dashboardTopLimit  = 5
	dashboardListLimit = 20
	topInsightLimit    = 10
)

// InsightRow decorates a stored aggregate row with its dominant label.
type InsightRow struct {
	*types.InsightSummary
	DominantSentiment string `json:"dominant_sentiment"`
}

// CityRow is the city-aggregate equivalent.
type CityRow struct {
	*types.CityInsight
	DominantSentiment string `json:"dominant_sentiment"`
}

// DashboardStats is the aggregate-of-aggregates powering the dashboard
// landing view.
type DashboardStats struct {
	TotalInsights       int64         `json:"total_insights"`
	TotalFeedback       int64         `json:"total_feedback"`
	PositiveRatio       float64       `json:"positive_ratio"`
	NegativeRatio       float64       `json:"negative_ratio"`
	NeutralRatio        float64       `json:"neutral_ratio"`
	TopPositiveInsights []*InsightRow `json:"top_positive_insights"`
	TopNegativeInsights []*InsightRow `json:"top_negative_insights"`
	AllInsights         []*InsightRow `json:"all_insights"`
}

type FeedbackPage struct {
	Items    []*types.Feedback `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type InsightService interface {
	Summary(ctx context.Context) ([]*InsightRow, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	TopPositive(ctx context.Context) ([]*InsightRow, error)
	TopNegative(ctx context.Context) ([]*InsightRow, error)
	SearchByWord(ctx context.Context, word string) ([]*InsightRow, error)
	CitySummary(ctx context.Context) ([]*CityRow, error)
	ListFeedback(ctx context.Context, filter repos.FeedbackFilter, page, pageSize int) (*FeedbackPage, error)
}

type insightService struct {
	db           *gorm.DB
	log          *logger.Logger
	summaryRepo  repos.InsightSummaryRepo
	cityRepo     repos.CityInsightRepo
	feedbackRepo repos.FeedbackRepo
}

func NewInsightService(db *gorm.DB, log *logger.Logger, summaryRepo repos.InsightSummaryRepo, cityRepo repos.CityInsightRepo, feedbackRepo repos.FeedbackRepo) InsightService {
	serviceLog := log.With("service", "InsightService")
	return &insightService{
		db:           db,
		log:          serviceLog,
		summaryRepo:  summaryRepo,
		cityRepo:     cityRepo,
		feedbackRepo: feedbackRepo,
	}
}

func decorate(rows []*types.InsightSummary) []*InsightRow {
	results := make([]*InsightRow, 0, len(rows))
	for _, row := range rows {
		results = append(results, &InsightRow{
			InsightSummary:    row,
			DominantSentiment: sentiment.Dominant(row.PositifPercentage, row.NegatifPercentage, row.NetralPercentage),
		})
	}
	return results
}

func (s *insightService) Summary(ctx context.Context) ([]*InsightRow, error) {
	rows, err := s.summaryRepo.List(ctx, nil, 0)
	if err != nil {
		return nil, err
	}
	return decorate(rows), nil
}

// DashboardStats fans the independent read-only queries out
// concurrently; nothing here mutates state.
func (s *insightService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var totals *types.SentimentTotals

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.summaryRepo.Count(gctx, nil)
		if err != nil {
			return err
		}
		stats.TotalInsights = count
		return nil
	})
	g.Go(func() error {
		t, err := s.summaryRepo.Totals(gctx, nil)
		if err != nil {
			return err
		}
		totals = t
		return nil
	})
	g.Go(func() error {
		rows, err := s.summaryRepo.TopPositive(gctx, nil, topInsightMinPct, dashboardTopLimit)
		if err != nil {
			return err
		}
		stats.TopPositiveInsights = decorate(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.summaryRepo.TopNegative(gctx, nil, topInsightMinPct, dashboardTopLimit)
		if err != nil {
			return err
		}
		stats.TopNegativeInsights = decorate(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.summaryRepo.List(gctx, nil, dashboardListLimit)
		if err != nil {
			return err
		}
		stats.AllInsights = decorate(rows)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Dashboard stats query failed", "error", err)
		return nil, err
	}

	stats.TotalFeedback = totals.Total
	if totals.Total > 0 {
		stats.PositiveRatio = round2(float64(totals.Positif) / float64(totals.Total) * 100)
		stats.NegativeRatio = round2(float64(totals.Negatif) / float64(totals.Total) * 100)
		stats.NeutralRatio = round2(float64(totals.Netral) / float64(totals.Total) * 100)
	}
	return stats, nil
}

func (s *insightService) TopPositive(ctx context.Context) ([]*InsightRow, error) {
	rows, err := s.summaryRepo.TopPositive(ctx, nil, topInsightMinPct, topInsightLimit)
	if err != nil {
		return nil, err
	}
	return decorate(rows), nil
}

func (s *insightService) TopNegative(ctx context.Context) ([]*InsightRow, error) {
	rows, err := s.summaryRepo.TopNegative(ctx, nil, topInsightMinPct, topInsightLimit)
	if err != nil {
		return nil, err
	}
	return decorate(rows), nil
}

func (s *insightService) SearchByWord(ctx context.Context, word string) ([]*InsightRow, error) {
	rows, err := s.summaryRepo.SearchByWord(ctx, nil, word)
	if err != nil {
		return nil, err
	}
	return decorate(rows), nil
}

func (s *insightService) CitySummary(ctx context.Context) ([]*CityRow, error) {
	rows, err := s.cityRepo.List(ctx, nil, 0)
	if err != nil {
		return nil, err
	}
	results := make([]*CityRow, 0, len(rows))
	for _, row := range rows {
		results = append(results, &CityRow{
			CityInsight:       row,
			DominantSentiment: sentiment.Dominant(row.PositifPercentage, row.NegatifPercentage, row.NetralPercentage),
		})
	}
	return results, nil
}

func (s *insightService) ListFeedback(ctx context.Context, filter repos.FeedbackFilter, page, pageSize int) (*FeedbackPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	items, total, err := s.feedbackRepo.ListFiltered(ctx, nil, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &FeedbackPage{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
