package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/types"
)

// BookmarkRow pairs a bookmark with the stored aggregate of its keyword,
// when one exists, for display enrichment.
type BookmarkRow struct {
	*types.Bookmark
	Insight *types.InsightSummary `json:"insight,omitempty"`
}

type BookmarkService interface {
	Create(ctx context.Context, feedbackID uint, wordInsight string) (*types.Bookmark, error)
	List(ctx context.Context) ([]*BookmarkRow, error)
	Delete(ctx context.Context, id uint) error
}

type bookmarkService struct {
	db           *gorm.DB
	log          *logger.Logger
	bookmarkRepo repos.BookmarkRepo
	summaryRepo  repos.InsightSummaryRepo
}

func NewBookmarkService(db *gorm.DB, log *logger.Logger, bookmarkRepo repos.BookmarkRepo, summaryRepo repos.InsightSummaryRepo) BookmarkService {
	serviceLog := log.With("service", "BookmarkService")
	return &bookmarkService{
		db:           db,
		log:          serviceLog,
		bookmarkRepo: bookmarkRepo,
		summaryRepo:  summaryRepo,
	}
}

// Create is idempotent on the (feedback, keyword) pair: bookmarking the
// same pair twice returns the existing row.
func (s *bookmarkService) Create(ctx context.Context, feedbackID uint, wordInsight string) (*types.Bookmark, error) {
	if feedbackID == 0 || wordInsight == "" {
		return nil, fmt.Errorf("feedback_id and word_insight are required")
	}
	existing, err := s.bookmarkRepo.GetByPair(ctx, nil, feedbackID, wordInsight)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bookmark: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	bookmark := &types.Bookmark{FeedbackID: feedbackID, WordInsight: wordInsight}
	if err := s.bookmarkRepo.Create(ctx, nil, bookmark); err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}
	return bookmark, nil
}

func (s *bookmarkService) List(ctx context.Context) ([]*BookmarkRow, error) {
	bookmarks, err := s.bookmarkRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summaryRepo.List(ctx, nil, 0)
	if err != nil {
		return nil, err
	}
	byWord := make(map[string]*types.InsightSummary, len(summaries))
	for _, row := range summaries {
		byWord[row.WordInsight] = row
	}

	results := make([]*BookmarkRow, 0, len(bookmarks))
	for _, b := range bookmarks {
		results = append(results, &BookmarkRow{Bookmark: b, Insight: byWord[b.WordInsight]})
	}
	return results, nil
}

func (s *bookmarkService) Delete(ctx context.Context, id uint) error {
	return s.bookmarkRepo.DeleteByID(ctx, nil, id)
}
