package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/types"
)

type BookmarkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bookmark *types.Bookmark) error
	GetByPair(ctx context.Context, tx *gorm.DB, feedbackID uint, wordInsight string) (*types.Bookmark, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Bookmark, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uint) error
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	repoLog := baseLog.With("repo", "BookmarkRepo")
	return &bookmarkRepo{db: db, log: repoLog}
}

func (r *bookmarkRepo) Create(ctx context.Context, tx *gorm.DB, bookmark *types.Bookmark) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(bookmark).Error
}

func (r *bookmarkRepo) GetByPair(ctx context.Context, tx *gorm.DB, feedbackID uint, wordInsight string) (*types.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Bookmark
	err := transaction.WithContext(ctx).
		Where("feedback_id = ? AND word_insight = ?", feedbackID, wordInsight).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *bookmarkRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Bookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Bookmark
	if err := transaction.WithContext(ctx).
		Preload("Feedback").
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bookmarkRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uint) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Delete(&types.Bookmark{}, id).Error
}
