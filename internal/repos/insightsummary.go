package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/types"
)

type InsightSummaryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.InsightSummary) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.InsightSummary, error)
	TopPositive(ctx context.Context, tx *gorm.DB, minPct float64, limit int) ([]*types.InsightSummary, error)
	TopNegative(ctx context.Context, tx *gorm.DB, minPct float64, limit int) ([]*types.InsightSummary, error)
	SearchByWord(ctx context.Context, tx *gorm.DB, term string) ([]*types.InsightSummary, error)
	Totals(ctx context.Context, tx *gorm.DB) (*types.SentimentTotals, error)
}

type insightSummaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInsightSummaryRepo(db *gorm.DB, baseLog *logger.Logger) InsightSummaryRepo {
	repoLog := baseLog.With("repo", "InsightSummaryRepo")
	return &insightSummaryRepo{db: db, log: repoLog}
}

func (r *insightSummaryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.InsightSummary) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	const batchSize = 100
	return transaction.WithContext(ctx).CreateInBatches(&rows, batchSize).Error
}

func (r *insightSummaryRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&types.InsightSummary{}).Error
}

func (r *insightSummaryRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.InsightSummary{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *insightSummaryRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.InsightSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.InsightSummary
	query := transaction.WithContext(ctx).Order("total_count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *insightSummaryRepo) TopPositive(ctx context.Context, tx *gorm.DB, minPct float64, limit int) ([]*types.InsightSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.InsightSummary
	if err := transaction.WithContext(ctx).
		Where("positif_percentage > ?", minPct).
		Order("positif_percentage DESC, total_count DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *insightSummaryRepo) TopNegative(ctx context.Context, tx *gorm.DB, minPct float64, limit int) ([]*types.InsightSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.InsightSummary
	if err := transaction.WithContext(ctx).
		Where("negatif_percentage > ?", minPct).
		Order("negatif_percentage DESC, total_count DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *insightSummaryRepo) SearchByWord(ctx context.Context, tx *gorm.DB, term string) ([]*types.InsightSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.InsightSummary
	if err := transaction.WithContext(ctx).
		Where("LOWER(word_insight) LIKE LOWER(?)", "%"+term+"%").
		Order("total_count DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *insightSummaryRepo) Totals(ctx context.Context, tx *gorm.DB) (*types.SentimentTotals, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var totals types.SentimentTotals
	if err := transaction.WithContext(ctx).
		Model(&types.InsightSummary{}).
		Select("COALESCE(SUM(total_count), 0) AS total, COALESCE(SUM(positif_count), 0) AS positif, COALESCE(SUM(negatif_count), 0) AS negatif, COALESCE(SUM(netral_count), 0) AS netral").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}
