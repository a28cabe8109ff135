package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/types"
)

type CityInsightRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CityInsight) error
	DeleteAll(ctx context.Context, tx *gorm.DB) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.CityInsight, error)
	Totals(ctx context.Context, tx *gorm.DB) (*types.SentimentTotals, error)
}

type cityInsightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCityInsightRepo(db *gorm.DB, baseLog *logger.Logger) CityInsightRepo {
	repoLog := baseLog.With("repo", "CityInsightRepo")
	return &cityInsightRepo{db: db, log: repoLog}
}

func (r *cityInsightRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CityInsight) error {
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

func (r *cityInsightRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&types.CityInsight{}).Error
}

func (r *cityInsightRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.CityInsight{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *cityInsightRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.CityInsight, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CityInsight
	query := transaction.WithContext(ctx).Order("total_count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cityInsightRepo) Totals(ctx context.Context, tx *gorm.DB) (*types.SentimentTotals, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var totals types.SentimentTotals
	if err := transaction.WithContext(ctx).
		Model(&types.CityInsight{}).
		Select("COALESCE(SUM(total_count), 0) AS total, COALESCE(SUM(positif_count), 0) AS positif, COALESCE(SUM(negatif_count), 0) AS negatif, COALESCE(SUM(netral_count), 0) AS netral").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}
