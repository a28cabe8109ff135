package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/types"
)

// FeedbackFilter is the predicate of the ad-hoc aggregation and fact
// queries: every clause is optional and clauses combine conjunctively.
type FeedbackFilter struct {
	Search   string
	Sentimen string
	DateFrom *time.Time
	DateTo   *time.Time
}

func (f FeedbackFilter) IsEmpty() bool {
	return f.Search == "" && f.Sentimen == "" && f.DateFrom == nil && f.DateTo == nil
}

type FeedbackRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.Feedback) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	DeleteAll(ctx context.Context, tx *gorm.DB) error
	ResetSequence(ctx context.Context, tx *gorm.DB) error
	GetFiltered(ctx context.Context, tx *gorm.DB, filter FeedbackFilter) ([]*types.Feedback, error)
	ListFiltered(ctx context.Context, tx *gorm.DB, filter FeedbackFilter, page, pageSize int) ([]*types.Feedback, int64, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

// CreateBatch inserts one pipeline batch. The rows land atomically
// together or not at all; batching across the whole import is the
// pipeline's concern.
func (r *feedbackRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.Feedback) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *feedbackRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Feedback{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *feedbackRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&types.Feedback{}).Error
}

// ResetSequence rewinds the id sequence after a full wipe so a reload
// assigns ids from 1 again.
func (r *feedbackRepo) ResetSequence(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	switch transaction.Dialector.Name() {
	case "sqlite", "sqlite3":
		// sqlite_sequence only exists once an autoincrement insert happened.
		if err := transaction.WithContext(ctx).Exec(`DELETE FROM sqlite_sequence WHERE name = 'feedback'`).Error; err != nil {
			r.log.Debug("sqlite sequence reset skipped", "error", err)
		}
		return nil
	default:
		return transaction.WithContext(ctx).Exec(`ALTER SEQUENCE feedback_id_seq RESTART WITH 1`).Error
	}
}

func (r *feedbackRepo) GetFiltered(ctx context.Context, tx *gorm.DB, filter FeedbackFilter) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Feedback
	query := applyFeedbackFilter(transaction.WithContext(ctx).Model(&types.Feedback{}), filter)
	if err := query.Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *feedbackRepo) ListFiltered(ctx context.Context, tx *gorm.DB, filter FeedbackFilter, page, pageSize int) ([]*types.Feedback, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int64
	if err := applyFeedbackFilter(transaction.WithContext(ctx).Model(&types.Feedback{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Feedback
	query := applyFeedbackFilter(transaction.WithContext(ctx).Model(&types.Feedback{}), filter)
	if err := query.
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func applyFeedbackFilter(query *gorm.DB, filter FeedbackFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(original_text) LIKE LOWER(?) OR LOWER(sentence_insight) LIKE LOWER(?) OR LOWER(word_insight) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	if filter.Sentimen != "" {
		query = query.Where("sentimen = ?", filter.Sentimen)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}
	return query
}
