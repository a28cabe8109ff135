package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/normalization"
	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/types"
)

// importBatchSize is the number of rows committed together. A failing
// batch is skipped as a unit; the pipeline moves on to the next one.
const importBatchSize = 100

// ImportSummary reports one pipeline run. FinalCount always equals
// PreviousCount + Inserted; on a full reload PreviousCount is zero.
type ImportSummary struct {
	PreviousCount  int64 `json:"previous_count"`
	Inserted       int   `json:"inserted"`
	Errors         int   `json:"errors"`
	TotalRequested int   `json:"total_requested"`
	FinalCount     int64 `json:"final_count"`
}

type ImportService interface {
	FullReload(ctx context.Context, records []normalization.RawFeedback) (*ImportSummary, error)
	IncrementalAppend(ctx context.Context, records []normalization.RawFeedback) (*ImportSummary, error)
}

type importService struct {
	db           *gorm.DB
	log          *logger.Logger
	feedbackRepo repos.FeedbackRepo
	summaryRepo  repos.InsightSummaryRepo
	cityRepo     repos.CityInsightRepo
	aggregation  AggregationService
	now          func() time.Time
}

func NewImportService(db *gorm.DB, log *logger.Logger, feedbackRepo repos.FeedbackRepo, summaryRepo repos.InsightSummaryRepo, cityRepo repos.CityInsightRepo, aggregation AggregationService) ImportService {
	serviceLog := log.With("service", "ImportService")
	return &importService{
		db:           db,
		log:          serviceLog,
		feedbackRepo: feedbackRepo,
		summaryRepo:  summaryRepo,
		cityRepo:     cityRepo,
		aggregation:  aggregation,
		now:          time.Now,
	}
}

// FullReload wipes the fact table and both aggregates, rewinds the id
// sequence, reinserts the given records and recomputes the aggregates.
// Destructive by design.
func (s *importService) FullReload(ctx context.Context, records []normalization.RawFeedback) (*ImportSummary, error) {
	s.log.Info("Starting full reload", "requested", len(records))

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.feedbackRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to wipe feedback: %w", err)
		}
		if err := s.feedbackRepo.ResetSequence(ctx, tx); err != nil {
			return fmt.Errorf("failed to reset feedback sequence: %w", err)
		}
		if err := s.summaryRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to wipe insight summary: %w", err)
		}
		if err := s.cityRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to wipe city insight: %w", err)
		}
		return nil
	}); err != nil {
		s.log.Error("Full reload wipe failed", "error", err)
		return nil, err
	}

	return s.ingest(ctx, records, 0)
}

// IncrementalAppend inserts new records without touching existing rows.
// No deduplication is performed; resubmission hygiene belongs to the
// caller.
func (s *importService) IncrementalAppend(ctx context.Context, records []normalization.RawFeedback) (*ImportSummary, error) {
	previous, err := s.feedbackRepo.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count existing feedback: %w", err)
	}
	s.log.Info("Starting incremental append", "requested", len(records), "previous", previous)
	return s.ingest(ctx, records, previous)
}

// ingest is the shared tail of both entry points: normalize everything,
// insert batch by batch, then recompute both aggregates. A bad record or
// a failed batch bumps the error count and the run continues.
func (s *importService) ingest(ctx context.Context, records []normalization.RawFeedback, previous int64) (*ImportSummary, error) {
	summary := &ImportSummary{
		PreviousCount:  previous,
		TotalRequested: len(records),
	}

	now := s.now()
	normalized := make([]*types.Feedback, 0, len(records))
	for i, raw := range records {
		row, err := normalization.NormalizeFeedback(raw, now)
		if err != nil {
			summary.Errors++
			s.log.Warn("Record failed normalization, skipping", "index", i, "error", err)
			continue
		}
		normalized = append(normalized, row)
	}

	for start := 0; start < len(normalized); start += importBatchSize {
		end := start + importBatchSize
		if end > len(normalized) {
			end = len(normalized)
		}
		batch := normalized[start:end]
		if err := s.feedbackRepo.CreateBatch(ctx, nil, batch); err != nil {
			summary.Errors += len(batch)
			s.log.Error("Batch insert failed, continuing with next batch", "batch_start", start, "batch_size", len(batch), "error", err)
			continue
		}
		summary.Inserted += len(batch)
	}

	summary.FinalCount = summary.PreviousCount + int64(summary.Inserted)

	if _, err := s.aggregation.RecomputeKeywordAggregate(ctx); err != nil {
		return summary, fmt.Errorf("ingest completed but keyword aggregate refresh failed: %w", err)
	}
	if _, err := s.aggregation.RecomputeCityAggregate(ctx); err != nil {
		return summary, fmt.Errorf("ingest completed but city aggregate refresh failed: %w", err)
	}

	s.log.Info("Ingest finished", "inserted", summary.Inserted, "errors", summary.Errors, "final", summary.FinalCount)
	return summary, nil
}
