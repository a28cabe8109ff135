package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/telinsight/employee-insights-api/internal/logger"
	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/sentiment"
	"github.com/telinsight/employee-insights-api/internal/types"
)

// KeywordAggregate is one row of an on-demand filtered aggregation. It is
// computed fresh per call and never persisted.
type KeywordAggregate struct {
	Rank              int     `json:"rank"`
	WordInsight       string  `json:"word_insight"`
	TotalCount        int     `json:"total_count"`
	PositifCount      int     `json:"positif_count"`
	NegatifCount      int     `json:"negatif_count"`
	NetralCount       int     `json:"netral_count"`
	PositifPercentage float64 `json:"positif_percentage"`
	NegatifPercentage float64 `json:"negatif_percentage"`
	NetralPercentage  float64 `json:"netral_percentage"`
	DominantSentiment string  `json:"dominant_sentiment"`
}

type AggregationService interface {
	RecomputeKeywordAggregate(ctx context.Context) (int, error)
	RecomputeCityAggregate(ctx context.Context) (int, error)
	FilteredKeywordAggregate(ctx context.Context, filter repos.FeedbackFilter) ([]*KeywordAggregate, error)
}

type aggregationService struct {
	db           *gorm.DB
	log          *logger.Logger
	feedbackRepo repos.FeedbackRepo
	summaryRepo  repos.InsightSummaryRepo
	cityRepo     repos.CityInsightRepo
	now          func() time.Time
}

func NewAggregationService(db *gorm.DB, log *logger.Logger, feedbackRepo repos.FeedbackRepo, summaryRepo repos.InsightSummaryRepo, cityRepo repos.CityInsightRepo) AggregationService {
	serviceLog := log.With("service", "AggregationService")
	return &aggregationService{
		db:           db,
		log:          serviceLog,
		feedbackRepo: feedbackRepo,
		summaryRepo:  summaryRepo,
		cityRepo:     cityRepo,
		now:          time.Now,
	}
}

// sentimentBucket accumulates one group during aggregation. Both the
// stored-refresh path and the filtered path are built on the same
// bucketing code so the two can never drift apart.
type sentimentBucket struct {
	key     string
	total   int
	positif int
	negatif int
	netral  int
}

func (b *sentimentBucket) positifPct() float64 { return round2(float64(b.positif) / float64(b.total) * 100) }
func (b *sentimentBucket) negatifPct() float64 { return round2(float64(b.negatif) / float64(b.total) * 100) }
func (b *sentimentBucket) netralPct() float64  { return round2(float64(b.netral) / float64(b.total) * 100) }

// round2 is the single rounding rule for all percentages. The three
// percentages of a group need not sum to exactly 100 after independent
// rounding; that is accepted.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// groupBySentiment buckets rows by keyFn, skipping rows with an empty
// key. A group only exists if at least one row fed it, so zero-count
// groups are never produced.
func groupBySentiment(rows []*types.Feedback, keyFn func(*types.Feedback) string) []*sentimentBucket {
	byKey := make(map[string]*sentimentBucket)
	order := make([]string, 0)
	for _, row := range rows {
		key := keyFn(row)
		if key == "" {
			continue
		}
		bucket, ok := byKey[key]
		if !ok {
			bucket = &sentimentBucket{key: key}
			byKey[key] = bucket
			order = append(order, key)
		}
		bucket.total++
		switch row.Sentimen {
		case sentiment.Positive:
			bucket.positif++
		case sentiment.Negative:
			bucket.negatif++
		default:
			bucket.netral++
		}
	}

	buckets := make([]*sentimentBucket, 0, len(byKey))
	for _, key := range order {
		buckets = append(buckets, byKey[key])
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].total != buckets[j].total {
			return buckets[i].total > buckets[j].total
		}
		return buckets[i].key < buckets[j].key
	})
	return buckets
}

// RecomputeKeywordAggregate rebuilds insight_summary from the fact table:
// full delete then reinsert, never a partial patch.
func (s *aggregationService) RecomputeKeywordAggregate(ctx context.Context) (int, error) {
	rows, err := s.feedbackRepo.GetFiltered(ctx, nil, repos.FeedbackFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to read feedback for keyword aggregate: %w", err)
	}
	buckets := groupBySentiment(rows, func(f *types.Feedback) string { return f.WordInsight })

	now := s.now()
	summaries := make([]*types.InsightSummary, 0, len(buckets))
	for _, b := range buckets {
		summaries = append(summaries, &types.InsightSummary{
			WordInsight:       b.key,
			TotalCount:        b.total,
			PositifCount:      b.positif,
			NegatifCount:      b.negatif,
			NetralCount:       b.netral,
			PositifPercentage: b.positifPct(),
			NegatifPercentage: b.negatifPct(),
			NetralPercentage:  b.netralPct(),
			CreatedAt:         now,
		})
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.summaryRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to clear insight summary: %w", err)
		}
		if err := s.summaryRepo.Create(ctx, tx, summaries); err != nil {
			return fmt.Errorf("failed to insert insight summary: %w", err)
		}
		return nil
	}); err != nil {
		s.log.Error("Keyword aggregate recompute failed", "error", err)
		return 0, err
	}

	s.log.Info("Keyword aggregate recomputed", "groups", len(summaries), "facts", len(rows))
	return len(summaries), nil
}

// RecomputeCityAggregate rebuilds city_insight the same way, decoupled
// from the keyword refresh.
func (s *aggregationService) RecomputeCityAggregate(ctx context.Context) (int, error) {
	rows, err := s.feedbackRepo.GetFiltered(ctx, nil, repos.FeedbackFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to read feedback for city aggregate: %w", err)
	}
	buckets := groupBySentiment(rows, func(f *types.Feedback) string { return f.Kota })

	now := s.now()
	insights := make([]*types.CityInsight, 0, len(buckets))
	for _, b := range buckets {
		insights = append(insights, &types.CityInsight{
			Kota:              b.key,
			TotalCount:        b.total,
			PositifCount:      b.positif,
			NegatifCount:      b.negatif,
			NetralCount:       b.netral,
			PositifPercentage: b.positifPct(),
			NegatifPercentage: b.negatifPct(),
			NetralPercentage:  b.netralPct(),
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.cityRepo.DeleteAll(ctx, tx); err != nil {
			return fmt.Errorf("failed to clear city insight: %w", err)
		}
		if err := s.cityRepo.Create(ctx, tx, insights); err != nil {
			return fmt.Errorf("failed to insert city insight: %w", err)
		}
		return nil
	}); err != nil {
		s.log.Error("City aggregate recompute failed", "error", err)
		return 0, err
	}

	s.log.Info("City aggregate recomputed", "groups", len(insights), "facts", len(rows))
	return len(insights), nil
}

// FilteredKeywordAggregate computes keyword statistics over the filtered
// fact subset. With an empty filter the result matches the stored
// aggregate row for row, modulo ordering and the synthetic rank.
func (s *aggregationService) FilteredKeywordAggregate(ctx context.Context, filter repos.FeedbackFilter) ([]*KeywordAggregate, error) {
	rows, err := s.feedbackRepo.GetFiltered(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to read filtered feedback: %w", err)
	}
	buckets := groupBySentiment(rows, func(f *types.Feedback) string { return f.WordInsight })

	results := make([]*KeywordAggregate, 0, len(buckets))
	for i, b := range buckets {
		posPct, negPct, neuPct := b.positifPct(), b.negatifPct(), b.netralPct()
		results = append(results, &KeywordAggregate{
			Rank:              i + 1,
			WordInsight:       b.key,
			TotalCount:        b.total,
			PositifCount:      b.positif,
			NegatifCount:      b.negatif,
			NetralCount:       b.netral,
			PositifPercentage: posPct,
			NegatifPercentage: negPct,
			NetralPercentage:  neuPct,
			DominantSentiment: sentiment.Dominant(posPct, negPct, neuPct),
		})
	}
	return results, nil
}
