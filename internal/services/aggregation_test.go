package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/sentiment"
	"github.com/telinsight/employee-insights-api/internal/types"
)

func fact(word, kota, sentimen, text string, day int) *types.Feedback {
	return &types.Feedback{
		SourceData:   "survey",
		EmployeeName: "tester",
		Date:         datatypes.Date(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)),
		Witel:        "Jakarta",
		Kota:         kota,
		OriginalText: text,
		WordInsight:  word,
		Sentimen:     sentimen,
	}
}

func newAggregationFixture(t *testing.T) (AggregationService, repos.FeedbackRepo, repos.InsightSummaryRepo, repos.CityInsightRepo) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger()
	feedbackRepo := repos.NewFeedbackRepo(db, log)
	summaryRepo := repos.NewInsightSummaryRepo(db, log)
	cityRepo := repos.NewCityInsightRepo(db, log)
	svc := NewAggregationService(db, log, feedbackRepo, summaryRepo, cityRepo)
	return svc, feedbackRepo, summaryRepo, cityRepo
}

func TestRecomputeKeywordScenario(t *testing.T) {
	svc, feedbackRepo, summaryRepo, _ := newAggregationFixture(t)
	ctx := context.Background()

	rows := []*types.Feedback{
		fact("layanan", "Bandung", sentiment.Positive, "layanan bagus", 1),
		fact("layanan", "Bandung", sentiment.Positive, "layanan cepat", 2),
		fact("layanan", "Surabaya", sentiment.Negative, "layanan lambat", 3),
	}
	if err := feedbackRepo.CreateBatch(ctx, nil, rows); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	count, err := svc.RecomputeKeywordAggregate(ctx)
	if err != nil {
		t.Fatalf("RecomputeKeywordAggregate failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("group count = %d, want 1", count)
	}

	stored, err := summaryRepo.List(ctx, nil, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored rows = %d, want 1", len(stored))
	}
	row := stored[0]
	if row.WordInsight != "layanan" {
		t.Errorf("word_insight = %q, want %q", row.WordInsight, "layanan")
	}
	if row.TotalCount != 3 || row.PositifCount != 2 || row.NegatifCount != 1 || row.NetralCount != 0 {
		t.Errorf("counts = %d/%d/%d/%d, want 3/2/1/0", row.TotalCount, row.PositifCount, row.NegatifCount, row.NetralCount)
	}
	if row.PositifPercentage != 66.67 || row.NegatifPercentage != 33.33 || row.NetralPercentage != 0 {
		t.Errorf("percentages = %v/%v/%v, want 66.67/33.33/0", row.PositifPercentage, row.NegatifPercentage, row.NetralPercentage)
	}
}

func TestStoredAndFilteredAggregatesAgree(t *testing.T) {
	svc, feedbackRepo, summaryRepo, _ := newAggregationFixture(t)
	ctx := context.Background()

	rows := []*types.Feedback{
		fact("layanan", "Bandung", sentiment.Positive, "a", 1),
		fact("layanan", "Bandung", sentiment.Negative, "b", 2),
		fact("gaji", "Jakarta", sentiment.Negative, "c", 3),
		fact("gaji", "Jakarta", sentiment.Negative, "d", 4),
		fact("gaji", "Medan", sentiment.Neutral, "e", 5),
		fact("karir", "Medan", sentiment.Positive, "f", 6),
	}
	if err := feedbackRepo.CreateBatch(ctx, nil, rows); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.RecomputeKeywordAggregate(ctx); err != nil {
		t.Fatalf("RecomputeKeywordAggregate failed: %v", err)
	}
	stored, err := summaryRepo.List(ctx, nil, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	filtered, err := svc.FilteredKeywordAggregate(ctx, repos.FeedbackFilter{})
	if err != nil {
		t.Fatalf("FilteredKeywordAggregate failed: %v", err)
	}
	if len(filtered) != len(stored) {
		t.Fatalf("filtered groups = %d, stored groups = %d", len(filtered), len(stored))
	}

	byWord := make(map[string]*KeywordAggregate, len(filtered))
	for _, row := range filtered {
		byWord[row.WordInsight] = row
	}
	for _, row := range stored {
		got, ok := byWord[row.WordInsight]
		if !ok {
			t.Fatalf("stored word %q missing from filtered result", row.WordInsight)
		}
		if got.TotalCount != row.TotalCount ||
			got.PositifCount != row.PositifCount ||
			got.NegatifCount != row.NegatifCount ||
			got.NetralCount != row.NetralCount ||
			got.PositifPercentage != row.PositifPercentage ||
			got.NegatifPercentage != row.NegatifPercentage ||
			got.NetralPercentage != row.NetralPercentage {
			t.Errorf("word %q: filtered %+v disagrees with stored %+v", row.WordInsight, got, row)
		}
	}
}

func TestCountConservation(t *testing.T) {
	svc, feedbackRepo, summaryRepo, _ := newAggregationFixture(t)
	ctx := context.Background()

	rows := []*types.Feedback{
		fact("layanan", "Bandung", sentiment.Positive, "a", 1),
		fact("layanan", "Bandung", sentiment.Neutral, "b", 2),
		fact("gaji", "Jakarta", sentiment.Negative, "c", 3),
		fact("gaji", "Jakarta", sentiment.Positive, "d", 4),
		fact("gaji", "Jakarta", sentiment.Neutral, "e", 5),
	}
	if err := feedbackRepo.CreateBatch(ctx, nil, rows); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := svc.RecomputeKeywordAggregate(ctx); err != nil {
		t.Fatalf("RecomputeKeywordAggregate failed: %v", err)
	}

	stored, err := summaryRepo.List(ctx, nil, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, row := range stored {
		if row.PositifCount+row.NegatifCount+row.NetralCount != row.TotalCount {
			t.Errorf("word %q: %d+%d+%d != %d", row.WordInsight, row.PositifCount, row.NegatifCount, row.NetralCount, row.TotalCount)
		}
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	svc, feedbackRepo, summaryRepo, _ := newAggregationFixture(t)
	ctx := context.Background()

	rows := []*types.Feedback{
		fact("layanan", "Bandung", sentiment.Positive, "a", 1),
		fact("gaji", "Jakarta", sentiment.Negative, "b", 2),
		fact("gaji", "Jakarta", sentiment.Neutral, "c", 3),
	}
	if err := feedbackRepo.CreateBatch(ctx, nil, rows); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	type tuple struct {
		total, pos, neg, neu   int
		posPct, negPct, neuPct float64
	}
	snapshot := func() map[string]tuple {
		stored, err := summaryRepo.List(ctx, nil, 0)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		out := make(map[string]tuple, len(stored))
		for _, row := range stored {
			out[row.WordInsight] = tuple{
				total: row.TotalCount, pos: row.PositifCount, neg: row.NegatifCount, neu: row.NetralCount,
				posPct: row.PositifPercentage, negPct: row.NegatifPercentage, neuPct: row.NetralPercentage,
			}
		}
		return out
	}

	if _, err := svc.RecomputeKeywordAggregate(ctx); err != nil {
		t.Fatalf("first recompute failed: %v", err)
	}
	first := snapshot()
	if _, err := svc.RecomputeKeywordAggregate(ctx); err != nil {
		t.Fatalf("second recompute failed: %v", err)
	}
	second := snapshot()

	if len(first) != len(second) {
		t.Fatalf("group count changed between recomputes: %d vs %d", len(first), len(second))
	}
	for word, a := range first {
		b, ok := second[word]
		if !ok {
			t.Fatalf("word %q vanished on second recompute", word)
		}
		if a != b {
			t.Errorf("word %q changed between recomputes: %+v vs %+v", word, a, b)
		}
	}
}

func TestEmptyGroupingKeySkipped(t *testing.T) {
	svc, feedbackRepo, summaryRepo, cityRepo := newAggregationFixture(t)
	ctx := context.Background()

	rows := []*types.Feedback{
		fact("", "", sentiment.Positive, "no keyword or city", 1),
		fact("layanan", "Bandung", sentiment.Positive, "ok", 2),
	}
	if err := feedbackRepo.CreateBatch(ctx, nil, rows); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.RecomputeKeywordAggregate(ctx); err != nil {
		t.Fatalf("RecomputeKeywordAggregate failed: %v", err)
	}
	if _, err := svc.RecomputeCityAggregate(ctx); err != nil {
		t.Fatalf("RecomputeCityAggregate failed: %v", err)
	}

	words, err := summaryRepo.List(ctx, nil, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(words) != 1 || words[0].WordInsight != "layanan" {
		t.Errorf("keyword groups = %v, want only layanan", words)
	}
	cities, err := cityRepo.List(ctx, nil, 0)
	if err != nil {
		t.Fatalf("city List failed: %v", err)
	}
	if len(cities) != 1 || cities[0].Kota != "Bandung" {
		t.Errorf("city groups = %v, want only Bandung", cities)
	}
}

func TestFilteredAggregateHonorsPredicate(t *testing.T) {
	svc, feedbackRepo, _, _ := newAggregationFixture(t)
	ctx := context.Background()

	rows := []*types.Feedback{
		fact("layanan", "Bandung", sentiment.Positive, "respon cepat", 1),
		fact("layanan", "Bandung", sentiment.Negative, "respon lambat", 10),
		fact("gaji", "Jakarta", sentiment.Negative, "kenaikan kecil", 20),
	}
	if err := feedbackRepo.CreateBatch(ctx, nil, rows); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	bySentiment, err := svc.FilteredKeywordAggregate(ctx, repos.FeedbackFilter{Sentimen: sentiment.Negative})
	if err != nil {
		t.Fatalf("sentiment filter failed: %v", err)
	}
	if len(bySentiment) != 2 {
		t.Fatalf("sentiment filter groups = %d, want 2", len(bySentiment))
	}
	for _, row := range bySentiment {
		if row.PositifCount != 0 || row.NegatifCount != row.TotalCount {
			t.Errorf("word %q: negative-only filter produced %+v", row.WordInsight, row)
		}
		if row.DominantSentiment != sentiment.Negative {
			t.Errorf("word %q: dominant = %q, want %q", row.WordInsight, row.DominantSentiment, sentiment.Negative)
		}
	}

	bySearch, err := svc.FilteredKeywordAggregate(ctx, repos.FeedbackFilter{Search: "respon"})
	if err != nil {
		t.Fatalf("search filter failed: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].WordInsight != "layanan" || bySearch[0].TotalCount != 2 {
		t.Fatalf("search filter result = %+v, want single layanan group of 2", bySearch)
	}

	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	byDate, err := svc.FilteredKeywordAggregate(ctx, repos.FeedbackFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("date filter failed: %v", err)
	}
	if len(byDate) != 1 || byDate[0].WordInsight != "layanan" || byDate[0].TotalCount != 1 {
		t.Fatalf("date filter result = %+v, want single layanan group of 1", byDate)
	}

	ranked, err := svc.FilteredKeywordAggregate(ctx, repos.FeedbackFilter{})
	if err != nil {
		t.Fatalf("empty filter failed: %v", err)
	}
	for i, row := range ranked {
		if row.Rank != i+1 {
			t.Errorf("rank at index %d = %d, want %d", i, row.Rank, i+1)
		}
	}
}
