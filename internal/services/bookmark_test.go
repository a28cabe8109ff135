package services

import (
	"context"
	"testing"

	"github.com/telinsight/employee-insights-api/internal/repos"
	"github.com/telinsight/employee-insights-api/internal/sentiment"
	"github.com/telinsight/employee-insights-api/internal/types"
)

func TestBookmarkCreateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	bookmarkRepo := repos.NewBookmarkRepo(db, log)
	summaryRepo := repos.NewInsightSummaryRepo(db, log)
	svc := NewBookmarkService(db, log, bookmarkRepo, summaryRepo)
	ctx := context.Background()

	row := fact("layanan", "Bandung", sentiment.Positive, "text", 1)
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to seed feedback: %v", err)
	}

	first, err := svc.Create(ctx, row.ID, "layanan")
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := svc.Create(ctx, row.ID, "layanan")
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("duplicate pair created a new bookmark: %d vs %d", first.ID, second.ID)
	}

	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("bookmarks = %d, want 1", len(rows))
	}
}

func TestBookmarkListEnrichment(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger()
	bookmarkRepo := repos.NewBookmarkRepo(db, log)
	summaryRepo := repos.NewInsightSummaryRepo(db, log)
	svc := NewBookmarkService(db, log, bookmarkRepo, summaryRepo)
	ctx := context.Background()

	row := fact("layanan", "Bandung", sentiment.Positive, "text", 1)
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to seed feedback: %v", err)
	}
	if err := db.Create(&types.InsightSummary{WordInsight: "layanan", TotalCount: 5, PositifCount: 5, PositifPercentage: 100}).Error; err != nil {
		t.Fatalf("failed to seed summary: %v", err)
	}

	if _, err := svc.Create(ctx, row.ID, "layanan"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Insight == nil {
		t.Fatalf("bookmark not enriched with insight: %+v", rows)
	}
	if rows[0].Insight.TotalCount != 5 {
		t.Errorf("enriched total = %d, want 5", rows[0].Insight.TotalCount)
	}
	if rows[0].Feedback == nil || rows[0].Feedback.WordInsight != "layanan" {
		t.Errorf("bookmark feedback not preloaded: %+v", rows[0].Feedback)
	}

	if err := svc.Delete(ctx, rows[0].Bookmark.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	after, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List after delete failed: %v", err)
	}
	if len(after) != 0 {
		t.Fatalf("bookmarks after delete = %d, want 0", len(after))
	}
}
