package services

import (
	"context"
	"fmt"

	"github.com/telinsight/employee-insights-api/internal/sentiment"
)

// ConclusionGenerator turns dashboard statistics into narrative text.
// The production implementation is an external language-model service
// injected at wiring time; this core only defines the port.
type ConclusionGenerator interface {
	Generate(ctx context.Context, stats *DashboardStats) (string, error)
}

// StaticConclusionGenerator is the fallback used when no external
// generator is configured.
type StaticConclusionGenerator struct{}

func (StaticConclusionGenerator) Generate(_ context.Context, stats *DashboardStats) (string, error) {
	if stats == nil || stats.TotalFeedback == 0 {
		return "No feedback has been ingested yet.", nil
	}
	tone := sentiment.Dominant(stats.PositiveRatio, stats.NegativeRatio, stats.NeutralRatio)
	return fmt.Sprintf(
		"Across %d feedback entries covering %d topics, overall sentiment is predominantly %s (%.2f%% positive, %.2f%% negative, %.2f%% neutral).",
		stats.TotalFeedback, stats.TotalInsights, tone,
		stats.PositiveRatio, stats.NegativeRatio, stats.NeutralRatio,
	), nil
}
