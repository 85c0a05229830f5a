package contract

import (
	"context"

	"paper-digest-be/internal/model"
)

// AnalyticsSummary aggregates the durable run history.
type AnalyticsSummary struct {
	TotalJobs         int64   `json:"total_jobs"`
	CompletedJobs     int64   `json:"completed_jobs"`
	FailedJobs        int64   `json:"failed_jobs"`
	AvgProcessingSecs float64 `json:"avg_processing_seconds"`
	AvgNoveltyScore   float64 `json:"avg_novelty_score"`
	TotalTokensUsed   int64   `json:"total_tokens_used"`
}

type JobAnalyticsRepository interface {
	Create(ctx context.Context, record *model.JobAnalytics) error
	ListRecent(ctx context.Context, limit int) ([]*model.JobAnalytics, error)
	Summary(ctx context.Context) (*AnalyticsSummary, error)
}
