package implementation

import (
	"context"

	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/model"
	"paper-digest-be/internal/repository/contract"

	"gorm.io/gorm"
)

type JobAnalyticsRepositoryImpl struct {
	db *gorm.DB
}

func NewJobAnalyticsRepository(db *gorm.DB) contract.JobAnalyticsRepository {
	return &JobAnalyticsRepositoryImpl{db: db}
}

func (r *JobAnalyticsRepositoryImpl) Create(ctx context.Context, record *model.JobAnalytics) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *JobAnalyticsRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*model.JobAnalytics, error) {
	if limit <= 0 {
		limit = 20
	}

	var records []*model.JobAnalytics
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *JobAnalyticsRepositoryImpl) Summary(ctx context.Context) (*contract.AnalyticsSummary, error) {
	var summary contract.AnalyticsSummary

	row := r.db.WithContext(ctx).
		Model(&model.JobAnalytics{}).
		Select(
			"COUNT(*) as total_jobs, "+
				"COUNT(*) FILTER (WHERE status = ?) as completed_jobs, "+
				"COUNT(*) FILTER (WHERE status = ?) as failed_jobs, "+
				"COALESCE(AVG(processing_seconds), 0) as avg_processing_secs, "+
				"COALESCE(AVG(novelty_score), 0) as avg_novelty_score, "+
				"COALESCE(SUM(tokens_used), 0) as total_tokens_used",
			string(entity.StatusCompleted),
			string(entity.StatusFailed),
		).
		Row()

	err := row.Scan(
		&summary.TotalJobs,
		&summary.CompletedJobs,
		&summary.FailedJobs,
		&summary.AvgProcessingSecs,
		&summary.AvgNoveltyScore,
		&summary.TotalTokensUsed,
	)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
