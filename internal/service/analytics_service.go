package service

import (
	"context"

	"paper-digest-be/internal/dto"
	"paper-digest-be/internal/mapper"
	"paper-digest-be/internal/repository/contract"
)

type IAnalyticsService interface {
	GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error)
}

type analyticsService struct {
	analytics contract.JobAnalyticsRepository
	jobMapper *mapper.PaperJobMapper
}

func NewAnalyticsService(analytics contract.JobAnalyticsRepository) IAnalyticsService {
	return &analyticsService{
		analytics: analytics,
		jobMapper: mapper.NewPaperJobMapper(),
	}
}

func (s *analyticsService) GetAnalytics(ctx context.Context) (*dto.AnalyticsResponse, error) {
	summary, err := s.analytics.Summary(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.analytics.ListRecent(ctx, 20)
	if err != nil {
		return nil, err
	}

	return &dto.AnalyticsResponse{
		TotalJobs:            summary.TotalJobs,
		CompletedJobs:        summary.CompletedJobs,
		FailedJobs:           summary.FailedJobs,
		AvgProcessingSeconds: summary.AvgProcessingSecs,
		AvgNoveltyScore:      summary.AvgNoveltyScore,
		TotalTokensUsed:      summary.TotalTokensUsed,
		RecentJobs:           s.jobMapper.ToAnalyticsRecordResponses(recent),
	}, nil
}
