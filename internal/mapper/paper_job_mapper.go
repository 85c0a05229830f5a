package mapper

import (
	"paper-digest-be/internal/dto"
	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/model"
)

type PaperJobMapper struct{}

func NewPaperJobMapper() *PaperJobMapper {
	return &PaperJobMapper{}
}

// ToStatusResponse builds the status payload. The result bundle is attached
// only for completed jobs so callers never see partial artifacts.
func (m *PaperJobMapper) ToStatusResponse(job *entity.PaperJob) *dto.JobStatusResponse {
	if job == nil {
		return nil
	}

	resp := &dto.JobStatusResponse{
		JobId:              job.Id.String(),
		ArxivId:            job.ArxivId,
		Status:             string(job.Status),
		CurrentStage:       job.CurrentStage,
		LastCompletedStage: job.LastCompletedStage,
		CreatedAt:          job.CreatedAt,
		UpdatedAt:          job.UpdatedAt,
		Metadata:           m.toMetadataResponse(job.Metadata),
		Steps:              m.toStepResponses(job.Steps),
		ErrorMessage:       job.ErrorMessage,
		TokensUsed:         job.TokensUsed,
		ProcessingSeconds:  job.ProcessingSeconds,
	}

	if job.Status == entity.StatusCompleted {
		resp.Result = &dto.JobResultResponse{
			TechnicalSummary:   job.TechnicalSummary,
			ContextualAnalysis: job.ContextualAnalysis,
			NoveltyScore:       job.NoveltyScore,
			NoveltyAnalysis:    job.NoveltyAnalysis,
			AccessibleSummary:  job.AccessibleSummary,
			Digest:             job.Digest,
			PostThread:         job.PostThread,
			LongPost:           job.LongPost,
		}
	}

	return resp
}

func (m *PaperJobMapper) ToStatusResponses(jobs []*entity.PaperJob) []dto.JobStatusResponse {
	responses := make([]dto.JobStatusResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = *m.ToStatusResponse(job)
	}
	return responses
}

func (m *PaperJobMapper) toMetadataResponse(meta *entity.PaperMetadata) *dto.PaperMetadataResponse {
	if meta == nil {
		return nil
	}
	return &dto.PaperMetadataResponse{
		Title:         meta.Title,
		Authors:       meta.Authors,
		Abstract:      meta.Abstract,
		Categories:    meta.Categories,
		PublishedDate: meta.PublishedDate,
		SourceId:      meta.SourceId,
	}
}

func (m *PaperJobMapper) toStepResponses(steps []entity.ProcessingStep) []dto.ProcessingStepResponse {
	responses := make([]dto.ProcessingStepResponse, len(steps))
	for i, step := range steps {
		responses[i] = dto.ProcessingStepResponse{
			StageName:       step.StageName,
			Status:          string(step.Status),
			StartedAt:       step.StartedAt,
			CompletedAt:     step.CompletedAt,
			DurationSeconds: step.DurationSeconds,
			ErrorMessage:    step.ErrorMessage,
		}
	}
	return responses
}

func (m *PaperJobMapper) ToAnalyticsRecordResponses(records []*model.JobAnalytics) []dto.AnalyticsRecordResponse {
	responses := make([]dto.AnalyticsRecordResponse, len(records))
	for i, r := range records {
		responses[i] = dto.AnalyticsRecordResponse{
			JobId:             r.JobId.String(),
			ArxivId:           r.ArxivId,
			Status:            r.Status,
			NoveltyScore:      r.NoveltyScore,
			TokensUsed:        r.TokensUsed,
			ProcessingSeconds: r.ProcessingSeconds,
			ErrorMessage:      r.ErrorMessage,
			CreatedAt:         r.CreatedAt,
		}
	}
	return responses
}
