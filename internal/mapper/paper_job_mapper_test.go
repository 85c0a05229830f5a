package mapper

import (
	"testing"
	"time"

	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToStatusResponseWithholdsResultUntilCompleted(t *testing.T) {
	m := NewPaperJobMapper()

	job := entity.NewPaperJob("2401.12345", "", "", "")
	job.Digest = "partial digest"

	resp := m.ToStatusResponse(job)
	assert.Equal(t, job.Id.String(), resp.JobId)
	assert.Equal(t, string(entity.StatusQueued), resp.Status)
	assert.Nil(t, resp.Result, "queued job must not expose artifacts")

	job.Status = entity.StatusCompleted
	job.NoveltyScore = 0.7
	job.PostThread = []string{"1/5 🧵 hook"}

	resp = m.ToStatusResponse(job)
	assert.NotNil(t, resp.Result)
	assert.Equal(t, "partial digest", resp.Result.Digest)
	assert.Equal(t, 0.7, resp.Result.NoveltyScore)
	assert.Equal(t, []string{"1/5 🧵 hook"}, resp.Result.PostThread)
}

func TestToStatusResponseMapsMetadataAndSteps(t *testing.T) {
	m := NewPaperJobMapper()

	completed := time.Now()
	duration := 1.5
	job := entity.NewPaperJob("2401.12345", "", "", "")
	job.Metadata = &entity.PaperMetadata{
		Title:   "Attention Is All You Need",
		Authors: []string{"Vaswani", "Shazeer"},
	}
	job.Steps = []entity.ProcessingStep{
		{
			StageName:       "ingestion",
			Status:          entity.StatusCompleted,
			StartedAt:       completed.Add(-2 * time.Second),
			CompletedAt:     &completed,
			DurationSeconds: &duration,
		},
	}

	resp := m.ToStatusResponse(job)
	assert.Equal(t, "Attention Is All You Need", resp.Metadata.Title)
	assert.Len(t, resp.Steps, 1)
	assert.Equal(t, "ingestion", resp.Steps[0].StageName)
	assert.Equal(t, &duration, resp.Steps[0].DurationSeconds)
}

func TestToStatusResponseNilJob(t *testing.T) {
	assert.Nil(t, NewPaperJobMapper().ToStatusResponse(nil))
}

func TestToAnalyticsRecordResponses(t *testing.T) {
	m := NewPaperJobMapper()

	score := 0.85
	records := []*model.JobAnalytics{
		{
			JobId:             uuid.New(),
			ArxivId:           "2401.12345",
			Status:            string(entity.StatusCompleted),
			NoveltyScore:      &score,
			TokensUsed:        1200,
			ProcessingSeconds: 42.5,
		},
	}

	responses := m.ToAnalyticsRecordResponses(records)
	assert.Len(t, responses, 1)
	assert.Equal(t, records[0].JobId.String(), responses[0].JobId)
	assert.Equal(t, &score, responses[0].NoveltyScore)
	assert.Equal(t, 1200, responses[0].TokensUsed)
}
