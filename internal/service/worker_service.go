package service

import (
	"context"
	"encoding/json"
	"time"

	"paper-digest-be/internal/dto"
	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/model"
	"paper-digest-be/internal/pkg/logger"
	"paper-digest-be/internal/repository/contract"
	"paper-digest-be/internal/repository/memory"
	"paper-digest-be/pkg/events"
	"paper-digest-be/pkg/index"
	"paper-digest-be/pkg/pipeline"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IWorkerService drains the job queue and runs the pipeline.
type IWorkerService interface {
	Consume(ctx context.Context) error
}

type workerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	jobs           *memory.JobRepository
	engine         *pipeline.Engine
	indexer        *index.Indexer
	analytics      contract.JobAnalyticsRepository
	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewWorkerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	jobs *memory.JobRepository,
	engine *pipeline.Engine,
	indexer *index.Indexer,
	analytics contract.JobAnalyticsRepository,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IWorkerService {
	return &workerService{
		pubSub:         pubSub,
		topicName:      topicName,
		jobs:           jobs,
		engine:         engine,
		indexer:        indexer,
		analytics:      analytics,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (ws *workerService) Consume(ctx context.Context) error {
	messages, err := ws.pubSub.Subscribe(ctx, ws.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ws.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ws *workerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessJobMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ws.log.Error("worker", "Failed to unmarshal queue message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages must not loop forever
		return
	}

	started := time.Now()
	final, err := ws.engine.Execute(ctx, payload.JobId)
	if err != nil {
		// Only an unknown job id lands here; nothing to retry.
		ws.log.Error("worker", "Pipeline execution error", map[string]interface{}{
			"job_id": payload.JobId.String(),
			"error":  err.Error(),
		})
		msg.Ack()
		return
	}

	elapsed := time.Since(started).Seconds()
	final, _ = ws.jobs.Update(payload.JobId, func(j *entity.PaperJob) {
		j.ProcessingSeconds = elapsed
	})

	ws.recordAnalytics(ctx, final)
	ws.publishTerminalEvent(ctx, final)
	ws.releaseEmbeddings(ctx, final)

	ws.log.Info("worker", "Job finished", map[string]interface{}{
		"job_id":             payload.JobId.String(),
		"status":             string(final.Status),
		"processing_seconds": elapsed,
	})

	msg.Ack()
}

func (ws *workerService) recordAnalytics(ctx context.Context, job *entity.PaperJob) {
	if ws.analytics == nil || job == nil {
		return
	}

	timings := make(map[string]float64, len(job.Steps))
	for _, step := range job.Steps {
		if step.DurationSeconds != nil {
			timings[step.StageName] = *step.DurationSeconds
		}
	}
	timingsJson, _ := json.Marshal(timings)

	record := &model.JobAnalytics{
		JobId:             job.Id,
		ArxivId:           job.ArxivId,
		Status:            string(job.Status),
		TokensUsed:        job.TokensUsed,
		ProcessingSeconds: job.ProcessingSeconds,
		StageTimings:      timingsJson,
		ErrorMessage:      job.ErrorMessage,
	}
	if job.Status == entity.StatusCompleted {
		score := job.NoveltyScore
		record.NoveltyScore = &score
	}

	if err := ws.analytics.Create(ctx, record); err != nil {
		ws.log.Warn("worker", "Failed to persist analytics record", map[string]interface{}{
			"job_id": job.Id.String(),
			"error":  err.Error(),
		})
	}
}

// releaseEmbeddings drops the finished job's chunk vectors. Retrieval is
// scoped to a job's own run, so nothing reads them afterwards.
func (ws *workerService) releaseEmbeddings(ctx context.Context, job *entity.PaperJob) {
	if ws.indexer == nil || job == nil {
		return
	}
	if err := ws.indexer.Cleanup(ctx, job.Id); err != nil {
		ws.log.Warn("worker", "Failed to release job embeddings", map[string]interface{}{
			"job_id": job.Id.String(),
			"error":  err.Error(),
		})
	}
}

func (ws *workerService) publishTerminalEvent(ctx context.Context, job *entity.PaperJob) {
	if ws.eventPublisher == nil || job == nil {
		return
	}

	var evt events.Event
	switch job.Status {
	case entity.StatusCompleted:
		evt = events.NewJobCompletedEvent(job.Id.String(), job.ProcessingSeconds, job.TokensUsed)
	case entity.StatusFailed:
		stage := ""
		if job.CurrentStage != nil {
			stage = *job.CurrentStage
		} else if job.LastCompletedStage != nil {
			stage = *job.LastCompletedStage
		}
		reason := ""
		if job.ErrorMessage != nil {
			reason = *job.ErrorMessage
		}
		evt = events.NewJobFailedEvent(job.Id.String(), stage, reason)
	default:
		return
	}

	if err := ws.eventPublisher.Publish(ctx, evt); err != nil {
		ws.log.Warn("worker", "Failed to publish event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}
