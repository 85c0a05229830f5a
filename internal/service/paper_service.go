package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"paper-digest-be/internal/dto"
	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/mapper"
	"paper-digest-be/internal/pkg/logger"
	"paper-digest-be/internal/pkg/serverutils"
	"paper-digest-be/internal/repository/memory"
	"paper-digest-be/pkg/events"

	"github.com/google/uuid"
)

// CancelledMessage is the fixed error recorded on user-cancelled jobs.
const CancelledMessage = "Processing cancelled by user request"

const defaultListLimit = 20

// EventPublisher is the slice of the NATS publisher the services need.
// Lifecycle events are auxiliary: failures are logged, never surfaced.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IPaperService interface {
	SubmitJob(ctx context.Context, req *dto.ProcessPaperRequest) (*dto.JobQueuedResponse, error)
	GetJobStatus(ctx context.Context, jobId string) (*dto.JobStatusResponse, error)
	GetJobResult(ctx context.Context, jobId string) (*dto.JobResultResponse, error)
	ListJobs(ctx context.Context, status string, limit, offset int) (*dto.JobListResponse, error)
	CancelJob(ctx context.Context, jobId string) (*dto.CancelJobResponse, error)
	ExportJob(ctx context.Context, jobId string, format string) (*dto.ExportPayload, error)
}

type paperService struct {
	jobs             *memory.JobRepository
	publisherService IPublisherService
	eventPublisher   EventPublisher
	jobMapper        *mapper.PaperJobMapper
	log              logger.ILogger
}

func NewPaperService(
	jobs *memory.JobRepository,
	publisherService IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IPaperService {
	return &paperService{
		jobs:             jobs,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		jobMapper:        mapper.NewPaperJobMapper(),
		log:              log,
	}
}

func (s *paperService) SubmitJob(ctx context.Context, req *dto.ProcessPaperRequest) (*dto.JobQueuedResponse, error) {
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	if req.ArxivId == "" && req.PdfUrl == "" && req.FilePath == "" {
		return nil, fmt.Errorf("%w: one of arxiv_id, pdf_url or file_path is required", ErrInvalidInput)
	}

	job := entity.NewPaperJob(req.ArxivId, req.PdfUrl, req.FilePath, req.UserQuery)
	s.jobs.Insert(job)

	msgJson, err := json.Marshal(dto.ProcessJobMessage{JobId: job.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewJobQueuedEvent(job.Id.String(), jobSourceLabel(job)))

	s.log.Info("paper", "Job queued", map[string]interface{}{
		"job_id":   job.Id.String(),
		"arxiv_id": job.ArxivId,
	})

	return &dto.JobQueuedResponse{
		JobId:   job.Id.String(),
		Status:  string(job.Status),
		Message: "Paper queued for processing",
	}, nil
}

func (s *paperService) GetJobStatus(ctx context.Context, jobId string) (*dto.JobStatusResponse, error) {
	job, err := s.getJob(jobId)
	if err != nil {
		return nil, err
	}
	return s.jobMapper.ToStatusResponse(job), nil
}

func (s *paperService) GetJobResult(ctx context.Context, jobId string) (*dto.JobResultResponse, error) {
	job, err := s.getJob(jobId)
	if err != nil {
		return nil, err
	}
	if job.Status != entity.StatusCompleted {
		return nil, fmt.Errorf("%w: current status is %s", ErrJobNotCompleted, job.Status)
	}

	return s.jobMapper.ToStatusResponse(job).Result, nil
}

func (s *paperService) ListJobs(ctx context.Context, status string, limit, offset int) (*dto.JobListResponse, error) {
	var filter *entity.ProcessingStatus
	if status != "" {
		parsed := entity.ProcessingStatus(status)
		if !parsed.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		filter = &parsed
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	jobs := s.jobs.List(filter, limit, offset)
	return &dto.JobListResponse{
		Jobs:   s.jobMapper.ToStatusResponses(jobs),
		Total:  s.jobs.Count(),
		Limit:  limit,
		Offset: offset,
	}, nil
}

// CancelJob moves a non-terminal job to failed with the fixed cancellation
// message. The running stage observes the terminal state at its next
// checkpoint and stops; its in-flight output is discarded.
func (s *paperService) CancelJob(ctx context.Context, jobId string) (*dto.CancelJobResponse, error) {
	id, err := parseJobId(jobId)
	if err != nil {
		return nil, err
	}

	var rejected bool
	job, ok := s.jobs.Update(id, func(j *entity.PaperJob) {
		if j.Status.IsTerminal() {
			rejected = true
			return
		}
		msg := CancelledMessage
		j.Status = entity.StatusFailed
		j.ErrorMessage = &msg
		j.CurrentStage = nil

		// Close a step left in progress so the record reads as failed
		// end to end. The running stage's eventual outcome is discarded.
		if n := len(j.Steps); n > 0 && j.Steps[n-1].CompletedAt == nil {
			step := &j.Steps[n-1]
			now := time.Now()
			duration := now.Sub(step.StartedAt).Seconds()
			step.Status = entity.StatusFailed
			step.CompletedAt = &now
			step.DurationSeconds = &duration
			step.ErrorMessage = &msg
		}
	})
	if !ok {
		return nil, ErrJobNotFound
	}
	if rejected {
		return nil, fmt.Errorf("%w: status is %s", ErrNotCancellable, job.Status)
	}

	s.publishEvent(ctx, events.NewJobCancelledEvent(jobId))

	s.log.Info("paper", "Job cancelled", map[string]interface{}{
		"job_id": jobId,
	})

	return &dto.CancelJobResponse{
		JobId:   jobId,
		Status:  string(job.Status),
		Message: CancelledMessage,
	}, nil
}

func (s *paperService) ExportJob(ctx context.Context, jobId string, format string) (*dto.ExportPayload, error) {
	job, err := s.getJob(jobId)
	if err != nil {
		return nil, err
	}
	if job.Status != entity.StatusCompleted {
		return nil, fmt.Errorf("%w: current status is %s", ErrJobNotCompleted, job.Status)
	}

	status := s.jobMapper.ToStatusResponse(job)

	switch format {
	case "", "json":
		body, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return nil, err
		}
		return &dto.ExportPayload{
			Filename:    "digest_" + jobId + ".json",
			ContentType: "application/json",
			Body:        body,
		}, nil

	case "markdown":
		return &dto.ExportPayload{
			Filename:    "digest_" + jobId + ".md",
			ContentType: "text/markdown; charset=utf-8",
			Body:        []byte(renderMarkdown(job)),
		}, nil

	case "txt":
		return &dto.ExportPayload{
			Filename:    "digest_" + jobId + ".txt",
			ContentType: "text/plain; charset=utf-8",
			Body:        []byte(renderPlainText(job)),
		}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported format %q (json, markdown, txt)", ErrInvalidInput, format)
	}
}

func (s *paperService) getJob(jobId string) (*entity.PaperJob, error) {
	id, err := parseJobId(jobId)
	if err != nil {
		return nil, err
	}
	job, ok := s.jobs.Get(id)
	if !ok {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *paperService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("paper", "Failed to publish event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
	}
}

func parseJobId(jobId string) (uuid.UUID, error) {
	id, err := uuid.Parse(jobId)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed job id", ErrInvalidInput)
	}
	return id, nil
}

func jobSourceLabel(job *entity.PaperJob) string {
	switch {
	case job.ArxivId != "":
		return job.ArxivId
	case job.PdfUrl != "":
		return job.PdfUrl
	default:
		return job.FilePath
	}
}

func renderMarkdown(job *entity.PaperJob) string {
	var b strings.Builder

	title := "Untitled paper"
	if job.Metadata != nil && job.Metadata.Title != "" {
		title = job.Metadata.Title
	}

	fmt.Fprintf(&b, "# %s\n\n", title)
	if job.Metadata != nil {
		if len(job.Metadata.Authors) > 0 {
			fmt.Fprintf(&b, "**Authors:** %s\n\n", strings.Join(job.Metadata.Authors, ", "))
		}
		if job.Metadata.SourceId != "" {
			fmt.Fprintf(&b, "**Source:** %s\n\n", job.Metadata.SourceId)
		}
	}
	fmt.Fprintf(&b, "**Novelty score:** %.2f\n\n", job.NoveltyScore)

	fmt.Fprintf(&b, "## Digest\n\n%s\n\n", job.Digest)

	if len(job.PostThread) > 0 {
		b.WriteString("## Post Thread\n\n")
		for _, post := range job.PostThread {
			fmt.Fprintf(&b, "- %s\n", post)
		}
		b.WriteString("\n")
	}

	if job.LongPost != "" {
		fmt.Fprintf(&b, "## Long Post\n\n%s\n\n", job.LongPost)
	}

	fmt.Fprintf(&b, "## Technical Summary\n\n%s\n\n", job.TechnicalSummary)
	fmt.Fprintf(&b, "## Contextual Analysis\n\n%s\n\n", job.ContextualAnalysis)
	fmt.Fprintf(&b, "## Novelty Analysis\n\n%s\n", job.NoveltyAnalysis)

	return b.String()
}

func renderPlainText(job *entity.PaperJob) string {
	var b strings.Builder

	title := "Untitled paper"
	if job.Metadata != nil && job.Metadata.Title != "" {
		title = job.Metadata.Title
	}

	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	fmt.Fprintf(&b, "Novelty score: %.2f\n\n", job.NoveltyScore)
	fmt.Fprintf(&b, "DIGEST\n\n%s\n\n", job.Digest)

	if len(job.PostThread) > 0 {
		b.WriteString("POST THREAD\n\n")
		for _, post := range job.PostThread {
			fmt.Fprintf(&b, "%s\n", post)
		}
		b.WriteString("\n")
	}

	if job.LongPost != "" {
		fmt.Fprintf(&b, "LONG POST\n\n%s\n\n", job.LongPost)
	}

	fmt.Fprintf(&b, "TECHNICAL SUMMARY\n\n%s\n", job.TechnicalSummary)

	return b.String()
}
