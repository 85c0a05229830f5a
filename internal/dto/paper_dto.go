package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProcessJobMessage is the queue payload that hands a job to the worker.
type ProcessJobMessage struct {
	JobId uuid.UUID `json:"job_id"`
}

// ExportPayload is a rendered download of a completed job.
type ExportPayload struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ProcessPaperRequest starts a pipeline run. Exactly one of the three source
// fields is required; the service rejects requests with none. When several are
// set, arxiv_id wins over pdf_url over file_path.
type ProcessPaperRequest struct {
	ArxivId   string `json:"arxiv_id" validate:"omitempty,max=64"`
	PdfUrl    string `json:"pdf_url" validate:"omitempty,url,max=2048"`
	FilePath  string `json:"file_path" validate:"omitempty,max=1024"`
	UserQuery string `json:"user_query" validate:"omitempty,max=500"`
}

type JobQueuedResponse struct {
	JobId   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type PaperMetadataResponse struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	Abstract      string   `json:"abstract,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	SourceId      string   `json:"source_id,omitempty"`
}

type ProcessingStepResponse struct {
	StageName       string     `json:"stage_name"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
}

// JobResultResponse carries the derived artifacts. Present on the status
// payload only once the job completed.
type JobResultResponse struct {
	TechnicalSummary   string   `json:"technical_summary"`
	ContextualAnalysis string   `json:"contextual_analysis"`
	NoveltyScore       float64  `json:"novelty_score"`
	NoveltyAnalysis    string   `json:"novelty_analysis"`
	AccessibleSummary  string   `json:"accessible_summary"`
	Digest             string   `json:"digest"`
	PostThread         []string `json:"post_thread"`
	LongPost           string   `json:"long_post"`
}

type JobStatusResponse struct {
	JobId              string                   `json:"job_id"`
	ArxivId            string                   `json:"arxiv_id,omitempty"`
	Status             string                   `json:"status"`
	CurrentStage       *string                  `json:"current_stage,omitempty"`
	LastCompletedStage *string                  `json:"last_completed_stage,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
	Metadata           *PaperMetadataResponse   `json:"metadata,omitempty"`
	Steps              []ProcessingStepResponse `json:"steps"`
	ErrorMessage       *string                  `json:"error_message,omitempty"`
	TokensUsed         int                      `json:"tokens_used"`
	ProcessingSeconds  float64                  `json:"processing_seconds"`
	Result             *JobResultResponse       `json:"result,omitempty"`
}

type JobListResponse struct {
	Jobs   []JobStatusResponse `json:"jobs"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type CancelJobResponse struct {
	JobId   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type AnalyticsRecordResponse struct {
	JobId             string    `json:"job_id"`
	ArxivId           string    `json:"arxiv_id,omitempty"`
	Status            string    `json:"status"`
	NoveltyScore      *float64  `json:"novelty_score,omitempty"`
	TokensUsed        int       `json:"tokens_used"`
	ProcessingSeconds float64   `json:"processing_seconds"`
	ErrorMessage      *string   `json:"error_message,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type AnalyticsResponse struct {
	TotalJobs            int64                     `json:"total_jobs"`
	CompletedJobs        int64                     `json:"completed_jobs"`
	FailedJobs           int64                     `json:"failed_jobs"`
	AvgProcessingSeconds float64                   `json:"avg_processing_seconds"`
	AvgNoveltyScore      float64                   `json:"avg_novelty_score"`
	TotalTokensUsed      int64                     `json:"total_tokens_used"`
	RecentJobs           []AnalyticsRecordResponse `json:"recent_jobs"`
}

type ResetVectorDbResponse struct {
	Message string `json:"message"`
}
