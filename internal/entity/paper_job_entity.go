package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaperMetadata is what we know about the source document after ingestion.
type PaperMetadata struct {
	Title         string
	Authors       []string
	Abstract      string
	Categories    []string
	PublishedDate string
	SourceId      string // arXiv entry id, URL, or filename for uploads
}

// ProcessingStep is one stage attempt. The step list on a job is append-only:
// the engine never deletes or reorders entries.
type ProcessingStep struct {
	StageName       string
	Status          ProcessingStatus
	StartedAt       time.Time
	CompletedAt     *time.Time
	DurationSeconds *float64
	ErrorMessage    *string
	Metadata        map[string]interface{}
}

// PaperJob is the mutable state passed through every pipeline stage.
// Only the pipeline engine mutates it while a job runs; cancellation is the
// single outside write. All mutation goes through the job repository so that
// step appends and status updates stay atomic per job.
type PaperJob struct {
	// Identity
	Id        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time

	// Input (exactly one of ArxivId / PdfUrl / FilePath is required)
	ArxivId   string
	PdfUrl    string
	FilePath  string
	UserQuery string

	// Intermediate artifacts
	Metadata         *PaperMetadata
	LocalPath        string
	RawText          string
	Chunks           []string
	ChunkIds         []string
	RetrievedContext []string

	// Derived results
	TechnicalSummary   string
	ContextualAnalysis string
	NoveltyScore       float64
	NoveltyAnalysis    string
	AccessibleSummary  string
	Digest             string
	PostThread         []string
	LongPost           string

	// Bookkeeping
	Status             ProcessingStatus
	Steps              []ProcessingStep
	CurrentStage       *string
	LastCompletedStage *string
	ErrorMessage       *string
	TokensUsed         int
	ProcessingSeconds  float64
}

// NewPaperJob builds a queued job for the given inputs.
func NewPaperJob(arxivId, pdfUrl, filePath, userQuery string) *PaperJob {
	now := time.Now()
	return &PaperJob{
		Id:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		ArxivId:   arxivId,
		PdfUrl:    pdfUrl,
		FilePath:  filePath,
		UserQuery: userQuery,
		Status:    StatusQueued,
	}
}

// Clone returns a deep copy so callers can read a snapshot without holding
// the registry lock.
func (j *PaperJob) Clone() *PaperJob {
	c := *j

	if j.Metadata != nil {
		meta := *j.Metadata
		meta.Authors = append([]string(nil), j.Metadata.Authors...)
		meta.Categories = append([]string(nil), j.Metadata.Categories...)
		c.Metadata = &meta
	}
	c.Chunks = append([]string(nil), j.Chunks...)
	c.ChunkIds = append([]string(nil), j.ChunkIds...)
	c.RetrievedContext = append([]string(nil), j.RetrievedContext...)
	c.PostThread = append([]string(nil), j.PostThread...)

	c.Steps = make([]ProcessingStep, len(j.Steps))
	for i, s := range j.Steps {
		cs := s
		if s.CompletedAt != nil {
			t := *s.CompletedAt
			cs.CompletedAt = &t
		}
		if s.DurationSeconds != nil {
			d := *s.DurationSeconds
			cs.DurationSeconds = &d
		}
		if s.ErrorMessage != nil {
			m := *s.ErrorMessage
			cs.ErrorMessage = &m
		}
		if s.Metadata != nil {
			cs.Metadata = make(map[string]interface{}, len(s.Metadata))
			for k, v := range s.Metadata {
				cs.Metadata[k] = v
			}
		}
		c.Steps[i] = cs
	}

	c.CurrentStage = cloneStringPtr(j.CurrentStage)
	c.LastCompletedStage = cloneStringPtr(j.LastCompletedStage)
	c.ErrorMessage = cloneStringPtr(j.ErrorMessage)

	return &c
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
