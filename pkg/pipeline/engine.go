package pipeline

import (
	"context"
	"fmt"
	"time"

	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// StageFunc runs one unit of pipeline work against the job state. Artifact
// fields written by the stage are merged back into the registry by the engine
// after the stage returns.
type StageFunc func(ctx context.Context, job *entity.PaperJob) error

// Stage is one named entry in the fixed pipeline.
type Stage struct {
	Name   string
	Status entity.ProcessingStatus // status of the job while this stage runs
	Run    StageFunc
}

// JobStore is the slice of the job registry the engine needs: per-job atomic
// read-modify-write plus snapshot reads.
type JobStore interface {
	Get(id uuid.UUID) (*entity.PaperJob, bool)
	Update(id uuid.UUID, fn func(*entity.PaperJob)) (*entity.PaperJob, bool)
}

// Engine drives a job through the ordered stage list, one stage at a time.
// Failure of any stage is terminal for the job: no retry, no continuation.
// The stage list is fixed at construction.
type Engine struct {
	stages []Stage
	store  JobStore
	log    logger.ILogger

	// OnStageCompleted, when set, observes every successfully closed stage.
	// Called outside the registry lock; must not block.
	OnStageCompleted func(jobId uuid.UUID, stageName string, durationSeconds float64)
}

func NewEngine(stages []Stage, store JobStore, log logger.ILogger) *Engine {
	return &Engine{
		stages: stages,
		store:  store,
		log:    log,
	}
}

// Execute runs every stage in order against the stored job. The returned
// snapshot reflects the final state; the only error is an unknown job id —
// stage failures are absorbed into the job record.
func (e *Engine) Execute(ctx context.Context, jobId uuid.UUID) (*entity.PaperJob, error) {
	snapshot, ok := e.store.Get(jobId)
	if !ok {
		return nil, fmt.Errorf("job %s not found", jobId)
	}

	for _, stage := range e.stages {
		// A job cancelled between stages stays failed; nothing more runs.
		if snapshot.Status.IsTerminal() {
			e.log.Info("pipeline", "Job reached terminal state, stopping", map[string]interface{}{
				"job_id": jobId.String(),
				"status": string(snapshot.Status),
			})
			return snapshot, nil
		}

		working, started := e.beginStage(jobId, stage)
		if !started {
			// Cancelled in the gap after the previous stage closed.
			e.log.Info("pipeline", "Job reached terminal state, stopping", map[string]interface{}{
				"job_id": jobId.String(),
				"status": string(working.Status),
			})
			return working, nil
		}

		e.log.Info("pipeline", "Starting stage", map[string]interface{}{
			"job_id": jobId.String(),
			"stage":  stage.Name,
		})

		err := stage.Run(ctx, working)
		if err != nil {
			snapshot = e.failStage(jobId, stage, err)
			e.log.Error("pipeline", "Stage failed", map[string]interface{}{
				"job_id": jobId.String(),
				"stage":  stage.Name,
				"error":  err.Error(),
			})
			return snapshot, nil
		}

		snapshot = e.completeStage(jobId, stage, working)

		e.notifyStageCompleted(jobId, stage.Name, snapshot)

		e.log.Info("pipeline", "Completed stage", map[string]interface{}{
			"job_id": jobId.String(),
			"stage":  stage.Name,
		})
	}

	snapshot, _ = e.store.Update(jobId, func(j *entity.PaperJob) {
		if j.Status.IsTerminal() {
			return // cancelled during the last stage; outcome already discarded
		}
		j.Status = entity.StatusCompleted
		j.CurrentStage = nil
	})
	return snapshot, nil
}

// beginStage appends the in-progress step, marks the stage current and moves
// the job status to the stage's status. Returns a working copy for the stage
// function to mutate outside the registry lock, plus whether the stage may
// run: a job found terminal inside the closure stays untouched.
func (e *Engine) beginStage(jobId uuid.UUID, stage Stage) (*entity.PaperJob, bool) {
	var started bool
	working, _ := e.store.Update(jobId, func(j *entity.PaperJob) {
		if j.Status.IsTerminal() {
			return
		}
		started = true
		name := stage.Name
		j.Status = stage.Status
		j.CurrentStage = &name
		j.Steps = append(j.Steps, entity.ProcessingStep{
			StageName: stage.Name,
			Status:    stage.Status,
			StartedAt: time.Now(),
		})
	})
	return working, started
}

// completeStage merges artifacts from the working copy back into the stored
// job and closes the step. If the job was cancelled while the stage ran, the
// outcome is discarded: the cancelled record wins.
func (e *Engine) completeStage(jobId uuid.UUID, stage Stage, working *entity.PaperJob) *entity.PaperJob {
	snapshot, _ := e.store.Update(jobId, func(j *entity.PaperJob) {
		if j.Status.IsTerminal() {
			return
		}

		mergeArtifacts(j, working)

		name := stage.Name
		j.LastCompletedStage = &name
		j.CurrentStage = nil
		closeStep(j, stage.Name, entity.StatusCompleted, nil)
	})
	return snapshot
}

// failStage records the error on both the job and the current step and moves
// the job to its terminal failed state. A job already terminal (cancelled
// while the stage ran) keeps its record; the stage error is discarded.
func (e *Engine) failStage(jobId uuid.UUID, stage Stage, runErr error) *entity.PaperJob {
	snapshot, _ := e.store.Update(jobId, func(j *entity.PaperJob) {
		if j.Status.IsTerminal() {
			return
		}
		msg := fmt.Sprintf("%s failed: %v", stage.Name, runErr)
		j.Status = entity.StatusFailed
		j.ErrorMessage = &msg
		j.CurrentStage = nil
		closeStep(j, stage.Name, entity.StatusFailed, &msg)
	})
	return snapshot
}

// notifyStageCompleted fires the hook with the closed step's duration. A job
// cancelled mid-stage never closes its step, so no event fires for it.
func (e *Engine) notifyStageCompleted(jobId uuid.UUID, stageName string, snapshot *entity.PaperJob) {
	if e.OnStageCompleted == nil || snapshot == nil || len(snapshot.Steps) == 0 {
		return
	}
	step := snapshot.Steps[len(snapshot.Steps)-1]
	if step.StageName != stageName || step.Status != entity.StatusCompleted || step.DurationSeconds == nil {
		return
	}
	e.OnStageCompleted(jobId, stageName, *step.DurationSeconds)
}

// closeStep finalizes the last step if it belongs to the given stage.
func closeStep(j *entity.PaperJob, stageName string, status entity.ProcessingStatus, errMsg *string) {
	if len(j.Steps) == 0 {
		return
	}
	step := &j.Steps[len(j.Steps)-1]
	if step.StageName != stageName {
		return
	}
	now := time.Now()
	step.Status = status
	step.CompletedAt = &now
	duration := now.Sub(step.StartedAt).Seconds()
	step.DurationSeconds = &duration
	step.ErrorMessage = errMsg
}

// mergeArtifacts copies everything a stage is allowed to produce from the
// working copy into the canonical record. Bookkeeping fields (status, steps,
// stage markers) stay owned by the engine.
func mergeArtifacts(dst, src *entity.PaperJob) {
	dst.ArxivId = src.ArxivId // ingestion may promote a pdf URL to a catalog id
	dst.Metadata = src.Metadata
	dst.LocalPath = src.LocalPath
	dst.RawText = src.RawText
	dst.Chunks = src.Chunks
	dst.ChunkIds = src.ChunkIds
	dst.RetrievedContext = src.RetrievedContext

	dst.TechnicalSummary = src.TechnicalSummary
	dst.ContextualAnalysis = src.ContextualAnalysis
	dst.NoveltyScore = src.NoveltyScore
	dst.NoveltyAnalysis = src.NoveltyAnalysis
	dst.AccessibleSummary = src.AccessibleSummary
	dst.Digest = src.Digest
	dst.PostThread = src.PostThread
	dst.LongPost = src.LongPost

	dst.TokensUsed = src.TokensUsed
}
