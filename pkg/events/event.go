package events

import "time"

// Event is the contract for everything published on the bus.
type Event interface {
	// EventType returns the code for this event (e.g. "JOB_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation the typed constructors below build.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Job lifecycle event codes.
const (
	TypeJobQueued      = "JOB_QUEUED"
	TypeStageCompleted = "STAGE_COMPLETED"
	TypeJobCompleted   = "JOB_COMPLETED"
	TypeJobFailed      = "JOB_FAILED"
	TypeJobCancelled   = "JOB_CANCELLED"
)

func NewJobQueuedEvent(jobId string, source string) Event {
	return BaseEvent{
		Type: TypeJobQueued,
		Data: map[string]interface{}{
			"job_id": jobId,
			"source": source,
		},
		OccurredAt: time.Now(),
	}
}

func NewStageCompletedEvent(jobId string, stage string, durationSeconds float64) Event {
	return BaseEvent{
		Type: TypeStageCompleted,
		Data: map[string]interface{}{
			"job_id":           jobId,
			"stage":            stage,
			"duration_seconds": durationSeconds,
		},
		OccurredAt: time.Now(),
	}
}

func NewJobCompletedEvent(jobId string, processingSeconds float64, tokensUsed int) Event {
	return BaseEvent{
		Type: TypeJobCompleted,
		Data: map[string]interface{}{
			"job_id":             jobId,
			"processing_seconds": processingSeconds,
			"tokens_used":        tokensUsed,
		},
		OccurredAt: time.Now(),
	}
}

func NewJobFailedEvent(jobId string, stage string, reason string) Event {
	return BaseEvent{
		Type: TypeJobFailed,
		Data: map[string]interface{}{
			"job_id": jobId,
			"stage":  stage,
			"reason": reason,
		},
		OccurredAt: time.Now(),
	}
}

func NewJobCancelledEvent(jobId string) Event {
	return BaseEvent{
		Type: TypeJobCancelled,
		Data: map[string]interface{}{
			"job_id": jobId,
		},
		OccurredAt: time.Now(),
	}
}
