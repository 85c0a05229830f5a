package entity

// ProcessingStatus tracks how far a job has progressed through the pipeline.
type ProcessingStatus string

const (
	StatusQueued       ProcessingStatus = "queued"
	StatusIngesting    ProcessingStatus = "ingesting"
	StatusParsing      ProcessingStatus = "parsing"
	StatusIndexing     ProcessingStatus = "indexing"
	StatusSummarizing  ProcessingStatus = "summarizing"
	StatusNovelty      ProcessingStatus = "novelty_analysis"
	StatusHumanizing   ProcessingStatus = "humanizing"
	StatusSynthesizing ProcessingStatus = "synthesizing"
	StatusCompleted    ProcessingStatus = "completed"
	StatusFailed       ProcessingStatus = "failed"
)

// IsTerminal reports whether no further transition can happen.
func (s ProcessingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsValid reports whether s is one of the known statuses.
func (s ProcessingStatus) IsValid() bool {
	switch s {
	case StatusQueued, StatusIngesting, StatusParsing, StatusIndexing,
		StatusSummarizing, StatusNovelty, StatusHumanizing, StatusSynthesizing,
		StatusCompleted, StatusFailed:
		return true
	}
	return false
}
