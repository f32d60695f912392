package domain

// JobState represents the lifecycle state of an ingestion job
type JobState string

const (
	// JobStateProcessing means the job is running and progress is advancing
	JobStateProcessing JobState = "PROCESSING"
	// JobStateCompleted means every chunk was embedded and stored
	JobStateCompleted JobState = "COMPLETED"
	// JobStateError means the job terminated with a failure
	JobStateError JobState = "ERROR"
	// JobStateNotFound is a query-time sentinel for unknown job IDs.
	// It is never stored.
	JobStateNotFound JobState = "NOT_FOUND"
)

// Job tracks one asynchronous ingestion run
type Job struct {
	ID       string
	State    JobState
	Progress int
	Message  string
}

// IsTerminal reports whether the state can no longer change
func (s JobState) IsTerminal() bool {
	return s == JobStateCompleted || s == JobStateError
}

// ValidateJobState checks that a state is one of the storable states
func ValidateJobState(s JobState) error {
	switch s {
	case JobStateProcessing, JobStateCompleted, JobStateError:
		return nil
	default:
		return ErrInvalidJobState
	}
}
