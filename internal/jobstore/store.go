// Package jobstore holds the in-memory source of truth for ingestion
// progress. Each job's entry is written by exactly one pipeline worker and
// read by arbitrarily many pollers; the store only locks around the O(1)
// map mutation, never across a blocking call.
package jobstore

import (
	"sync"

	"github.com/cloo-solutions/documind/internal/domain"
)

// Store is a concurrency-safe map from job ID to job state
type Store struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

// New creates an empty Store
func New() *Store {
	return &Store{
		jobs: make(map[string]domain.Job),
	}
}

// Create inserts a new job in the PROCESSING state with zero progress.
// A duplicate ID is a caller bug and returns an error.
func (s *Store) Create(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[jobID]; exists {
		return domain.ErrJobAlreadyExists
	}

	s.jobs[jobID] = domain.Job{
		ID:       jobID,
		State:    domain.JobStateProcessing,
		Progress: 0,
	}
	return nil
}

// Update replaces the job's {state, progress, message} triple as a single
// atomic value so readers never observe a partial write.
func (s *Store) Update(jobID string, state domain.JobState, progress int, message string) error {
	if err := domain.ValidateJobState(state); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[jobID]; !exists {
		return domain.ErrJobNotFound
	}

	s.jobs[jobID] = domain.Job{
		ID:       jobID,
		State:    state,
		Progress: progress,
		Message:  message,
	}
	return nil
}

// Get returns a snapshot of the job. An unknown ID yields a synthetic
// NOT_FOUND record rather than an error, so polling callers never need
// special-case handling.
func (s *Store) Get(jobID string) domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return domain.Job{
			ID:    jobID,
			State: domain.JobStateNotFound,
		}
	}
	return job
}

// Clear atomically empties the store. Administrative reset only; jobs are
// never expired by TTL.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = make(map[string]domain.Job)
}

// Len returns the number of tracked jobs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.jobs)
}
