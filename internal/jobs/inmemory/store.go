package inmemory

import (
	"context"
	"fmt"
	"sync"

	"invoice-reconciliation-backend/internal/jobs"

	"github.com/google/uuid"
)

// Store is an in-memory JobStore, safe for concurrent use. State is lost on
// restart; job outcomes of record live in the match audit log, not here.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.ReconcileInvoiceJob
}

func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*jobs.ReconcileInvoiceJob),
	}
}

func (s *Store) SaveJob(ctx context.Context, job *jobs.ReconcileInvoiceJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobCopy := *job
	s.jobs[job.JobID] = &jobCopy

	return nil
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.ReconcileInvoiceJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}

	jobCopy := *job
	return &jobCopy, nil
}

func (s *Store) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.ReconcileInvoiceJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*jobs.ReconcileInvoiceJob
	for _, job := range s.jobs {
		if filter.InvoiceID != uuid.Nil && job.InvoiceID != filter.InvoiceID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		jobCopy := *job
		result = append(result, &jobCopy)
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

var _ jobs.JobStore = (*Store)(nil)
