package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeReconcileInvoice represents a single-invoice reconciliation job.
	JobTypeReconcileInvoice JobType = "reconcile_invoice"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ReconcileInvoiceJob is one unit of reconciliation work. The engine run
// itself is not retried internally; the queue's retry policy governs
// recovery from failed runs.
type ReconcileInvoiceJob struct {
	JobID       string     `json:"job_id"`
	InvoiceID   uuid.UUID  `json:"invoice_id"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ReconcileInvoiceJob) GetID() string {
	return j.JobID
}

func (j *ReconcileInvoiceJob) GetType() JobType {
	return JobTypeReconcileInvoice
}

func (j *ReconcileInvoiceJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
// The abstraction allows swapping the in-memory queue for an external
// broker without touching the engine.
type Publisher interface {
	PublishReconcileInvoice(ctx context.Context, job *ReconcileInvoiceJob) error
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; handler is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler processes one job. A returned error marks the job failed and
// eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job execution state.
type JobStore interface {
	SaveJob(ctx context.Context, job *ReconcileInvoiceJob) error
	GetJob(ctx context.Context, jobID string) (*ReconcileInvoiceJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ReconcileInvoiceJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	InvoiceID uuid.UUID
	Status    JobStatus
	Limit     int
}
