package worker

import (
	"context"
	"time"

	"dbbridge/internal/exporter"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusProcessing JobStatus = "PROCESSING"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusFailed     JobStatus = "FAILED"
)

// ExportJob represents a single unit of work for the export runner.
// Each job runs on its own database session.
type ExportJob struct {
	// ID is the unique UUID v4 for the job.
	ID string
	// Statement is the SQL SELECT to run.
	Statement string
	// Timestamps for job lifecycle tracking.
	Submitted time.Time
	Started   time.Time
	Finished  time.Time
	// Status tracks the current state (PENDING, PROCESSING, COMPLETED, FAILED).
	Status JobStatus
	// Error holds any error encountered during processing.
	Error error
	// Stats contains metrics like rows processed and duration.
	Stats *exporter.ExportResult
	// Key is the path where the file is stored in S3/Local storage.
	Key string
	// Format is the requested output format (csv, json, excel, pdf).
	Format string

	// Context manages the lifecycle/cancellation of the job.
	Ctx    context.Context
	Cancel context.CancelFunc

	// done is closed by the pool once the job reaches a terminal status.
	// All field writes happen before the close, so readers that wait on
	// Done() observe a fully settled job.
	done chan struct{}
}

func NewExportJob(statement, format string, timeout time.Duration) *ExportJob {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	if format == "" {
		format = "csv"
	}
	return &ExportJob{
		ID:        uuid.New().String(),
		Statement: statement,
		Format:    format,
		Submitted: time.Now(),
		Status:    StatusPending,
		Ctx:       ctx,
		Cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Done returns a channel that is closed when the job has completed or
// failed. Status, Stats, Error and the timestamps must not be read until
// this channel is closed.
func (j *ExportJob) Done() <-chan struct{} {
	return j.done
}
