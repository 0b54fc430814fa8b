package job

import (
	"context"
	"errors"
)

// ErrJobNotFound is returned when a job cannot be found by ID.
var ErrJobNotFound = errors.New("job not found")

// JobUpdate contains the job record fields that may be merged by UpdateJob.
// Nil fields are left unchanged.
type JobUpdate struct {
	Status       *Status
	Provider     *string
	VideoURL     *string
	ThumbnailURL *string
	ArchiveURL   *string
	Metadata     *Metadata
}

// StatusUpdate contains the status record fields that may be merged by
// UpdateStatus. Nil fields are left unchanged.
type StatusUpdate struct {
	Status   *Status
	Progress *int
	Message  *string
	Error    *string
}

// Store defines the interface for job persistence. Both the full job record
// and the per-job status record are keyed by the job ID.
type Store interface {
	// Create assigns a fresh unique ID to the job, persists it, and
	// initializes a matching status record with progress 0.
	// Returns the stored job including the generated ID.
	Create(ctx context.Context, j *Job) (*Job, error)

	// GetJob retrieves a job record by its identifier.
	// Returns ErrJobNotFound if the job does not exist.
	GetJob(ctx context.Context, id string) (*Job, error)

	// GetStatus retrieves the status record for a job.
	// Returns ErrJobNotFound if the job does not exist.
	GetStatus(ctx context.Context, id string) (*VideoStatus, error)

	// UpdateJob merges the non-nil fields into an existing job record.
	// Unknown identifiers are a no-op. A status change that would leave a
	// terminal state returns ErrInvalidTransition.
	UpdateJob(ctx context.Context, id string, upd JobUpdate) error

	// UpdateStatus merges the non-nil fields into an existing status record.
	// Same no-op and transition semantics as UpdateJob.
	UpdateStatus(ctx context.Context, id string, upd StatusUpdate) error

	// List returns all job records.
	List(ctx context.Context) ([]*Job, error)
}
