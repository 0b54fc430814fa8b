// Package job provides the Job aggregate for prompt-to-video generation
// requests. It includes the job and status records with forward-only state
// transitions, the Store interface for persistence, and the
// GenerationService orchestrator that drives provider polling.
package job

import (
	"errors"
	"time"
)

// Duration values accepted for a generation request, in seconds.
const (
	DurationShort = 5
	DurationLong  = 10
)

// Status represents the lifecycle state of a video generation job.
type Status string

const (
	// StatusPending indicates the job record exists but generation has not
	// been dispatched to a provider yet.
	StatusPending Status = "pending"
	// StatusProcessing indicates the provider accepted the job and the
	// service is polling for completion.
	StatusProcessing Status = "processing"
	// StatusCompleted indicates the video was generated successfully.
	StatusCompleted Status = "completed"
	// StatusFailed indicates generation failed or timed out.
	StatusFailed Status = "failed"
)

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ErrInvalidTransition is returned when a status update would move a job
// backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("invalid state transition")

// validTransitions defines which state transitions are allowed.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// canTransition checks if a transition from one status to another is valid.
// Writing the same status again is always allowed.
func canTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Metadata describes the delivered video asset.
type Metadata struct {
	// Resolution is the video resolution label, e.g. "1080p".
	Resolution string `json:"resolution"`
	// Format is the container format, e.g. "mp4".
	Format string `json:"format"`
	// SizeBytes is the asset size if known, zero otherwise.
	SizeBytes int64 `json:"size,omitempty"`
}

// Job represents one user-initiated video generation request.
type Job struct {
	// ID is the unique identifier for this job.
	ID string `json:"id"`
	// Prompt is the text prompt the video is generated from.
	Prompt string `json:"prompt"`
	// DurationSeconds is the requested clip length (5 or 10).
	DurationSeconds int `json:"duration"`
	// Provider is the name of the provider handling the job.
	Provider string `json:"model"`
	// Status is the current lifecycle state.
	Status Status `json:"status"`
	// VideoURL is the generated video location, set only on completion.
	VideoURL string `json:"videoUrl,omitempty"`
	// ThumbnailURL is an optional preview image location.
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	// ArchiveURL is set when the completed video was copied to archive storage.
	ArchiveURL string `json:"archiveUrl,omitempty"`
	// Metadata describes the delivered asset, set only on completion.
	Metadata *Metadata `json:"metadata,omitempty"`
	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the job was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone creates a copy of the job for safe reads.
func (j *Job) Clone() *Job {
	out := *j
	if j.Metadata != nil {
		md := *j.Metadata
		out.Metadata = &md
	}
	return &out
}

// VideoStatus is the lightweight status record for a job. It mirrors the
// job record's status field but is updated on every poll cycle, so progress
// ticks do not rewrite the full job record.
type VideoStatus struct {
	// ID is the job identifier this status belongs to.
	ID string `json:"id"`
	// Status mirrors the job record's lifecycle state.
	Status Status `json:"status"`
	// Progress is the completion percentage (0-100). It is monotonically
	// non-decreasing while processing and 100 at completion.
	Progress int `json:"progress"`
	// Message is a human-readable progress description.
	Message string `json:"message,omitempty"`
	// Error holds the failure diagnostic when Status is failed.
	Error string `json:"error,omitempty"`
	// UpdatedAt is when the status was last written.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone creates a copy of the status record for safe reads.
func (s *VideoStatus) Clone() *VideoStatus {
	out := *s
	return &out
}
