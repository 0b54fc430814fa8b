package job

import (
	"context"
	"sync"
	"time"

	"github.com/videoforge/videoforge-api/internal/job/id"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of Store. Jobs live for the
// process lifetime and are never evicted. It uses maps with an RWMutex for
// thread-safe access and returns clones so callers cannot mutate stored
// records.
type MemoryStore struct {
	mu       sync.RWMutex
	jobs     map[string]*Job
	statuses map[string]*VideoStatus
}

// NewMemoryStore creates a new in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:     make(map[string]*Job),
		statuses: make(map[string]*VideoStatus),
	}
}

// Create assigns a fresh ID, persists the job, and atomically initializes
// the matching status record with progress 0.
func (s *MemoryStore) Create(_ context.Context, j *Job) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	stored := j.Clone()
	stored.ID = id.Generate()
	if stored.Status == "" {
		stored.Status = StatusPending
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.jobs[stored.ID] = stored
	s.statuses[stored.ID] = &VideoStatus{
		ID:        stored.ID,
		Status:    stored.Status,
		Progress:  0,
		UpdatedAt: now,
	}

	return stored.Clone(), nil
}

// GetJob retrieves a job record by ID.
// Returns a clone to prevent external mutations.
func (s *MemoryStore) GetJob(_ context.Context, jobID string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return j.Clone(), nil
}

// GetStatus retrieves the status record for a job.
// Returns a clone to prevent external mutations.
func (s *MemoryStore) GetStatus(_ context.Context, jobID string) (*VideoStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statuses[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return st.Clone(), nil
}

// UpdateJob merges the non-nil fields into an existing job record.
// Unknown IDs are a no-op.
func (s *MemoryStore) UpdateJob(_ context.Context, jobID string, upd JobUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil
	}

	if upd.Status != nil {
		if !canTransition(j.Status, *upd.Status) {
			return ErrInvalidTransition
		}
		j.Status = *upd.Status
	}
	if upd.Provider != nil {
		j.Provider = *upd.Provider
	}
	if upd.VideoURL != nil {
		j.VideoURL = *upd.VideoURL
	}
	if upd.ThumbnailURL != nil {
		j.ThumbnailURL = *upd.ThumbnailURL
	}
	if upd.ArchiveURL != nil {
		j.ArchiveURL = *upd.ArchiveURL
	}
	if upd.Metadata != nil {
		md := *upd.Metadata
		j.Metadata = &md
	}
	j.UpdatedAt = time.Now()

	return nil
}

// UpdateStatus merges the non-nil fields into an existing status record.
// Unknown IDs are a no-op.
func (s *MemoryStore) UpdateStatus(_ context.Context, jobID string, upd StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[jobID]
	if !ok {
		return nil
	}

	if upd.Status != nil {
		if !canTransition(st.Status, *upd.Status) {
			return ErrInvalidTransition
		}
		st.Status = *upd.Status
	}
	if upd.Progress != nil {
		st.Progress = *upd.Progress
	}
	if upd.Message != nil {
		st.Message = *upd.Message
	}
	if upd.Error != nil {
		st.Error = *upd.Error
	}
	st.UpdatedAt = time.Now()

	return nil
}

// List returns all jobs in the store.
// Returns clones to prevent external mutations.
func (s *MemoryStore) List(_ context.Context) ([]*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.Clone())
	}
	return out, nil
}
