package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/videoforge/videoforge-api/internal/provider"
)

// Default polling parameters. With a 5 second interval and 60 attempts an
// in-flight job is given roughly five minutes before it is timed out.
const (
	DefaultInitialDelay = 2 * time.Second
	DefaultPollInterval = 5 * time.Second
	DefaultMaxAttempts  = 60
)

// Completed assets are always delivered with these properties.
var completedMetadata = Metadata{
	Resolution: "1080p",
	Format:     "mp4",
}

// Archiver copies a completed video into archive storage and returns its
// new location. Implemented by the storage package.
type Archiver interface {
	Archive(ctx context.Context, key, srcURL string) (string, error)
}

// GenerateInput contains the parameters for a generation request.
type GenerateInput struct {
	// Prompt is the text prompt to generate from.
	Prompt string
	// DurationSeconds is the requested clip length (5 or 10).
	DurationSeconds int
	// Provider is the registry name of the provider to use.
	Provider string
}

// GenerationService orchestrates video generation: it submits the request to
// the chosen provider, records the job, and drives a scheduled poll loop
// until the provider reports a terminal state, writing every observed
// transition into the Store.
type GenerationService struct {
	store        Store
	registry     *provider.Registry
	scheduler    Scheduler
	archiver     Archiver
	logger       *slog.Logger
	initialDelay time.Duration
	pollInterval time.Duration
	maxAttempts  int
}

// ServiceOption is a function that configures a GenerationService.
type ServiceOption func(*GenerationService)

// WithInitialDelay sets the delay before the first poll after submission.
func WithInitialDelay(d time.Duration) ServiceOption {
	return func(s *GenerationService) {
		s.initialDelay = d
	}
}

// WithPollInterval sets the interval between poll attempts.
func WithPollInterval(d time.Duration) ServiceOption {
	return func(s *GenerationService) {
		s.pollInterval = d
	}
}

// WithMaxAttempts sets the attempt cap after which an in-flight job is
// marked failed with a timeout.
func WithMaxAttempts(n int) ServiceOption {
	return func(s *GenerationService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithScheduler replaces the timer-backed scheduler, letting tests drive
// poll cycles without wall-clock delays.
func WithScheduler(sched Scheduler) ServiceOption {
	return func(s *GenerationService) {
		s.scheduler = sched
	}
}

// WithArchiver enables best-effort archival of completed videos.
func WithArchiver(a Archiver) ServiceOption {
	return func(s *GenerationService) {
		s.archiver = a
	}
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(store Store, registry *provider.Registry, logger *slog.Logger, opts ...ServiceOption) *GenerationService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &GenerationService{
		store:        store,
		registry:     registry,
		scheduler:    NewTimerScheduler(),
		logger:       logger,
		initialDelay: DefaultInitialDelay,
		pollInterval: DefaultPollInterval,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate creates a job record, submits the request to the chosen provider
// and starts the background poll loop for asynchronous providers.
//
// Submission failures are the only failures surfaced to the caller: the job
// is recorded as failed and the error is returned so the initiating HTTP
// request reports it. Once polling has started, failures are only ever
// written to the store.
func (s *GenerationService) Generate(ctx context.Context, input GenerateInput) (*Job, error) {
	p, err := s.registry.Resolve(input.Provider)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, &Job{
		Prompt:          input.Prompt,
		DurationSeconds: input.DurationSeconds,
		Provider:        p.Name(),
		Status:          StatusPending,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job created",
		slog.String("job_id", created.ID),
		slog.String("provider", p.Name()),
		slog.Int("duration_sec", input.DurationSeconds),
	)

	submission, err := p.Submit(ctx, input.Prompt, input.DurationSeconds)
	if err != nil {
		// One fallback hop, if configured for this provider. Never a chain.
		fb := s.registry.Fallback(p.Name())
		if fb == nil {
			s.markFailed(ctx, created.ID, err.Error())
			return nil, err
		}

		s.logger.Warn("submission failed, trying fallback provider",
			slog.String("job_id", created.ID),
			slog.String("provider", p.Name()),
			slog.String("fallback", fb.Name()),
			slog.String("error", err.Error()),
		)

		submission, err = fb.Submit(ctx, input.Prompt, input.DurationSeconds)
		if err != nil {
			s.markFailed(ctx, created.ID, err.Error())
			return nil, err
		}

		p = fb
		name := p.Name()
		if err := s.store.UpdateJob(ctx, created.ID, JobUpdate{Provider: &name}); err != nil {
			s.logger.Error("failed to record fallback provider",
				slog.String("job_id", created.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	// Synchronous providers return the finished asset from Submit and skip
	// the polling path entirely.
	if submission.Asset != nil {
		s.complete(ctx, created.ID, submission.Asset)
		return s.store.GetJob(ctx, created.ID)
	}

	processing := StatusProcessing
	progress := 10
	message := "Video generation started"
	if err := s.store.UpdateJob(ctx, created.ID, JobUpdate{Status: &processing}); err != nil {
		return nil, err
	}
	if err := s.store.UpdateStatus(ctx, created.ID, StatusUpdate{
		Status:   &processing,
		Progress: &progress,
		Message:  &message,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("generation dispatched",
		slog.String("job_id", created.ID),
		slog.String("provider", p.Name()),
		slog.String("handle", submission.Handle),
	)

	jobID := created.ID
	handle := submission.Handle
	s.scheduler.AfterFunc(s.initialDelay, func() {
		s.pollCycle(jobID, p, handle, 1)
	})

	return s.store.GetJob(ctx, jobID)
}

// GetJob retrieves a job by ID.
func (s *GenerationService) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.store.GetJob(ctx, id)
}

// GetStatus retrieves the status record for a job.
func (s *GenerationService) GetStatus(ctx context.Context, id string) (*VideoStatus, error) {
	return s.store.GetStatus(ctx, id)
}

// ListJobs returns all jobs.
func (s *GenerationService) ListJobs(ctx context.Context) ([]*Job, error) {
	return s.store.List(ctx)
}

// Health reports provider availability for the health endpoint.
func (s *GenerationService) Health() map[string]bool {
	return s.registry.Health()
}

// pollCycle runs one status check for an in-flight job. It either records a
// terminal state or reschedules itself until the attempt cap is reached.
// Nothing supervises the chain from above, so no error or panic may escape:
// both are converted into a stored failed status and the chain stops.
func (s *GenerationService) pollCycle(jobID string, p provider.Provider, handle string, attempt int) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			s.markFailed(ctx, jobID, fmt.Sprintf("poll cycle panic: %v", r))
		}
	}()

	status, err := p.CheckStatus(ctx, handle)
	if err != nil {
		s.logger.Error("status check failed",
			slog.String("job_id", jobID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		s.markFailed(ctx, jobID, err.Error())
		return
	}

	switch status.State {
	case provider.StateCompleted:
		if status.Asset == nil || status.Asset.VideoURL == "" {
			s.markFailed(ctx, jobID, "provider reported completion without a video asset")
			return
		}
		s.complete(ctx, jobID, status.Asset)

	case provider.StateFailed:
		reason := status.FailureReason
		if reason == "" {
			reason = "Video generation failed"
		}
		s.markFailed(ctx, jobID, reason)

	default:
		// Queued, processing, or anything unrecognized: still in flight.
		if attempt >= s.maxAttempts {
			s.markFailed(ctx, jobID, "Video generation timed out")
			return
		}

		// Progress approaches but never reaches 100 from elapsed attempts
		// alone; the jump to 100 happens only on confirmed completion.
		progress := attempt * 100 / s.maxAttempts
		if progress > 95 {
			progress = 95
		}
		message := fmt.Sprintf("Processing video... (attempt %d/%d)", attempt, s.maxAttempts)
		if err := s.store.UpdateStatus(ctx, jobID, StatusUpdate{
			Progress: &progress,
			Message:  &message,
		}); err != nil {
			s.logger.Error("failed to update status",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
		}

		s.scheduler.AfterFunc(s.pollInterval, func() {
			s.pollCycle(jobID, p, handle, attempt+1)
		})
	}
}

// complete writes the result fields and moves both records to completed in
// one logical update.
func (s *GenerationService) complete(ctx context.Context, jobID string, asset *provider.Asset) {
	completed := StatusCompleted
	md := completedMetadata

	upd := JobUpdate{
		Status:   &completed,
		VideoURL: &asset.VideoURL,
		Metadata: &md,
	}
	if asset.ThumbnailURL != "" {
		upd.ThumbnailURL = &asset.ThumbnailURL
	}
	if err := s.store.UpdateJob(ctx, jobID, upd); err != nil {
		s.logger.Error("failed to complete job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	progress := 100
	message := "Video generated successfully"
	if err := s.store.UpdateStatus(ctx, jobID, StatusUpdate{
		Status:   &completed,
		Progress: &progress,
		Message:  &message,
	}); err != nil {
		s.logger.Error("failed to complete status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("job completed",
		slog.String("job_id", jobID),
		slog.String("video_url", asset.VideoURL),
	)

	if s.archiver != nil {
		go s.archive(jobID, asset.VideoURL)
	}
}

// archive copies the completed video into archive storage. Best-effort: a
// failure is logged and the provider URL stands.
func (s *GenerationService) archive(jobID, videoURL string) {
	ctx := context.Background()

	url, err := s.archiver.Archive(ctx, jobID+".mp4", videoURL)
	if err != nil {
		s.logger.Warn("video archival failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.store.UpdateJob(ctx, jobID, JobUpdate{ArchiveURL: &url}); err != nil {
		s.logger.Error("failed to record archive URL",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}

	s.logger.Info("video archived",
		slog.String("job_id", jobID),
		slog.String("archive_url", url),
	)
}

// markFailed moves both records to failed with the diagnostic message.
func (s *GenerationService) markFailed(ctx context.Context, jobID, msg string) {
	failed := StatusFailed

	if err := s.store.UpdateJob(ctx, jobID, JobUpdate{Status: &failed}); err != nil {
		s.logger.Error("failed to mark job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.store.UpdateStatus(ctx, jobID, StatusUpdate{
		Status:  &failed,
		Message: &msg,
		Error:   &msg,
	}); err != nil {
		s.logger.Error("failed to mark status failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Warn("job failed",
		slog.String("job_id", jobID),
		slog.String("reason", msg),
	)
}
