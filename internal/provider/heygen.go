package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/videoforge/videoforge-api/internal/heygen"
)

// HeyGenAdapter adapts the HeyGen client to the Provider interface.
// A nil client means the credential is not configured.
type HeyGenAdapter struct {
	client heygen.Client
}

// NewHeyGenAdapter creates a new HeyGen provider adapter.
func NewHeyGenAdapter(client heygen.Client) *HeyGenAdapter {
	return &HeyGenAdapter{client: client}
}

// Name returns "heygen".
func (a *HeyGenAdapter) Name() string { return "heygen" }

// Available reports whether the HeyGen credential is configured.
func (a *HeyGenAdapter) Available() bool { return a.client != nil }

// Submit sends a video generation request to HeyGen.
func (a *HeyGenAdapter) Submit(ctx context.Context, prompt string, durationSec int) (Submission, error) {
	if a.client == nil {
		return Submission{}, &AuthError{Provider: a.Name(), EnvVar: "HEYGEN_API_KEY"}
	}

	videoID, err := a.client.Generate(ctx, prompt, durationSec)
	if err != nil {
		return Submission{}, fmt.Errorf("heygen adapter submit: %w", a.mapError(err))
	}
	return Submission{Handle: videoID}, nil
}

// CheckStatus polls a HeyGen video job and maps its status onto the
// normalized vocabulary.
func (a *HeyGenAdapter) CheckStatus(ctx context.Context, handle string) (Status, error) {
	if a.client == nil {
		return Status{}, &AuthError{Provider: a.Name(), EnvVar: "HEYGEN_API_KEY"}
	}

	result, err := a.client.Poll(ctx, handle)
	if err != nil {
		return Status{}, fmt.Errorf("heygen adapter poll: %w", a.mapError(err))
	}

	var state State
	switch result.Status {
	case heygen.StatusPending, heygen.StatusWaiting:
		state = StateQueued
	case heygen.StatusProcessing:
		state = StateProcessing
	case heygen.StatusCompleted:
		state = StateCompleted
	case heygen.StatusFailed:
		state = StateFailed
	default:
		// Unknown provider states count as still in flight.
		state = StateProcessing
	}

	status := Status{State: state}
	switch state {
	case StateCompleted:
		status.Asset = &Asset{
			VideoURL:     result.VideoURL,
			ThumbnailURL: result.ThumbnailURL,
		}
	case StateFailed:
		status.FailureReason = result.Error
	}

	return status, nil
}

// mapError converts client-level API errors into the provider taxonomy.
func (a *HeyGenAdapter) mapError(err error) error {
	var apiErr *heygen.APIError
	if errors.As(err, &apiErr) {
		return &RequestError{Provider: a.Name(), StatusCode: apiErr.StatusCode, Body: apiErr.Body}
	}
	return err
}

// Compile-time check that HeyGenAdapter implements Provider.
var _ Provider = (*HeyGenAdapter)(nil)
