package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/videoforge/videoforge-api/internal/luma"
)

// LumaAdapter adapts the Luma client to the Provider interface.
// A nil client means the credential is not configured; Submit then fails
// fast with *AuthError instead of attempting a network call.
type LumaAdapter struct {
	client luma.Client
}

// NewLumaAdapter creates a new Luma provider adapter.
func NewLumaAdapter(client luma.Client) *LumaAdapter {
	return &LumaAdapter{client: client}
}

// Name returns "luma".
func (a *LumaAdapter) Name() string { return "luma" }

// Available reports whether the Luma credential is configured.
func (a *LumaAdapter) Available() bool { return a.client != nil }

// Submit sends a text-to-video generation request to Luma.
func (a *LumaAdapter) Submit(ctx context.Context, prompt string, durationSec int) (Submission, error) {
	if a.client == nil {
		return Submission{}, &AuthError{Provider: a.Name(), EnvVar: "LUMA_API_KEY"}
	}

	generationID, err := a.client.Submit(ctx, prompt, durationSec)
	if err != nil {
		return Submission{}, fmt.Errorf("luma adapter submit: %w", a.mapError(err))
	}
	return Submission{Handle: generationID}, nil
}

// CheckStatus polls a Luma generation and maps its state onto the
// normalized vocabulary.
func (a *LumaAdapter) CheckStatus(ctx context.Context, handle string) (Status, error) {
	if a.client == nil {
		return Status{}, &AuthError{Provider: a.Name(), EnvVar: "LUMA_API_KEY"}
	}

	result, err := a.client.Poll(ctx, handle)
	if err != nil {
		return Status{}, fmt.Errorf("luma adapter poll: %w", a.mapError(err))
	}

	var state State
	switch result.State {
	case luma.StateQueued:
		state = StateQueued
	case luma.StateDreaming:
		state = StateProcessing
	case luma.StateCompleted:
		state = StateCompleted
	case luma.StateFailed:
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
		status.FailureReason = result.FailureReason
	}

	return status, nil
}

// mapError converts client-level API errors into the provider taxonomy.
func (a *LumaAdapter) mapError(err error) error {
	var apiErr *luma.APIError
	if errors.As(err, &apiErr) {
		return &RequestError{Provider: a.Name(), StatusCode: apiErr.StatusCode, Body: apiErr.Body}
	}
	return err
}

// Compile-time check that LumaAdapter implements Provider.
var _ Provider = (*LumaAdapter)(nil)
