package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/videoforge/videoforge-api/internal/gemini"
)

// GeminiAdapter adapts the Gemini client to the Provider interface.
// Gemini is synchronous: Submit returns the finished asset directly and the
// orchestrator never polls it.
type GeminiAdapter struct {
	client gemini.Client
}

// NewGeminiAdapter creates a new Gemini provider adapter.
func NewGeminiAdapter(client gemini.Client) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// Name returns "gemini".
func (a *GeminiAdapter) Name() string { return "gemini" }

// Available reports whether the Gemini credential is configured.
func (a *GeminiAdapter) Available() bool { return a.client != nil }

// Submit generates the video synchronously and returns the asset.
func (a *GeminiAdapter) Submit(ctx context.Context, prompt string, durationSec int) (Submission, error) {
	if a.client == nil {
		return Submission{}, &AuthError{Provider: a.Name(), EnvVar: "GEMINI_API_KEY"}
	}

	result, err := a.client.Generate(ctx, prompt, durationSec)
	if err != nil {
		return Submission{}, fmt.Errorf("gemini adapter submit: %w", a.mapError(err))
	}

	return Submission{
		Asset: &Asset{
			VideoURL:     result.VideoURL,
			ThumbnailURL: result.ThumbnailURL,
		},
	}, nil
}

// CheckStatus reports completion for any handle. Gemini completes
// synchronously, so the orchestrator never reaches this path.
func (a *GeminiAdapter) CheckStatus(_ context.Context, _ string) (Status, error) {
	return Status{State: StateCompleted}, nil
}

// mapError converts client-level API errors into the provider taxonomy.
func (a *GeminiAdapter) mapError(err error) error {
	var apiErr *gemini.APIError
	if errors.As(err, &apiErr) {
		return &RequestError{Provider: a.Name(), StatusCode: apiErr.StatusCode, Body: apiErr.Body}
	}
	return err
}

// Compile-time check that GeminiAdapter implements Provider.
var _ Provider = (*GeminiAdapter)(nil)
