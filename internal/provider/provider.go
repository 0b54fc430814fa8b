// Package provider defines the common interface for video generation
// providers. Luma, Gemini, HeyGen and the local demo stand-in all implement
// it, normalizing provider-specific job vocabularies into a shared state set.
package provider

import (
	"context"
	"fmt"
)

// State is the normalized status of a provider-side generation job.
type State string

// Normalized job states shared across providers.
const (
	StateQueued     State = "queued"     // Accepted but not yet running
	StateProcessing State = "processing" // Generation in progress
	StateCompleted  State = "completed"  // Finished, asset available
	StateFailed     State = "failed"     // Failed on the provider side
)

// IsTerminal returns true if the state represents a final state.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Asset locates a generated video and its optional thumbnail.
type Asset struct {
	VideoURL     string
	ThumbnailURL string
}

// Submission is the result of submitting a generation request. Asynchronous
// providers return a Handle for later status checks; synchronous providers
// (Gemini, Demo) return the finished Asset directly and skip polling.
type Submission struct {
	// Handle is the provider-side job identifier. Empty when Asset is set.
	Handle string
	// Asset is non-nil when the provider completed synchronously.
	Asset *Asset
}

// Status is the result of checking a provider-side job.
type Status struct {
	// State is the normalized job state. Unrecognized provider vocabulary
	// maps to StateProcessing so an in-flight job is never failed spuriously.
	State State
	// Asset is set when State is StateCompleted.
	Asset *Asset
	// FailureReason is set when State is StateFailed, if the provider gave one.
	FailureReason string
}

// Provider defines the interface for video generation backends.
type Provider interface {
	// Name returns the provider's registry name, e.g. "luma".
	Name() string

	// Available reports whether the provider is usable, i.e. its credential
	// is configured. The demo provider is always available.
	Available() bool

	// Submit sends a generation request and returns either a job handle for
	// polling or, for synchronous providers, the finished asset.
	// Returns *AuthError when no credential is configured.
	Submit(ctx context.Context, prompt string, durationSec int) (Submission, error)

	// CheckStatus polls the provider for the job identified by handle.
	CheckStatus(ctx context.Context, handle string) (Status, error)
}

// AuthError indicates a provider cannot be used because its credential is
// not configured. Submission fails fast with this error instead of attempting
// a doomed network call.
type AuthError struct {
	// Provider is the registry name of the provider.
	Provider string
	// EnvVar is the environment variable that holds the missing credential.
	EnvVar string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: missing API credential (%s is not set)", e.Provider, e.EnvVar)
}

// RequestError indicates a provider returned a non-success HTTP response.
// The message carries the status code and raw body for diagnosis.
type RequestError struct {
	// Provider is the registry name of the provider.
	Provider string
	// StatusCode is the HTTP status returned by the provider.
	StatusCode int
	// Body is the raw response body.
	Body string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}
