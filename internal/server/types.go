// Package server provides the HTTP surface for the video generation API.
// Job and status records are serialized directly; the request, error and
// health shapes are defined here.
package server

import "github.com/videoforge/videoforge-api/internal/job"

// GenerateVideoRequest is the HTTP request body for starting a generation.
type GenerateVideoRequest struct {
	// Prompt is the text to generate a video from.
	Prompt string `json:"prompt" validate:"required,min=10,max=500"`
	// Duration is the requested clip length in seconds, "5" or "10".
	Duration string `json:"duration" validate:"required,oneof=5 10"`
	// Model is the provider to generate with.
	Model string `json:"model" validate:"required,oneof=luma gemini heygen demo"`
}

// ListVideosResponse is the HTTP response for listing jobs.
type ListVideosResponse struct {
	Videos []*job.Job `json:"videos"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
	// APIConnected is true when at least one external provider credential
	// is configured.
	APIConnected bool `json:"apiConnected"`
	// Models maps each provider name to its availability.
	Models map[string]bool `json:"models"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error category, e.g. "Validation Error".
	Error string `json:"error"`
	// Message is the human-readable error message.
	Message string `json:"message"`
	// Details carries per-field validation failures, if any.
	Details []string `json:"details,omitempty"`
}
