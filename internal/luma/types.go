// Package luma provides an HTTP client for the Luma Dream Machine
// text-to-video generation API.
package luma

// State represents the state of a Luma generation.
type State string

// Luma generation states aligned with the Dream Machine API.
const (
	StateQueued    State = "queued"
	StateDreaming  State = "dreaming"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// IsTerminal returns true if the state is a terminal state.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}

// generationRequest is the request body for POST /generations.
type generationRequest struct {
	Prompt     string `json:"prompt"`
	Model      string `json:"model"`
	Duration   string `json:"duration"`
	Resolution string `json:"resolution"`
}

// generationAssets holds asset locations in a generation response.
type generationAssets struct {
	Video string `json:"video,omitempty"`
	Image string `json:"image,omitempty"`
}

// generationResponse is the response body for both the submit and status
// endpoints.
type generationResponse struct {
	ID            string            `json:"id"`
	State         string            `json:"state"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Assets        *generationAssets `json:"assets,omitempty"`
}

// PollResult contains the result of polling a generation's status.
type PollResult struct {
	State         State
	VideoURL      string // Set when State is StateCompleted
	ThumbnailURL  string // Set when the completed generation has a still image
	FailureReason string // Set when State is StateFailed
}
