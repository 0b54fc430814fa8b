// Package heygen provides an HTTP client for the HeyGen video generation API.
package heygen

// VideoStatus represents the status of a HeyGen video job.
type VideoStatus string

// HeyGen video statuses aligned with the HeyGen API.
const (
	StatusPending    VideoStatus = "pending"
	StatusWaiting    VideoStatus = "waiting"
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
)

// IsTerminal returns true if the status is a terminal state.
func (s VideoStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// generateRequest is the request body for POST /v2/video/generate.
type generateRequest struct {
	Caption     bool         `json:"caption"`
	Dimension   dimension    `json:"dimension"`
	VideoInputs []videoInput `json:"video_inputs"`
}

type dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type videoInput struct {
	Voice voiceInput `json:"voice"`
}

type voiceInput struct {
	Type      string `json:"type"`
	InputText string `json:"input_text"`
	Duration  int    `json:"duration,omitempty"`
}

// generateResponse is the response body for POST /v2/video/generate.
type generateResponse struct {
	Data  *generateData `json:"data"`
	Error *apiErrorBody `json:"error"`
}

type generateData struct {
	VideoID string `json:"video_id"`
}

// statusResponse is the response body for GET /v1/video_status.get.
type statusResponse struct {
	Code int         `json:"code"`
	Data *statusData `json:"data"`
}

type statusData struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	VideoURL     string        `json:"video_url,omitempty"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
	Error        *apiErrorBody `json:"error,omitempty"`
}

type apiErrorBody struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// PollResult contains the result of polling a video job's status.
type PollResult struct {
	Status       VideoStatus
	VideoURL     string // Set when Status is StatusCompleted
	ThumbnailURL string // Set when the completed video has a thumbnail
	Error        string // Set when Status is StatusFailed
}
