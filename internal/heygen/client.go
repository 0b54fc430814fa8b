package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Static errors for HeyGen client operations.
var (
	// ErrAPIKeyNotSet is returned when no API key is provided and the
	// HEYGEN_API_KEY environment variable is not set.
	ErrAPIKeyNotSet = errors.New("heygen: HEYGEN_API_KEY environment variable is not set")
	// ErrVideoIDRequired is returned when the video ID is not provided.
	ErrVideoIDRequired = errors.New("heygen: video ID is required")
	// ErrNoVideoIDReturned is returned when the generate response contains no video ID.
	ErrNoVideoIDReturned = errors.New("heygen: generate failed: no video ID returned")
	// ErrGenerateFailed is returned when the generate operation fails.
	ErrGenerateFailed = errors.New("heygen: generate failed")
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("heygen: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("heygen: rate limited")
)

// APIError is returned when the HeyGen API responds with a non-success
// status. StatusCode and Body carry the raw response for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("heygen: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client defines the interface for interacting with the HeyGen API.
type Client interface {
	// Generate submits a video generation request and returns the video ID.
	Generate(ctx context.Context, prompt string, durationSec int) (videoID string, err error)

	// Poll checks the status of a video job and returns the result.
	Poll(ctx context.Context, videoID string) (PollResult, error)
}

// HTTPClient is the HTTP implementation of the HeyGen Client interface.
type HTTPClient struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithAPIKey sets the API key for authentication.
func WithAPIKey(key string) ClientOption {
	return func(hc *HTTPClient) {
		hc.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom base URL for the HeyGen API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// WithMaxRetries sets the maximum number of retries for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(hc *HTTPClient) {
		hc.maxRetries = n
	}
}

// WithBaseBackoff sets the initial backoff duration for retries.
func WithBaseBackoff(d time.Duration) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseBackoff = d
	}
}

// NewClient creates a new HeyGen HTTP client.
// The API key can be set via the WithAPIKey option. If not provided,
// it is read from the environment variable HEYGEN_API_KEY.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:     "https://api.heygen.com",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxRetries:  3,
		baseBackoff: 1 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	// If API key was not set via option, try environment variable
	if c.apiKey == "" {
		c.apiKey = os.Getenv("HEYGEN_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return c, nil
}

// Generate submits a video generation request and returns the video ID.
func (c *HTTPClient) Generate(ctx context.Context, prompt string, durationSec int) (string, error) {
	reqBody := generateRequest{
		Caption:   false,
		Dimension: dimension{Width: 1920, Height: 1080},
		VideoInputs: []videoInput{
			{
				Voice: voiceInput{
					Type:      "text",
					InputText: prompt,
					Duration:  durationSec,
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("heygen: marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v2/video/generate", c.baseURL)

	var resp generateResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, reqURL, bodyBytes, &resp); err != nil {
		return "", err
	}

	if resp.Data == nil || resp.Data.VideoID == "" {
		if resp.Error != nil && resp.Error.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrGenerateFailed, resp.Error.Message)
		}
		return "", ErrNoVideoIDReturned
	}

	return resp.Data.VideoID, nil
}

// Poll checks the status of a video job and returns the result.
func (c *HTTPClient) Poll(ctx context.Context, videoID string) (PollResult, error) {
	if videoID == "" {
		return PollResult{}, ErrVideoIDRequired
	}

	reqURL := fmt.Sprintf("%s/v1/video_status.get?video_id=%s", c.baseURL, url.QueryEscape(videoID))

	var resp statusResponse
	if err := c.doRequestWithRetry(ctx, http.MethodGet, reqURL, nil, &resp); err != nil {
		return PollResult{}, err
	}

	if resp.Data == nil {
		return PollResult{Status: StatusProcessing}, nil
	}

	var mapped VideoStatus
	switch resp.Data.Status {
	case "pending":
		mapped = StatusPending
	case "waiting":
		mapped = StatusWaiting
	case "processing":
		mapped = StatusProcessing
	case "completed":
		mapped = StatusCompleted
	case "failed":
		mapped = StatusFailed
	default:
		mapped = VideoStatus(resp.Data.Status)
	}

	result := PollResult{
		Status: mapped,
	}

	switch result.Status {
	case StatusCompleted:
		result.VideoURL = resp.Data.VideoURL
		result.ThumbnailURL = resp.Data.ThumbnailURL
	case StatusFailed:
		if resp.Data.Error != nil {
			result.Error = resp.Data.Error.Message
		}
	}

	return result, nil
}

// doRequestWithRetry performs an HTTP request with exponential backoff retry.
func (c *HTTPClient) doRequestWithRetry(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var lastErr error
	backoff := c.baseBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("heygen: context cancelled: %w", ctx.Err())
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}

		err := c.doRequest(ctx, method, url, body, result)
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("heygen: max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request.
func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("heygen: create request: %w", err)
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("heygen: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{err: fmt.Errorf("heygen: read response: %w", err)}
	}

	// Handle non-2xx status codes
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		// 5xx errors are retryable
		if resp.StatusCode >= 500 {
			return &retryableError{err: fmt.Errorf("%w: %w", ErrServerError, apiErr)}
		}
		// 429 (rate limit) is retryable
		if resp.StatusCode == 429 {
			return &retryableError{err: fmt.Errorf("%w: %w", ErrRateLimited, apiErr)}
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("heygen: unmarshal response: %w", err)
		}
	}

	return nil
}

// retryableError wraps errors that should be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryable returns true if the error should be retried.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
