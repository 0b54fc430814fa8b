package luma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Static errors for Luma client operations.
var (
	// ErrAPIKeyNotSet is returned when no API key is provided and the
	// LUMA_API_KEY environment variable is not set.
	ErrAPIKeyNotSet = errors.New("luma: LUMA_API_KEY environment variable is not set")
	// ErrGenerationIDRequired is returned when the generation ID is not provided.
	ErrGenerationIDRequired = errors.New("luma: generation ID is required")
	// ErrNoGenerationID is returned when the submit response contains no generation ID.
	ErrNoGenerationID = errors.New("luma: submit failed: no generation ID returned")
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("luma: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("luma: rate limited")
)

// APIError is returned when the Luma API responds with a non-success status.
// StatusCode and Body carry the raw response for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("luma: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client defines the interface for interacting with the Luma API.
type Client interface {
	// Submit sends a text-to-video generation request and returns the
	// generation ID.
	Submit(ctx context.Context, prompt string, durationSec int) (generationID string, err error)

	// Poll checks the status of a generation and returns the result.
	Poll(ctx context.Context, generationID string) (PollResult, error)
}

// HTTPClient is the HTTP implementation of the Luma Client interface.
type HTTPClient struct {
	apiKey      string
	baseURL     string
	model       string
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

// WithBaseURL sets a custom base URL for the Luma API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// WithModel sets the generation model.
func WithModel(model string) ClientOption {
	return func(hc *HTTPClient) {
		hc.model = model
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

// NewClient creates a new Luma HTTP client.
// The API key can be set via the WithAPIKey option. If not provided,
// it is read from the environment variable LUMA_API_KEY.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:     "https://api.lumalabs.ai/dream-machine/v1",
		model:       "ray-2",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxRetries:  3,
		baseBackoff: 1 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	// If API key was not set via option, try environment variable
	if c.apiKey == "" {
		c.apiKey = os.Getenv("LUMA_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return c, nil
}

// Submit sends a text-to-video generation request and returns the generation ID.
func (c *HTTPClient) Submit(ctx context.Context, prompt string, durationSec int) (string, error) {
	reqBody := generationRequest{
		Prompt:     prompt,
		Model:      c.model,
		Duration:   fmt.Sprintf("%ds", durationSec),
		Resolution: "1080p",
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("luma: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/generations", c.baseURL)

	var resp generationResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, url, bodyBytes, &resp); err != nil {
		return "", err
	}

	if resp.ID == "" {
		return "", ErrNoGenerationID
	}

	return resp.ID, nil
}

// Poll checks the status of a generation and returns the result.
func (c *HTTPClient) Poll(ctx context.Context, generationID string) (PollResult, error) {
	if generationID == "" {
		return PollResult{}, ErrGenerationIDRequired
	}

	url := fmt.Sprintf("%s/generations/%s", c.baseURL, generationID)

	var resp generationResponse
	if err := c.doRequestWithRetry(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return PollResult{}, err
	}

	var mapped State
	switch resp.State {
	case "queued":
		mapped = StateQueued
	case "dreaming":
		mapped = StateDreaming
	case "completed":
		mapped = StateCompleted
	case "failed":
		mapped = StateFailed
	default:
		mapped = State(resp.State)
	}

	result := PollResult{
		State: mapped,
	}

	switch result.State {
	case StateCompleted:
		if resp.Assets != nil {
			result.VideoURL = resp.Assets.Video
			result.ThumbnailURL = resp.Assets.Image
		}
	case StateFailed:
		result.FailureReason = resp.FailureReason
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
				return fmt.Errorf("luma: context cancelled: %w", ctx.Err())
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

	return fmt.Errorf("luma: max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request.
func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("luma: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("luma: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{err: fmt.Errorf("luma: read response: %w", err)}
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
			return fmt.Errorf("luma: unmarshal response: %w", err)
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
