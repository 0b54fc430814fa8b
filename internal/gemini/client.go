// Package gemini provides an HTTP client for the Gemini video generation
// API. Unlike Luma and HeyGen, Gemini returns the finished asset in the
// generate response itself, so there is no status endpoint to poll.
package gemini

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

// Static errors for Gemini client operations.
var (
	// ErrAPIKeyNotSet is returned when no API key is provided and the
	// GEMINI_API_KEY environment variable is not set.
	ErrAPIKeyNotSet = errors.New("gemini: GEMINI_API_KEY environment variable is not set")
	// ErrNoVideoReturned is returned when the generate response contains no video.
	ErrNoVideoReturned = errors.New("gemini: generate failed: no video returned")
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("gemini: server error")
)

// APIError is returned when the Gemini API responds with a non-success
// status. StatusCode and Body carry the raw response for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gemini: request failed with status %d: %s", e.StatusCode, e.Body)
}

// Result is the finished asset returned by a generate call.
type Result struct {
	VideoURL     string
	ThumbnailURL string
}

// Client defines the interface for interacting with the Gemini video API.
type Client interface {
	// Generate produces a video for the prompt and returns the asset
	// locations directly.
	Generate(ctx context.Context, prompt string, durationSec int) (Result, error)
}

type generateRequest struct {
	Prompt          string `json:"prompt"`
	DurationSeconds int    `json:"durationSeconds"`
	AspectRatio     string `json:"aspectRatio"`
}

type generateResponse struct {
	Video     *mediaRef `json:"video"`
	Thumbnail *mediaRef `json:"thumbnail,omitempty"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type mediaRef struct {
	URI string `json:"uri"`
}

// HTTPClient is the HTTP implementation of the Gemini Client interface.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
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

// WithBaseURL sets a custom base URL for the Gemini API.
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

// NewClient creates a new Gemini HTTP client.
// The API key can be set via the WithAPIKey option. If not provided,
// it is read from the environment variable GEMINI_API_KEY.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		model:      "veo-2.0-generate-001",
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv("GEMINI_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return c, nil
}

// Generate produces a video for the prompt and returns the asset locations.
// The call blocks until the provider responds with the finished asset.
func (c *HTTPClient) Generate(ctx context.Context, prompt string, durationSec int) (Result, error) {
	reqBody := generateRequest{
		Prompt:          prompt,
		DurationSeconds: durationSec,
		AspectRatio:     "16:9",
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateVideo", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("gemini: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode >= 500 {
			return Result{}, fmt.Errorf("%w: %w", ErrServerError, apiErr)
		}
		return Result{}, apiErr
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Result{}, fmt.Errorf("gemini: unmarshal response: %w", err)
	}

	if parsed.Video == nil || parsed.Video.URI == "" {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return Result{}, fmt.Errorf("%w: %s", ErrNoVideoReturned, parsed.Error.Message)
		}
		return Result{}, ErrNoVideoReturned
	}

	out := Result{VideoURL: parsed.Video.URI}
	if parsed.Thumbnail != nil {
		out.ThumbnailURL = parsed.Thumbnail.URI
	}
	return out, nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
