package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

// setTestEnv sets the GEMINI_API_KEY env var and registers cleanup.
func setTestEnv(t *testing.T) {
	t.Helper()
	if err := os.Setenv("GEMINI_API_KEY", "test-key"); err != nil {
		t.Fatalf("failed to set env: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("GEMINI_API_KEY")
	})
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	_ = os.Unsetenv("GEMINI_API_KEY")

	_, err := NewClient()
	if !errors.Is(err, ErrAPIKeyNotSet) {
		t.Errorf("expected ErrAPIKeyNotSet, got %v", err)
	}
}

func TestNewClient_WithAPIKeyOption(t *testing.T) {
	_ = os.Unsetenv("GEMINI_API_KEY")

	client, err := NewClient(WithAPIKey("explicit-api-key"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.apiKey != "explicit-api-key" {
		t.Errorf("expected apiKey to be 'explicit-api-key', got '%s'", client.apiKey)
	}
}

func TestGenerate_Success(t *testing.T) {
	setTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/models/veo-2.0-generate-001:generateVideo" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("expected x-goog-api-key test-key, got %s", r.Header.Get("x-goog-api-key"))
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if req.Prompt != "a hummingbird hovering over a flower" {
			t.Errorf("unexpected prompt %q", req.Prompt)
		}
		if req.DurationSeconds != 5 {
			t.Errorf("expected duration 5, got %d", req.DurationSeconds)
		}
		if req.AspectRatio != "16:9" {
			t.Errorf("expected aspect ratio 16:9, got %q", req.AspectRatio)
		}

		_ = json.NewEncoder(w).Encode(generateResponse{
			Video:     &mediaRef{URI: "https://cdn.gemini/video.mp4"},
			Thumbnail: &mediaRef{URI: "https://cdn.gemini/thumb.jpg"},
		})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))

	result, err := client.Generate(context.Background(), "a hummingbird hovering over a flower", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.VideoURL != "https://cdn.gemini/video.mp4" {
		t.Errorf("unexpected video URL %q", result.VideoURL)
	}
	if result.ThumbnailURL != "https://cdn.gemini/thumb.jpg" {
		t.Errorf("unexpected thumbnail URL %q", result.ThumbnailURL)
	}
}

func TestGenerate_NoThumbnail(t *testing.T) {
	setTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{
			Video: &mediaRef{URI: "https://cdn.gemini/video.mp4"},
		})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))

	result, err := client.Generate(context.Background(), "a hummingbird hovering over a flower", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ThumbnailURL != "" {
		t.Errorf("expected empty thumbnail, got %q", result.ThumbnailURL)
	}
}

func TestGenerate_NoVideoReturned(t *testing.T) {
	setTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))

	_, err := client.Generate(context.Background(), "a hummingbird hovering over a flower", 5)
	if !errors.Is(err, ErrNoVideoReturned) {
		t.Errorf("expected ErrNoVideoReturned, got %v", err)
	}
}

func TestGenerate_ErrorMessage(t *testing.T) {
	setTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"prompt blocked by safety filters"}}`))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))

	_, err := client.Generate(context.Background(), "a hummingbird hovering over a flower", 5)
	if !errors.Is(err, ErrNoVideoReturned) {
		t.Fatalf("expected ErrNoVideoReturned, got %v", err)
	}
	if got := err.Error(); got == ErrNoVideoReturned.Error() {
		t.Error("expected error to carry the provider message")
	}
}

func TestGenerate_APIError(t *testing.T) {
	setTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("api key not authorized"))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))

	_, err := client.Generate(context.Background(), "a hummingbird hovering over a flower", 5)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", apiErr.StatusCode)
	}
	if apiErr.Body != "api key not authorized" {
		t.Errorf("unexpected body %q", apiErr.Body)
	}
}

func TestGenerate_ServerError(t *testing.T) {
	setTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal"))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))

	_, err := client.Generate(context.Background(), "a hummingbird hovering over a flower", 5)
	if !errors.Is(err, ErrServerError) {
		t.Errorf("expected ErrServerError, got %v", err)
	}
}

func TestGenerate_ContextCancelled(t *testing.T) {
	setTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "a hummingbird hovering over a flower", 5)
	if err == nil {
		t.Error("expected error due to context cancellation")
	}
}

func TestWithModel(t *testing.T) {
	setTestEnv(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/veo-3.0-generate-001:generateVideo" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(generateResponse{
			Video: &mediaRef{URI: "https://cdn.gemini/video.mp4"},
		})
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL), WithModel("veo-3.0-generate-001"))

	if _, err := client.Generate(context.Background(), "a hummingbird hovering over a flower", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
