package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videoforge/videoforge-api/internal/job"
	"github.com/videoforge/videoforge-api/internal/provider"
)

// noopScheduler drops scheduled poll cycles so handler tests never touch
// real timers.
type noopScheduler struct{}

func (noopScheduler) AfterFunc(_ time.Duration, _ func()) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter builds a router over a real in-memory store and registry.
// The demo provider is always registered; luma, gemini and heygen are
// registered without credentials so they reject submissions.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	registry := provider.NewRegistry()
	registry.Register(provider.NewDemo())
	registry.Register(provider.NewLumaAdapter(nil))
	registry.Register(provider.NewGeminiAdapter(nil))
	registry.Register(provider.NewHeyGenAdapter(nil))

	service := job.NewGenerationService(
		job.NewMemoryStore(),
		registry,
		testLogger(),
		job.WithScheduler(noopScheduler{}),
	)

	h := NewHandlers(service, testLogger())
	return NewRouter(h, testLogger(), DefaultConfig())
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeJSON[HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.APIConnected, "no external credential is configured")
	assert.Equal(t, map[string]bool{
		"demo":   true,
		"luma":   false,
		"gemini": false,
		"heygen": false,
	}, resp.Models)
}

func TestHealth_APIConnectedWithCredential(t *testing.T) {
	registry := provider.NewRegistry()
	registry.Register(provider.NewDemo())
	registry.Register(availableProvider{name: "luma"})

	service := job.NewGenerationService(
		job.NewMemoryStore(),
		registry,
		testLogger(),
		job.WithScheduler(noopScheduler{}),
	)
	h := NewHandlers(service, testLogger())
	router := NewRouter(h, testLogger(), DefaultConfig())

	rec := doRequest(t, router, http.MethodGet, "/api/health", nil)

	resp := decodeJSON[HealthResponse](t, rec)
	assert.True(t, resp.APIConnected)
}

func TestGenerateVideo_Demo(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/videos/generate", GenerateVideoRequest{
		Prompt:   "a lighthouse on a stormy coast at dusk",
		Duration: "5",
		Model:    "demo",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	created := decodeJSON[job.Job](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "a lighthouse on a stormy coast at dusk", created.Prompt)
	assert.Equal(t, 5, created.DurationSeconds)
	assert.Equal(t, "demo", created.Provider)
	assert.Equal(t, job.StatusCompleted, created.Status)
	assert.NotEmpty(t, created.VideoURL)
	require.NotNil(t, created.Metadata)
	assert.Equal(t, "1080p", created.Metadata.Resolution)
	assert.Equal(t, "mp4", created.Metadata.Format)

	// The status record reflects completion and is stable across reads.
	for i := 0; i < 2; i++ {
		statusRec := doRequest(t, router, http.MethodGet, "/api/videos/"+created.ID+"/status", nil)
		require.Equal(t, http.StatusOK, statusRec.Code)

		status := decodeJSON[job.VideoStatus](t, statusRec)
		assert.Equal(t, created.ID, status.ID)
		assert.Equal(t, job.StatusCompleted, status.Status)
		assert.Equal(t, 100, status.Progress)
		assert.Equal(t, "Video generated successfully", status.Message)
	}
}

func TestGenerateVideo_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/videos/generate", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Equal(t, "Validation Error", resp.Error)
	assert.Equal(t, "invalid JSON body", resp.Message)
}

func TestGenerateVideo_Validation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		req  GenerateVideoRequest
	}{
		{
			name: "prompt too short",
			req:  GenerateVideoRequest{Prompt: "short", Duration: "5", Model: "demo"},
		},
		{
			name: "missing prompt",
			req:  GenerateVideoRequest{Duration: "5", Model: "demo"},
		},
		{
			name: "invalid duration",
			req:  GenerateVideoRequest{Prompt: "a lighthouse on a stormy coast", Duration: "7", Model: "demo"},
		},
		{
			name: "unknown model",
			req:  GenerateVideoRequest{Prompt: "a lighthouse on a stormy coast", Duration: "5", Model: "sora"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/videos/generate", tt.req)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			resp := decodeJSON[ErrorResponse](t, rec)
			assert.Equal(t, "Validation Error", resp.Error)
			assert.Equal(t, "request validation failed", resp.Message)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestGenerateVideo_MissingCredential(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/videos/generate", GenerateVideoRequest{
		Prompt:   "a lighthouse on a stormy coast at dusk",
		Duration: "5",
		Model:    "luma",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Equal(t, "Generation Failed", resp.Error)
	assert.Contains(t, resp.Message, "LUMA_API_KEY")

	// The failed attempt is still recorded.
	listRec := doRequest(t, router, http.MethodGet, "/api/videos", nil)
	require.Equal(t, http.StatusOK, listRec.Code)

	list := decodeJSON[ListVideosResponse](t, listRec)
	require.Len(t, list.Videos, 1)
	assert.Equal(t, job.StatusFailed, list.Videos[0].Status)
}

func TestGetVideo_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/videos/vid-missing", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Equal(t, "Not Found", resp.Error)
	assert.Equal(t, "Video not found", resp.Message)
	assert.Empty(t, resp.Details)
}

func TestGetVideoStatus_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/videos/vid-missing/status", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeJSON[ErrorResponse](t, rec)
	assert.Equal(t, "Not Found", resp.Error)
	assert.Equal(t, "Video not found", resp.Message)
}

func TestGetVideo(t *testing.T) {
	router := newTestRouter(t)

	created := decodeJSON[job.Job](t, doRequest(t, router, http.MethodPost, "/api/videos/generate", GenerateVideoRequest{
		Prompt:   "a lighthouse on a stormy coast at dusk",
		Duration: "10",
		Model:    "demo",
	}))

	rec := doRequest(t, router, http.MethodGet, "/api/videos/"+created.ID, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeJSON[job.Job](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 10, got.DurationSeconds)
	assert.Equal(t, job.StatusCompleted, got.Status)
}

func TestListVideos(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/videos", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decodeJSON[ListVideosResponse](t, rec)
	assert.Empty(t, list.Videos)

	for i := 0; i < 3; i++ {
		doRequest(t, router, http.MethodPost, "/api/videos/generate", GenerateVideoRequest{
			Prompt:   "a lighthouse on a stormy coast at dusk",
			Duration: "5",
			Model:    "demo",
		})
	}

	rec = doRequest(t, router, http.MethodGet, "/api/videos", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	list = decodeJSON[ListVideosResponse](t, rec)
	assert.Len(t, list.Videos, 3)
}

func TestCORSHeaders(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

// availableProvider is a minimal provider stub that reports a configured
// credential.
type availableProvider struct {
	name string
}

func (p availableProvider) Name() string  { return p.name }
func (availableProvider) Available() bool { return true }

func (availableProvider) Submit(_ context.Context, _ string, _ int) (provider.Submission, error) {
	return provider.Submission{}, nil
}

func (availableProvider) CheckStatus(_ context.Context, _ string) (provider.Status, error) {
	return provider.Status{State: provider.StateProcessing}, nil
}
