package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/videoforge/videoforge-api/internal/job"
)

// Error categories used in responses.
const (
	errValidation       = "Validation Error"
	errGenerationFailed = "Generation Failed"
	errNotFound         = "Not Found"
	errInternal         = "Internal Server Error"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	service   *job.GenerationService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *job.GenerationService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// Health handles GET /api/health requests. Each model flag reflects whether
// that provider's credential is configured in the environment.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	models := h.service.Health()

	apiConnected := false
	for name, available := range models {
		if name != "demo" && available {
			apiConnected = true
			break
		}
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		APIConnected: apiConnected,
		Models:       models,
	})
}

// GenerateVideo handles POST /api/videos/generate requests.
func (h *Handlers) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	var req GenerateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, errValidation, "invalid JSON body", nil)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, errValidation, "request validation failed", validationDetails(err))
		return
	}

	// Validated as "5" or "10" above.
	duration, _ := strconv.Atoi(req.Duration)

	created, err := h.service.Generate(r.Context(), job.GenerateInput{
		Prompt:          req.Prompt,
		DurationSeconds: duration,
		Provider:        req.Model,
	})
	if err != nil {
		h.logger.Error("generation dispatch failed",
			slog.String("model", req.Model),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, errGenerationFailed, err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

// GetVideoStatus handles GET /api/videos/{id}/status requests.
func (h *Handlers) GetVideoStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	status, err := h.service.GetStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, errNotFound, "Video not found", nil)
			return
		}
		h.logger.Error("failed to get status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, errInternal, "failed to get status", nil)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// GetVideo handles GET /api/videos/{id} requests.
func (h *Handlers) GetVideo(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	found, err := h.service.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, errNotFound, "Video not found", nil)
			return
		}
		h.logger.Error("failed to get job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, errInternal, "failed to get job", nil)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

// ListVideos handles GET /api/videos requests.
func (h *Handlers) ListVideos(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.ListJobs(r.Context())
	if err != nil {
		h.logger.Error("failed to list jobs",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, errInternal, "failed to list videos", nil)
		return
	}

	writeJSON(w, http.StatusOK, ListVideosResponse{Videos: jobs})
}

// validationDetails flattens validator field errors into readable strings.
func validationDetails(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
	}
	return details
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, category, message string, details []string) {
	writeJSON(w, status, ErrorResponse{
		Error:   category,
		Message: message,
		Details: details,
	})
}
