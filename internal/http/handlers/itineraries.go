package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type generateRequest struct {
	Destination  string `json:"destination"`
	DurationDays int    `json:"durationDays"`
}

type generateResponse struct {
	JobID string `json:"jobId"`
}

// GenerateItinerary accepts a generation request and returns the job id
// immediately; the itinerary is produced in the background.
func (a *App) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.jsonError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	jobID, err := a.Jobs.Create(r.Context(), req.Destination, req.DurationDays)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			a.jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("handlers: job creation failed")
		a.jsonError(w, http.StatusInternalServerError, "failed to process request")
		return
	}

	a.json(w, http.StatusAccepted, generateResponse{JobID: jobID})
}

// JobStatus returns the full job record for a job id.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := a.Jobs.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.jsonError(w, http.StatusNotFound, "Job ID not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: status lookup failed")
		a.jsonError(w, http.StatusInternalServerError, "failed to retrieve job status")
		return
	}

	a.json(w, http.StatusOK, job)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ListJobs returns recent jobs, newest first. Administrative endpoint.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.jsonError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	jobs, err := a.Jobs.ListRecent(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: job listing failed")
		a.jsonError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}

	a.json(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

// Root describes the API surface.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"message": "Travel Itinerary Generator API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"generate_itinerary": "POST /generate-itinerary",
			"job_status":         "GET /job-status/{job_id}",
			"jobs":               "GET /jobs",
			"health":             "GET /health",
		},
	})
}
