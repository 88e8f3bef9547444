// Package handler contains the HTTP handlers for the inspection API.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edgestake/pickwire/internal/api/response"
	"github.com/edgestake/pickwire/internal/cache"
	"github.com/edgestake/pickwire/internal/store"
	"github.com/edgestake/pickwire/pkg/models"
)

// cachedStatusTTL bounds how long a job status served from the store is kept
// in the cache for subsequent polls.
const cachedStatusTTL = time.Hour

var validJobStatuses = map[string]bool{
	models.JobStatusQueued:  true,
	models.JobStatusRunning: true,
	models.JobStatusDone:    true,
	models.JobStatusFailed:  true,
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs.
func NewListJobsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		status := q.Get("status")
		if status != "" && !validJobStatuses[status] {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"status must be one of queued, running, done, failed", nil)
			return
		}

		var gameID int64
		if raw := q.Get("game_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
					"game_id must be a positive integer", nil)
				return
			}
			gameID = id
		}

		page, limit := parsePagination(q.Get("page"), q.Get("limit"))

		jobs, total, err := s.ListPickJobs(r.Context(), store.JobFilter{
			Status: status,
			GameID: gameID,
			Page:   page,
			Limit:  limit,
		})
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list jobs", nil)
			return
		}

		response.Collection(w, jobs, response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}.
func NewGetJobHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, chi.URLParam(r, "jobID"), "jobID")
		if !ok {
			return
		}

		job, err := s.GetPickJob(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load job", nil)
			return
		}
		response.JSON(w, job)
	}
}

// NewJobStatusHandler returns an http.HandlerFunc for
// GET /api/v1/jobs/{jobID}/status. Statuses are served from the cache when
// possible; the store is the fallback and refills the cache.
func NewJobStatusHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, chi.URLParam(r, "jobID"), "jobID")
		if !ok {
			return
		}

		if status, found, err := c.GetJobStatus(r.Context(), id); err == nil && found {
			response.JSON(w, jobStatusResponse{JobID: id, Status: status, Cached: true})
			return
		}

		job, err := s.GetPickJob(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load job", nil)
			return
		}

		// Best effort refill; a cache error only costs the next poll a store read.
		_ = c.SetJobStatus(r.Context(), id, job.Status, cachedStatusTTL)
		response.JSON(w, jobStatusResponse{JobID: id, Status: job.Status})
	}
}

// NewRequeueJobHandler returns an http.HandlerFunc for
// POST /api/v1/jobs/{jobID}/requeue. Only failed jobs can be re-queued; the
// fresh attempt budget lets an operator retry after fixing the cause.
func NewRequeueJobHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, chi.URLParam(r, "jobID"), "jobID")
		if !ok {
			return
		}

		job, err := s.GetPickJob(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load job", nil)
			return
		}
		if job.Status != models.JobStatusFailed {
			response.Error(w, http.StatusConflict, "CONFLICT",
				"Only failed jobs can be re-queued", map[string]string{"status": job.Status})
			return
		}

		if err := s.RequeueFailedJob(r.Context(), id, time.Now().UTC()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusConflict, "CONFLICT",
					"Job is no longer failed", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to re-queue job", nil)
			return
		}

		job, err = s.GetPickJob(r.Context(), id)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load job", nil)
			return
		}
		// 202: the job is queued again, a worker picks it up on a later cycle.
		response.Accepted(w, job)
	}
}

// NewQueueStatsHandler returns an http.HandlerFunc for GET /api/v1/queue.
func NewQueueStatsHandler(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.QueueStats(r.Context(), time.Now().UTC())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to load queue stats", nil)
			return
		}
		response.JSON(w, stats)
	}
}

type jobStatusResponse struct {
	JobID  int64  `json:"job_id"`
	Status string `json:"status"`
	Cached bool   `json:"cached,omitempty"`
}

// parseID parses a positive int64 path parameter, writing a 400 on failure.
func parseID(w http.ResponseWriter, raw, name string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			name+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func parsePagination(rawPage, rawLimit string) (int, int) {
	page := 1
	if p, err := strconv.Atoi(rawPage); err == nil && p > 0 {
		page = p
	}
	limit := 50
	if l, err := strconv.Atoi(rawLimit); err == nil && l > 0 {
		limit = l
	}
	if limit > 200 {
		limit = 200
	}
	return page, limit
}
