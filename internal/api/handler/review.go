package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/jairajbhatia/reviewgraph/internal/api/middleware"
	"github.com/jairajbhatia/reviewgraph/internal/api/response"
	"github.com/jairajbhatia/reviewgraph/internal/review"
	"github.com/jairajbhatia/reviewgraph/internal/store"
	"github.com/jairajbhatia/reviewgraph/pkg/models"
)

// ReviewService defines the interface the review handlers depend on.
type ReviewService interface {
	Submit(ctx context.Context, sub models.Submission) (*models.Job, error)
	GetJob(ctx context.Context, submitterID string, jobID uuid.UUID) (*models.Job, error)
}

type submitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type jobResponse struct {
	JobID     string               `json:"job_id"`
	Status    string               `json:"status"`
	CreatedAt string               `json:"created_at"`
	Result    *models.ReviewResult `json:"result"`
	Error     *string              `json:"error"`
}

// NewSubmitHandler returns an http.HandlerFunc for POST /api/v1/code.
// The submission is accepted for background review; 202 with a job_id means
// the job exists and can be polled immediately.
func NewSubmitHandler(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := mw.GetUsername(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing session", nil)
			return
		}

		var req struct {
			Code        string `json:"code"`
			SubmitterID string `json:"submitter_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		submitter := req.SubmitterID
		if submitter == "" {
			submitter = username
		}
		if submitter != username {
			response.Error(w, http.StatusForbidden, "FORBIDDEN",
				"submitter_id must match the authenticated user", nil)
			return
		}

		job, err := svc.Submit(r.Context(), models.Submission{
			Code:        req.Code,
			SubmitterID: submitter,
		})
		if err != nil {
			switch {
			case errors.Is(err, review.ErrEmptyCode):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "code is required", nil)
			case errors.Is(err, review.ErrMissingSubmitter):
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "submitter_id is required", nil)
			default:
				response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
					"An unexpected error occurred", nil)
			}
			return
		}

		response.Accepted(w, submitResponse{
			JobID:  job.ID.String(),
			Status: job.Status,
		})
	}
}

// NewJobStatusHandler returns an http.HandlerFunc for
// GET /api/v1/code/{submitterID}/{jobID}. A job is only visible through the
// (submitter, job) pair that created it.
func NewJobStatusHandler(svc ReviewService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submitterID := chi.URLParam(r, "submitterID")

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobID must be a valid UUID", nil)
			return
		}

		job, err := svc.GetJob(r.Context(), submitterID, jobID)
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
			return
		}
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		resp := jobResponse{
			JobID:     job.ID.String(),
			Status:    job.Status,
			CreatedAt: job.CreatedAt.UTC().Format(time.RFC3339),
			Error:     job.ErrorMessage,
		}
		// Result is exposed only on completed jobs; a mid-run job shows
		// neither result nor error.
		if job.Status == models.JobStatusCompleted {
			resp.Result = job.Result
		}

		response.JSON(w, resp)
	}
}
