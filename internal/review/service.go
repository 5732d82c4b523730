package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jairajbhatia/reviewgraph/internal/cache"
	"github.com/jairajbhatia/reviewgraph/internal/store"
	"github.com/jairajbhatia/reviewgraph/pkg/models"
)

var (
	ErrEmptyCode        = errors.New("code is required")
	ErrMissingSubmitter = errors.New("submitter_id is required")
)

const jobStatusTTL = 30 * time.Minute

// Service owns the job lifecycle: persist the record, run the orchestration
// graph in the background, and record exactly one terminal state.
type Service struct {
	graph *Graph
	store store.Store
	cache cache.Cache
}

// NewService creates a new review Service.
func NewService(graph *Graph, st store.Store, ca cache.Cache) *Service {
	return &Service{graph: graph, store: st, cache: ca}
}

// Submit validates the submission, creates a processing job record, and
// dispatches the review graph in a background goroutine. It returns the job
// immediately; the returned job_id is usable for polling right away. No job
// record is written and no work is scheduled when validation fails.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (*models.Job, error) {
	if strings.TrimSpace(sub.Code) == "" {
		return nil, ErrEmptyCode
	}
	if sub.SubmitterID == "" {
		return nil, ErrMissingSubmitter
	}

	job := &models.Job{
		ID:          uuid.New(),
		SubmitterID: sub.SubmitterID,
		Status:      models.JobStatusProcessing,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	_ = s.cache.SetJobStatus(ctx, job.ID, models.JobStatusProcessing, jobStatusTTL)

	go s.runReview(sub, job.ID)

	return job, nil
}

// runReview executes the graph in a goroutine. It recovers from panics and
// always moves the job to exactly one terminal status. The store's guarded
// updates make a second transition impossible even if both paths fire.
func (s *Service) runReview(sub models.Submission, jobID uuid.UUID) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in runReview", "error", r, "job_id", jobID)
			s.failJob(ctx, jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	result, err := s.graph.Run(ctx, sub)
	if err != nil {
		s.failJob(ctx, jobID, err.Error())
		return
	}

	if err := s.store.CompleteJob(ctx, jobID, result); err != nil {
		slog.Error("storing review result", "error", err, "job_id", jobID)
		s.failJob(ctx, jobID, fmt.Sprintf("storing result: %v", err))
		return
	}
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusCompleted, jobStatusTTL)

	slog.Info("review completed", "job_id", jobID, "language", result.Metadata.Language)
}

func (s *Service) failJob(ctx context.Context, jobID uuid.UUID, message string) {
	if err := s.store.FailJob(ctx, jobID, message); err != nil {
		slog.Error("marking job failed", "error", err, "job_id", jobID)
		return
	}
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, jobStatusTTL)
}

// GetJob returns the job scoped to its submitter. Read-only; a mid-run job
// reports status processing with neither result nor error populated.
func (s *Service) GetJob(ctx context.Context, submitterID string, jobID uuid.UUID) (*models.Job, error) {
	return s.store.GetJob(ctx, submitterID, jobID)
}
