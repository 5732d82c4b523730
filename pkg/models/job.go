package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job tracks one asynchronous code review. POST /api/v1/code returns a job_id
// with status "processing"; the client polls GET /api/v1/code/{submitter}/{job_id}
// until the status is completed or failed. A job transitions out of
// "processing" exactly once and never leaves a terminal status.
type Job struct {
	ID           uuid.UUID     `db:"id"            json:"job_id"`
	SubmitterID  string        `db:"submitter_id"  json:"submitter_id"`
	Status       string        `db:"status"        json:"status"`
	Result       *ReviewResult `db:"result"        json:"result,omitempty"`
	ErrorMessage *string       `db:"error_message" json:"error,omitempty"`
	CreatedAt    time.Time     `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"    json:"updated_at"`
}
