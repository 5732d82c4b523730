package models

import "time"

// Submission is the immutable input to one review job.
type Submission struct {
	Code        string `json:"code"`
	SubmitterID string `json:"submitter_id"`
}

// ReviewResult is the synthesized output of a completed review job, stored as
// the job's result and returned verbatim from the poll endpoint.
type ReviewResult struct {
	FinalReport string         `json:"final_report"`
	Metadata    ReviewMetadata `json:"metadata"`
}

// ReviewMetadata records which analyses ran and over what input.
type ReviewMetadata struct {
	ReviewDate  time.Time `json:"review_date"`
	Language    string    `json:"language"`
	CodeLength  int       `json:"code_length"`
	SectionsRun []string  `json:"sections_run"`
}
