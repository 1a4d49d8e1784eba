package model

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status can never change again on the server
// (except for an explicit cancellation, which itself forces a terminal state).
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Result is one scraped article attached to a completed job.
type Result struct {
	ID        string
	Title     string
	SourceURL string
	PDFPath   string // storage-relative, empty when no PDF was rendered
}

// Job is a unit of requested search work executed on the backend.
// The tracker never mutates a job locally except for display-only
// reclassification of stuck entries.
type Job struct {
	ID           string
	Keyword      string
	ArticleCount int
	Status       JobStatus
	CreatedAt    time.Time
	Results      []Result // present iff completed
	ErrorMessage string   // present iff failed
}

// Age returns how long the job has existed at the given instant.
func (j *Job) Age(now time.Time) time.Duration {
	return now.Sub(j.CreatedAt)
}

// Stuck reports whether a non-terminal job has exceeded the timeout and
// should be shown as failed without touching the backing store.
func (j *Job) Stuck(now time.Time, timeout time.Duration) bool {
	return !j.Status.Terminal() && j.Age(now) >= timeout
}

// Clone returns a deep copy so display-only mutations never leak into
// shared snapshots.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Results != nil {
		cp.Results = make([]Result, len(j.Results))
		copy(cp.Results, j.Results)
	}
	return &cp
}
