package adapter

import (
	"context"

	"infoseek-tracker/internal/domain/model"
)

// JobStoreAdapter is the port for the remote search-job backend. The tracker
// is a pure observer of that store: jobs are created and mutated there, and
// the only write besides create is the cancellation patch.
type JobStoreAdapter interface {
	// Create submits a new search job; the returned job is in pending status.
	Create(ctx context.Context, query model.SearchQuery) (*model.Job, error)

	// Get returns the current snapshot of one job. Results are present iff
	// the job completed, the error message iff it failed.
	Get(ctx context.Context, id string) (*model.Job, error)

	// List returns the full job collection, newest first as reported by the
	// server. The wire shape may be a bare array or a {results:[...]}
	// envelope; implementations must accept both.
	List(ctx context.Context) ([]*model.Job, error)

	// Cancel patches the job's status to failed. Used only for user
	// cancellation.
	Cancel(ctx context.Context, id string) (*model.Job, error)
}
