package repository

import "context"

// RemovalLedger is the durable set of job ids the user has dismissed from
// the active view. Ids only ever accumulate; a dismissed job is hidden, the
// underlying record on the server is untouched.
type RemovalLedger interface {
	// Load hydrates the ledger from its backing store. Called once at
	// startup; a missing record is an empty ledger, not an error.
	Load(ctx context.Context) error

	// Add records a dismissal and persists it. Adding an id twice is a
	// no-op.
	Add(ctx context.Context, id string) error

	// Contains answers from memory, without touching the store.
	Contains(id string) bool

	// IDs returns a copy of the recorded ids in insertion order.
	IDs() []string
}
